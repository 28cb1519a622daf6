package db

import (
	"github.com/freelancenest/nest/models"
	"gorm.io/gorm"
)

type GigRepository interface {
	CreateGig(gig *models.Gig) error
	ListGigsByFreelancer(freelancerID uint) ([]models.Gig, error)
	ListGigsByCategory(category string) ([]models.Gig, error)
	CreateJob(job *models.Job) error
	ListActiveJobs() ([]models.Job, error)
	CreateProposal(proposal *models.Proposal) error
	ListProposalsByFreelancer(freelancerID uint) ([]models.Proposal, error)
	ListProposalsByJob(jobID uint) ([]models.Proposal, error)
	SaveBookmark(userID, gigID uint) error
	RemoveBookmark(userID, gigID uint) error
	ListBookmarkedGigs(userID uint) ([]models.Gig, error)
}

type gigRepo struct {
	DB *gorm.DB
}

func NewGigRepo(db *GormDB) GigRepository {
	return &gigRepo{db.DB}
}

func (r *gigRepo) CreateGig(gig *models.Gig) error {
	return r.DB.Create(gig).Error
}

func (r *gigRepo) ListGigsByFreelancer(freelancerID uint) ([]models.Gig, error) {
	var gigs []models.Gig
	err := r.DB.Where("freelancer_id = ?", freelancerID).Order("created_at desc").Find(&gigs).Error
	return gigs, err
}

// ListGigsByCategory lists active gigs; an empty category means the whole
// catalogue.
func (r *gigRepo) ListGigsByCategory(category string) ([]models.Gig, error) {
	var gigs []models.Gig
	query := r.DB.Where("status = ?", "active")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Order("created_at desc").Find(&gigs).Error
	return gigs, err
}

func (r *gigRepo) CreateJob(job *models.Job) error {
	return r.DB.Create(job).Error
}

func (r *gigRepo) ListActiveJobs() ([]models.Job, error) {
	var jobs []models.Job
	err := r.DB.Where("status = ?", "active").Order("created_at desc").Find(&jobs).Error
	return jobs, err
}

func (r *gigRepo) CreateProposal(proposal *models.Proposal) error {
	return r.DB.Create(proposal).Error
}

func (r *gigRepo) ListProposalsByFreelancer(freelancerID uint) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.DB.Where("freelancer_id = ?", freelancerID).Order("created_at desc").Find(&proposals).Error
	return proposals, err
}

func (r *gigRepo) ListProposalsByJob(jobID uint) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.DB.Where("job_id = ?", jobID).Order("created_at desc").Find(&proposals).Error
	return proposals, err
}

func (r *gigRepo) SaveBookmark(userID, gigID uint) error {
	bookmark := models.Bookmark{UserID: userID, GigID: gigID}
	return r.DB.FirstOrCreate(&bookmark, models.Bookmark{UserID: userID, GigID: gigID}).Error
}

func (r *gigRepo) RemoveBookmark(userID, gigID uint) error {
	return r.DB.Where("user_id = ? AND gig_id = ?", userID, gigID).Delete(&models.Bookmark{}).Error
}

func (r *gigRepo) ListBookmarkedGigs(userID uint) ([]models.Gig, error) {
	var gigs []models.Gig
	err := r.DB.Joins("JOIN bookmarks ON bookmarks.gig_id = gigs.id").
		Where("bookmarks.user_id = ? AND bookmarks.deleted_at IS NULL", userID).
		Order("bookmarks.created_at desc").Find(&gigs).Error
	return gigs, err
}
