package services

import (
	"log"
	"net/http"

	"github.com/freelancenest/nest/db"
	apiError "github.com/freelancenest/nest/errors"
	"github.com/freelancenest/nest/models"
)

// GigService covers the marketplace listings: gigs, jobs, proposals and
// bookmarks. Creation is gated on the caller's account type.
type GigService interface {
	CreateGig(session *models.Session, gig *models.Gig) *apiError.Error
	ListGigsByFreelancer(freelancerID uint) ([]models.Gig, error)
	ListGigsByCategory(category string) ([]models.Gig, error)
	CreateJob(session *models.Session, job *models.Job) *apiError.Error
	ListActiveJobs() ([]models.Job, error)
	CreateProposal(session *models.Session, proposal *models.Proposal) *apiError.Error
	ListProposalsByFreelancer(freelancerID uint) ([]models.Proposal, error)
	ListProposalsByJob(jobID uint) ([]models.Proposal, error)
	SaveBookmark(userID, gigID uint) error
	RemoveBookmark(userID, gigID uint) error
	ListBookmarkedGigs(userID uint) ([]models.Gig, error)
}

type gigService struct {
	gigRepo db.GigRepository
}

func NewGigService(gigRepo db.GigRepository) GigService {
	return &gigService{gigRepo: gigRepo}
}

func (s *gigService) CreateGig(session *models.Session, gig *models.Gig) *apiError.Error {
	if session.AccountType != models.AccountTypeFreelancer {
		return apiError.New("only freelancers can create gigs", http.StatusForbidden)
	}
	gig.FreelancerID = session.UserID
	if err := s.gigRepo.CreateGig(gig); err != nil {
		log.Printf("CreateGig: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (s *gigService) ListGigsByFreelancer(freelancerID uint) ([]models.Gig, error) {
	return s.gigRepo.ListGigsByFreelancer(freelancerID)
}

func (s *gigService) ListGigsByCategory(category string) ([]models.Gig, error) {
	return s.gigRepo.ListGigsByCategory(category)
}

func (s *gigService) CreateJob(session *models.Session, job *models.Job) *apiError.Error {
	if session.AccountType != models.AccountTypeClient {
		return apiError.New("only clients can post jobs", http.StatusForbidden)
	}
	job.ClientID = session.UserID
	if err := s.gigRepo.CreateJob(job); err != nil {
		log.Printf("CreateJob: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (s *gigService) ListActiveJobs() ([]models.Job, error) {
	return s.gigRepo.ListActiveJobs()
}

func (s *gigService) CreateProposal(session *models.Session, proposal *models.Proposal) *apiError.Error {
	if session.AccountType != models.AccountTypeFreelancer {
		return apiError.New("only freelancers can submit proposals", http.StatusForbidden)
	}
	proposal.FreelancerID = session.UserID
	proposal.Status = "pending"
	if err := s.gigRepo.CreateProposal(proposal); err != nil {
		log.Printf("CreateProposal: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (s *gigService) ListProposalsByFreelancer(freelancerID uint) ([]models.Proposal, error) {
	return s.gigRepo.ListProposalsByFreelancer(freelancerID)
}

func (s *gigService) ListProposalsByJob(jobID uint) ([]models.Proposal, error) {
	return s.gigRepo.ListProposalsByJob(jobID)
}

func (s *gigService) SaveBookmark(userID, gigID uint) error {
	return s.gigRepo.SaveBookmark(userID, gigID)
}

func (s *gigService) RemoveBookmark(userID, gigID uint) error {
	return s.gigRepo.RemoveBookmark(userID, gigID)
}

func (s *gigService) ListBookmarkedGigs(userID uint) ([]models.Gig, error) {
	return s.gigRepo.ListBookmarkedGigs(userID)
}
