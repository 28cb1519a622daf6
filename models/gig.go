package models

// Gig is a service package offered by a freelancer.
type Gig struct {
	Model
	FreelancerID uint    `gorm:"index;not null" json:"freelancer_id"`
	Title        string  `json:"title" binding:"required" conform:"trim"`
	Description  string  `json:"description" conform:"trim"`
	Category     string  `json:"category" conform:"trim"`
	Price        float64 `json:"price"`
	Status       string  `gorm:"default:active" json:"status"`
	ImageURL     string  `json:"image_url"`
}

// Job is a work posting created by a client.
type Job struct {
	Model
	ClientID    uint    `gorm:"index;not null" json:"client_id"`
	Title       string  `json:"title" binding:"required" conform:"trim"`
	Description string  `json:"description" conform:"trim"`
	Category    string  `json:"category" conform:"trim"`
	Budget      float64 `json:"budget"`
	Status      string  `gorm:"default:active" json:"status"`
}

// Proposal is a freelancer's bid on a job.
type Proposal struct {
	Model
	JobID        uint    `gorm:"index;not null" json:"job_id"`
	FreelancerID uint    `gorm:"index;not null" json:"freelancer_id"`
	CoverLetter  string  `json:"cover_letter" conform:"trim"`
	BidAmount    float64 `json:"bid_amount"`
	Status       string  `gorm:"default:pending" json:"status"`
}

// Bookmark shortlists a gig for a client.
type Bookmark struct {
	Model
	UserID uint `gorm:"index:idx_bookmark_user_gig,unique;not null" json:"user_id"`
	GigID  uint `gorm:"index:idx_bookmark_user_gig,unique;not null" json:"gig_id"`
}
