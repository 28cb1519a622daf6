package models

// PortfolioItem is one showcase entry on a freelancer profile.
type PortfolioItem struct {
	Model
	UserID      uint   `gorm:"index;not null" json:"user_id"`
	Title       string `json:"title" binding:"required" conform:"trim"`
	Description string `json:"description" conform:"trim"`
	ImageURL    string `json:"image_url"`
	ProjectURL  string `json:"project_url"`
	Tags        string `json:"tags"`
}
