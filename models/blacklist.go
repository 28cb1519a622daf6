package models

type Blacklist struct {
	Model
	Token string `gorm:"index" json:"token"`
	Email string `json:"email"`
}
