package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is immutable once written, except for the IsRead transition
// false -> true. Messages are never deleted.
type Message struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID        uint      `gorm:"index;not null" json:"sender_id"`
	RecipientID     uint      `gorm:"index;not null" json:"recipient_id"`
	Body            string    `json:"body"`
	SentAt          time.Time `json:"sent_at"`
	IsRead          bool      `gorm:"default:false" json:"is_read"`
	ParticipantsKey string    `gorm:"index" json:"-"`
	GigID           uint      `json:"gig_id,omitempty"`
	GigTitle        string    `json:"gig_title,omitempty"`
}

type SendMessageRequest struct {
	RecipientID uint   `json:"recipient_id" binding:"required"`
	Body        string `json:"body" binding:"required" conform:"trim"`
	GigID       uint   `json:"gig_id"`
	GigTitle    string `json:"gig_title" conform:"trim"`
}
