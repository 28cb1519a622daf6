package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UnreadMap stores the per-user unread counter map as a JSONB column.
type UnreadMap map[string]int

func (m UnreadMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	return string(b), err
}

func (m *UnreadMap) Scan(value interface{}) error {
	if value == nil {
		*m = UnreadMap{}
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported type for UnreadMap: %T", value)
	}
	return json.Unmarshal(b, m)
}

// Conversation is the denormalized per-participant-pair record summarizing a
// message thread. One row exists per pair of users (+ optional gig context);
// ConversationKey enforces that uniqueness.
type Conversation struct {
	Model
	ConversationKey string    `gorm:"uniqueIndex;not null" json:"conversation_key"`
	SenderID        uint      `gorm:"index;not null" json:"sender_id"`
	RecipientID     uint      `gorm:"index;not null" json:"recipient_id"`
	SenderName      string    `json:"sender_name"`
	RecipientName   string    `json:"recipient_name"`
	SenderAvatar    string    `json:"sender_avatar"`
	RecipientAvatar string    `json:"recipient_avatar"`
	LastMessage     string    `json:"last_message"`
	LastMessageAt   time.Time `json:"last_message_at"`
	LastMessageBy   uint      `json:"last_message_by"`
	UnreadCounts    UnreadMap `gorm:"type:jsonb;default:'{}'" json:"unread_counts"`
	GigID           uint      `json:"gig_id,omitempty"`
	GigTitle        string    `json:"gig_title,omitempty"`
}

// ConversationKey derives the canonical identity of a conversation: the
// participant pair in ascending order plus the optional gig context. The same
// key is used on the write path (find-or-create) and the read path (de-dup).
func ConversationKeyFor(a, b uint, gigID uint) string {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	key := fmt.Sprintf("%d_%d", lo, hi)
	if gigID != 0 {
		key += "_g" + strconv.FormatUint(uint64(gigID), 10)
	}
	return key
}

// ParticipantsKeyFor builds the two directional lookup keys for a message.
func ParticipantsKeyFor(senderID, recipientID uint) string {
	return strings.Join([]string{
		fmt.Sprintf("%d_%d", senderID, recipientID),
		fmt.Sprintf("%d_%d", recipientID, senderID),
	}, ",")
}
