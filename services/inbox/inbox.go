// Package inbox keeps a user's conversation list and unread counters in sync
// with the store. It merges the two participant-side queries into one ordered,
// de-duplicated view, tracks the unread total across refreshes, and fires a
// notification when new incoming messages arrive.
package inbox

import "time"

// Row is the raw participant-keyed conversation record as the store returns
// it, before normalization.
type Row struct {
	ID              string
	ConversationID  string
	SenderID        string
	RecipientID     string
	SenderName      string
	RecipientName   string
	SenderAvatar    string
	RecipientAvatar string
	LastMessage     string
	LastMessageAt   time.Time
	LastMessageBy   string
	UnreadCounts    map[string]int
	GigID           string
	GigTitle        string
}

// Conversation is the normalized, symmetric projection of a Row: participant
// metadata keyed by user id instead of by sender/recipient position.
type Conversation struct {
	ID                 string            `json:"id"`
	Participants       []string          `json:"participants"`
	ParticipantNames   map[string]string `json:"participant_names"`
	ParticipantAvatars map[string]string `json:"participant_avatars"`
	LastMessage        string            `json:"last_message"`
	LastMessageTime    time.Time         `json:"last_message_time"`
	LastMessageSender  string            `json:"last_message_sender"`
	UnreadCount        map[string]int    `json:"unread_count"`
	GigID              string            `json:"gig_id,omitempty"`
	GigTitle           string            `json:"gig_title,omitempty"`
}

// Snapshot is the consistent view published to listeners after each
// recompute. Its contents are never mutated after publication.
type Snapshot struct {
	Conversations []Conversation `json:"conversations"`
	UnreadTotal   int            `json:"unread_total"`
}
