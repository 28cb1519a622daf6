package db

import (
	"strconv"
	"time"

	"github.com/freelancenest/nest/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// uintKey renders a user id the way the unread-count JSON map keys it.
func uintKey(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

type ConversationRepository interface {
	FindByKey(key string) (*models.Conversation, error)
	// FindOrCreate enforces the one-conversation-per-pair invariant: the
	// canonical key is checked before insert, and the unique index backs
	// that check up under concurrent sends.
	FindOrCreate(conv *models.Conversation) (*models.Conversation, error)
	UpdateOnSend(key string, senderID, recipientID uint, body string, at time.Time) error
	MarkRead(key string, userID uint) error
	ListBySender(userID uint) ([]models.Conversation, error)
	ListByRecipient(userID uint) ([]models.Conversation, error)
}

type conversationRepo struct {
	DB *gorm.DB
}

func NewConversationRepo(db *GormDB) ConversationRepository {
	return &conversationRepo{db.DB}
}

func (r *conversationRepo) FindByKey(key string) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.DB.Where("conversation_key = ?", key).First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepo) FindOrCreate(conv *models.Conversation) (*models.Conversation, error) {
	existing, err := r.FindByKey(conv.ConversationKey)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "lookup conversation")
	}

	if conv.UnreadCounts == nil {
		conv.UnreadCounts = models.UnreadMap{}
	}
	if err := r.DB.Create(conv).Error; err != nil {
		// lost a race with a concurrent send; the unique index kept the
		// store consistent, re-read the winning row
		if winner, findErr := r.FindByKey(conv.ConversationKey); findErr == nil {
			return winner, nil
		}
		return nil, errors.Wrap(err, "create conversation")
	}
	return conv, nil
}

func (r *conversationRepo) UpdateOnSend(key string, senderID, recipientID uint, body string, at time.Time) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var conv models.Conversation
		if err := tx.Where("conversation_key = ?", key).First(&conv).Error; err != nil {
			return err
		}
		if conv.UnreadCounts == nil {
			conv.UnreadCounts = models.UnreadMap{}
		}
		conv.LastMessage = body
		conv.LastMessageAt = at
		conv.LastMessageBy = senderID
		conv.UnreadCounts[uintKey(senderID)] = 0
		conv.UnreadCounts[uintKey(recipientID)]++
		return tx.Save(&conv).Error
	})
}

func (r *conversationRepo) MarkRead(key string, userID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var conv models.Conversation
		if err := tx.Where("conversation_key = ?", key).First(&conv).Error; err != nil {
			return err
		}
		if conv.UnreadCounts == nil {
			conv.UnreadCounts = models.UnreadMap{}
		}
		conv.UnreadCounts[uintKey(userID)] = 0
		return tx.Save(&conv).Error
	})
}

func (r *conversationRepo) ListBySender(userID uint) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.DB.Where("sender_id = ?", userID).Find(&convs).Error
	return convs, err
}

func (r *conversationRepo) ListByRecipient(userID uint) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.DB.Where("recipient_id = ?", userID).Find(&convs).Error
	return convs, err
}
