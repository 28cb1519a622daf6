package db

import (
	"github.com/freelancenest/nest/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type MessageRepository interface {
	SaveMessage(msg *models.Message) error
	ListBetween(userID, otherID uint) ([]models.Message, error)
	MarkRead(recipientID, senderID uint) error
	CountUnread(recipientID uint) (int64, error)
}

type messageRepo struct {
	DB *gorm.DB
}

func NewMessageRepo(db *GormDB) MessageRepository {
	return &messageRepo{db.DB}
}

func (r *messageRepo) SaveMessage(msg *models.Message) error {
	if msg == nil {
		return errors.New("message is nil")
	}
	return r.DB.Create(msg).Error
}

func (r *messageRepo) ListBetween(userID, otherID uint) ([]models.Message, error) {
	var msgs []models.Message
	err := r.DB.Where(
		"(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
		userID, otherID, otherID, userID,
	).Order("sent_at asc").Find(&msgs).Error
	return msgs, err
}

// MarkRead flips the isRead flag on every unread message from sender to
// recipient. The flag only ever transitions false -> true.
func (r *messageRepo) MarkRead(recipientID, senderID uint) error {
	return r.DB.Model(&models.Message{}).
		Where("recipient_id = ? AND sender_id = ? AND is_read = ?", recipientID, senderID, false).
		Update("is_read", true).Error
}

func (r *messageRepo) CountUnread(recipientID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Message{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}
