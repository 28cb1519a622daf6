package services

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/freelancenest/nest/db"
	apiError "github.com/freelancenest/nest/errors"
	"github.com/freelancenest/nest/models"
	"github.com/freelancenest/nest/services/inbox"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageService owns the send and read paths of direct messaging and feeds
// the inbox change feed after every mutation.
type MessageService interface {
	SendMessage(session *models.Session, req *models.SendMessageRequest) (*models.Message, *apiError.Error)
	ListMessages(userID, otherID uint) ([]models.Message, error)
	MarkConversationRead(userID, otherID, gigID uint) *apiError.Error
	ListConversations(userID uint) (*inbox.Snapshot, error)

	// Lister is the read side the inbox coordinator polls on each change.
	inbox.Lister
}

type messageService struct {
	authRepo db.AuthRepository
	convRepo db.ConversationRepository
	msgRepo  db.MessageRepository
	broker   *inbox.Broker
}

func NewMessageService(authRepo db.AuthRepository, convRepo db.ConversationRepository, msgRepo db.MessageRepository, broker *inbox.Broker) MessageService {
	return &messageService{
		authRepo: authRepo,
		convRepo: convRepo,
		msgRepo:  msgRepo,
		broker:   broker,
	}
}

// SendMessage persists the message, rolls the conversation summary forward
// and publishes the change. The recipient's unread counter goes up by one;
// the sender's resets to zero.
func (s *messageService) SendMessage(session *models.Session, req *models.SendMessageRequest) (*models.Message, *apiError.Error) {
	if req.RecipientID == session.UserID {
		return nil, apiError.New("cannot message yourself", http.StatusBadRequest)
	}

	recipient, err := s.authRepo.FindUserByID(req.RecipientID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apiError.New("recipient not found", http.StatusNotFound)
		}
		log.Printf("SendMessage: find recipient %d: %v", req.RecipientID, err)
		return nil, apiError.ErrInternalServerError
	}
	sender, err := s.authRepo.FindUserByID(session.UserID)
	if err != nil {
		log.Printf("SendMessage: find sender %d: %v", session.UserID, err)
		return nil, apiError.ErrInternalServerError
	}

	now := time.Now().UTC()
	msg := &models.Message{
		ID:              uuid.New(),
		SenderID:        sender.ID,
		RecipientID:     recipient.ID,
		Body:            req.Body,
		SentAt:          now,
		ParticipantsKey: models.ParticipantsKeyFor(sender.ID, recipient.ID),
		GigID:           req.GigID,
		GigTitle:        req.GigTitle,
	}
	if err := s.msgRepo.SaveMessage(msg); err != nil {
		log.Printf("SendMessage: save message: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	key := models.ConversationKeyFor(sender.ID, recipient.ID, req.GigID)
	conv := &models.Conversation{
		ConversationKey: key,
		SenderID:        sender.ID,
		RecipientID:     recipient.ID,
		SenderName:      sender.Fullname,
		RecipientName:   recipient.Fullname,
		SenderAvatar:    sender.ThumbNailURL,
		RecipientAvatar: recipient.ThumbNailURL,
		GigID:           req.GigID,
		GigTitle:        req.GigTitle,
	}
	if _, err := s.convRepo.FindOrCreate(conv); err != nil {
		log.Printf("SendMessage: find or create conversation %s: %v", key, err)
		return nil, apiError.ErrInternalServerError
	}
	if err := s.convRepo.UpdateOnSend(key, sender.ID, recipient.ID, req.Body, now); err != nil {
		log.Printf("SendMessage: update conversation %s: %v", key, err)
		return nil, apiError.ErrInternalServerError
	}

	s.broker.Publish(inbox.Event{
		SenderID:    formatID(sender.ID),
		RecipientID: formatID(recipient.ID),
	})
	return msg, nil
}

func (s *messageService) ListMessages(userID, otherID uint) ([]models.Message, error) {
	return s.msgRepo.ListBetween(userID, otherID)
}

// MarkConversationRead zeroes the caller's unread counter and flips the
// stored messages from the other party to read, then publishes so open
// subscriptions refresh their totals.
func (s *messageService) MarkConversationRead(userID, otherID, gigID uint) *apiError.Error {
	key := models.ConversationKeyFor(userID, otherID, gigID)
	if err := s.convRepo.MarkRead(key, userID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apiError.New("conversation not found", http.StatusNotFound)
		}
		log.Printf("MarkConversationRead: %s: %v", key, err)
		return apiError.ErrInternalServerError
	}
	if err := s.msgRepo.MarkRead(userID, otherID); err != nil {
		log.Printf("MarkConversationRead: mark messages: %v", err)
		return apiError.ErrInternalServerError
	}

	s.broker.Publish(inbox.Event{
		SenderID:    formatID(otherID),
		RecipientID: formatID(userID),
	})
	return nil
}

// ListConversations returns the merged, ordered view of both participant
// sides plus the unread total, the same shape the live subscription streams.
func (s *messageService) ListConversations(userID uint) (*inbox.Snapshot, error) {
	me := formatID(userID)
	asSender, err := s.ListAsSender(me)
	if err != nil {
		return nil, err
	}
	asRecipient, err := s.ListAsRecipient(me)
	if err != nil {
		return nil, err
	}

	convs := inbox.Normalize(asSender, asRecipient, me)
	agg := inbox.Aggregate(convs, me, 0)
	return &inbox.Snapshot{Conversations: convs, UnreadTotal: agg.Total}, nil
}

func (s *messageService) ListAsSender(userID string) ([]inbox.Row, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	convs, err := s.convRepo.ListBySender(id)
	if err != nil {
		return nil, err
	}
	return toInboxRows(convs), nil
}

func (s *messageService) ListAsRecipient(userID string) ([]inbox.Row, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	convs, err := s.convRepo.ListByRecipient(id)
	if err != nil {
		return nil, err
	}
	return toInboxRows(convs), nil
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func parseUserID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	return uint(id), err
}

func toInboxRows(convs []models.Conversation) []inbox.Row {
	rows := make([]inbox.Row, 0, len(convs))
	for _, c := range convs {
		counts := make(map[string]int, len(c.UnreadCounts))
		for k, v := range c.UnreadCounts {
			counts[k] = v
		}
		var lastBy string
		if c.LastMessageBy != 0 {
			lastBy = formatID(c.LastMessageBy)
		}
		var gigID string
		if c.GigID != 0 {
			gigID = formatID(c.GigID)
		}
		rows = append(rows, inbox.Row{
			ID:              formatID(c.ID),
			ConversationID:  c.ConversationKey,
			SenderID:        formatID(c.SenderID),
			RecipientID:     formatID(c.RecipientID),
			SenderName:      c.SenderName,
			RecipientName:   c.RecipientName,
			SenderAvatar:    c.SenderAvatar,
			RecipientAvatar: c.RecipientAvatar,
			LastMessage:     c.LastMessage,
			LastMessageAt:   c.LastMessageAt,
			LastMessageBy:   lastBy,
			UnreadCounts:    counts,
			GigID:           gigID,
			GigTitle:        c.GigTitle,
		})
	}
	return rows
}
