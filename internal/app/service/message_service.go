package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/internal/app/repository"
	"github.com/ciftci/ciftci-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrMessageNotFound  = errors.New("message not found")
	ErrMessageForbidden = errors.New("message is addressed to another user")
	ErrInvalidMessage   = errors.New("message content must be 1 to 1000 characters")
	ErrSenderNotFound   = errors.New("sender not found")
	ErrReceiverNotFound = errors.New("receiver not found")
	ErrMessageProduct   = errors.New("message product not found")
)

const maxMessageLength = 1000

type SendMessageInput struct {
	SenderID   uint
	ReceiverID uint
	Content    string
	ProductID  *uint
}

type MessageService interface {
	GetConversation(userID, otherUserID uint) ([]model.MessageView, error)
	GetConversations(userID uint) ([]model.ConversationSummary, error)
	// SendMessage stores the message and its notification in one transaction
	SendMessage(input SendMessageInput) (*model.MessageView, error)
	MarkAsRead(messageID, userID uint) error
	MarkAllAsRead(userID, senderID uint) (int64, error)
	GetUnreadCount(userID uint) (int64, error)
}

type messageService struct {
	db               *gorm.DB
	messageRepo      repository.MessageRepository
	userRepo         repository.UserRepository
	productRepo      repository.ProductRepository
	notificationRepo repository.NotificationRepository
	notifications    NotificationService
}

func NewMessageService(
	db *gorm.DB,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	notificationRepo repository.NotificationRepository,
	notifications NotificationService,
) MessageService {
	return &messageService{
		db:               db,
		messageRepo:      messageRepo,
		userRepo:         userRepo,
		productRepo:      productRepo,
		notificationRepo: notificationRepo,
		notifications:    notifications,
	}
}

func (s *messageService) GetConversation(userID, otherUserID uint) ([]model.MessageView, error) {
	return s.messageRepo.Conversation(userID, otherUserID)
}

func (s *messageService) GetConversations(userID uint) ([]model.ConversationSummary, error) {
	messages, err := s.messageRepo.ForUser(userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0)
	seen := make(map[uint]bool)
	for _, m := range messages {
		other := m.SenderID
		if other == userID {
			other = m.ReceiverID
		}
		if !seen[other] {
			seen[other] = true
			ids = append(ids, other)
		}
	}

	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	return GroupConversations(userID, messages, users), nil
}

func (s *messageService) SendMessage(input SendMessageInput) (*model.MessageView, error) {
	// whitespace-only content is empty; stored content is kept as sent
	trimmed := strings.TrimSpace(input.Content)
	if trimmed == "" || utf8.RuneCountInString(input.Content) > maxMessageLength {
		return nil, ErrInvalidMessage
	}

	message := &model.Message{
		SenderID:   input.SenderID,
		ReceiverID: input.ReceiverID,
		Content:    input.Content,
		ProductID:  input.ProductID,
	}
	var notification *model.Notification

	err := s.db.Transaction(func(tx *gorm.DB) error {
		userRepo := s.userRepo.WithTx(tx)
		sender, err := userRepo.FindByID(input.SenderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSenderNotFound
			}
			return err
		}
		if _, err := userRepo.FindByID(input.ReceiverID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReceiverNotFound
			}
			return err
		}
		if input.ProductID != nil {
			if _, err := s.productRepo.WithTx(tx).FindByID(*input.ProductID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrMessageProduct
				}
				return err
			}
		}

		if err := s.messageRepo.WithTx(tx).Create(message); err != nil {
			return err
		}

		notification = &model.Notification{
			UserID:          input.ReceiverID,
			Title:           "Yeni Mesaj",
			Content:         fmt.Sprintf("%s size yeni bir mesaj gönderdi: %s", sender.Name, excerpt(trimmed, notificationExcerpt)),
			Type:            model.NotificationTypeNewMessage,
			RedirectURL:     fmt.Sprintf("/messages/%d", input.SenderID),
			RelatedEntityID: &sender.ID,
		}
		return s.notificationRepo.WithTx(tx).Create(notification)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Message sent", map[string]interface{}{
		"message_id":  message.ID,
		"sender_id":   message.SenderID,
		"receiver_id": message.ReceiverID,
	})

	s.notifications.Push(notification)

	view, err := s.messageRepo.FindViewByID(message.ID)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// MarkAsRead is idempotent; only the receiver may mark a message
func (s *messageService) MarkAsRead(messageID, userID uint) error {
	message, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	if message.ReceiverID != userID {
		return ErrMessageForbidden
	}

	_, err = s.messageRepo.MarkRead(messageID, time.Now())
	return err
}

func (s *messageService) MarkAllAsRead(userID, senderID uint) (int64, error) {
	return s.messageRepo.MarkAllReadFrom(userID, senderID, time.Now())
}

func (s *messageService) GetUnreadCount(userID uint) (int64, error) {
	return s.messageRepo.CountUnread(userID)
}
