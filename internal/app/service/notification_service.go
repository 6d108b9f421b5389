package service

import (
	"errors"
	"time"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/internal/app/repository"
	"github.com/ciftci/ciftci-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound  = errors.New("notification not found")
	ErrNotificationForbidden = errors.New("notification belongs to another user")
)

// EventNotification is the websocket event type carrying a Notification
const EventNotification = "notification"

// Pusher delivers an event to the open websocket sessions of a user.
// *websocket.Hub implements it.
type Pusher interface {
	SendToUser(userID uint, eventType string, data interface{}) error
}

type NotificationService interface {
	GetNotifications(userID uint, unreadOnly bool) ([]model.Notification, error)
	GetUnreadCount(userID uint) (int64, error)
	MarkAsRead(notificationID, userID uint) (*model.Notification, error)
	MarkAllAsRead(userID uint) (int64, error)
	DeleteNotification(notificationID, userID uint) error
	// CleanupRead removes read notifications older than retention
	CleanupRead(retention time.Duration) (int64, error)
	// Push sends an already persisted notification to its owner
	Push(notification *model.Notification)
}

type notificationService struct {
	repo repository.NotificationRepository
	hub  Pusher
}

// NewNotificationService builds the service. hub may be nil, in which case
// nothing is pushed.
func NewNotificationService(repo repository.NotificationRepository, hub Pusher) NotificationService {
	return &notificationService{
		repo: repo,
		hub:  hub,
	}
}

func (s *notificationService) GetNotifications(userID uint, unreadOnly bool) ([]model.Notification, error) {
	return s.repo.ListByUser(userID, unreadOnly)
}

func (s *notificationService) GetUnreadCount(userID uint) (int64, error) {
	return s.repo.CountUnread(userID)
}

func (s *notificationService) findOwned(notificationID, userID uint) (*model.Notification, error) {
	notification, err := s.repo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	if notification.UserID != userID {
		return nil, ErrNotificationForbidden
	}
	return notification, nil
}

func (s *notificationService) MarkAsRead(notificationID, userID uint) (*model.Notification, error) {
	notification, err := s.findOwned(notificationID, userID)
	if err != nil {
		return nil, err
	}

	// already read notifications keep their read_at
	if notification.IsRead {
		return notification, nil
	}

	now := time.Now()
	if err := s.repo.MarkRead(notificationID, now); err != nil {
		return nil, err
	}

	notification.IsRead = true
	notification.ReadAt = &now
	return notification, nil
}

func (s *notificationService) MarkAllAsRead(userID uint) (int64, error) {
	return s.repo.MarkAllRead(userID, time.Now())
}

func (s *notificationService) DeleteNotification(notificationID, userID uint) error {
	if _, err := s.findOwned(notificationID, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(notificationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

func (s *notificationService) CleanupRead(retention time.Duration) (int64, error) {
	removed, err := s.repo.DeleteReadBefore(time.Now().Add(-retention))
	if err != nil {
		logger.Error("Failed to clean up read notifications", err)
		return 0, err
	}
	logger.Info("Read notifications cleaned up", map[string]interface{}{
		"removed": removed,
	})
	return removed, nil
}

func (s *notificationService) Push(notification *model.Notification) {
	if s.hub == nil || notification == nil {
		return
	}
	if err := s.hub.SendToUser(notification.UserID, EventNotification, notification); err != nil {
		logger.Warn("Failed to push notification", map[string]interface{}{
			"notification_id": notification.ID,
			"user_id":         notification.UserID,
			"error":           err.Error(),
		})
	}
}

// excerpt cuts s to at most n runes, appending "..." when it was longer
func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
