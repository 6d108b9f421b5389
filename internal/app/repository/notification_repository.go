package repository

import (
	"time"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository interface {
	WithTx(tx *gorm.DB) NotificationRepository
	Create(notification *model.Notification) error
	FindByID(id uint) (*model.Notification, error)
	// ListByUser returns newest first; unreadOnly restricts to unread rows
	ListByUser(userID uint, unreadOnly bool) ([]model.Notification, error)
	CountUnread(userID uint) (int64, error)
	MarkRead(id uint, at time.Time) error
	MarkAllRead(userID uint, at time.Time) (int64, error)
	Delete(id uint) error
	// DeleteReadBefore removes read notifications created before cutoff
	DeleteReadBefore(cutoff time.Time) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) WithTx(tx *gorm.DB) NotificationRepository {
	return &notificationRepository{db: tx}
}

func (r *notificationRepository) Create(notification *model.Notification) error {
	return r.db.Omit(clause.Associations).Create(notification).Error
}

func (r *notificationRepository) FindByID(id uint) (*model.Notification, error) {
	var notification model.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) ListByUser(userID uint, unreadOnly bool) ([]model.Notification, error) {
	notifications := []model.Notification{}
	query := r.db.Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	err := query.Order("created_at DESC").Order("id DESC").Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) CountUnread(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead keeps the first read_at when called again
func (r *notificationRepository) MarkRead(id uint, at time.Time) error {
	return r.db.Model(&model.Notification{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at}).Error
}

func (r *notificationRepository) MarkAllRead(userID uint, at time.Time) (int64, error) {
	result := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) Delete(id uint) error {
	result := r.db.Delete(&model.Notification{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *notificationRepository) DeleteReadBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("is_read = ? AND created_at < ?", true, cutoff).Delete(&model.Notification{})
	return result.RowsAffected, result.Error
}
