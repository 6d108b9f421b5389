package repository

import (
	"time"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MessageRepository interface {
	WithTx(tx *gorm.DB) MessageRepository
	Create(message *model.Message) error
	FindByID(id uint) (*model.Message, error)
	FindViewByID(id uint) (*model.MessageView, error)
	// Conversation returns both directions between two users, oldest first
	Conversation(userID, otherUserID uint) ([]model.MessageView, error)
	// ForUser returns every message the user sent or received, newest first
	ForUser(userID uint) ([]model.Message, error)
	MarkRead(id uint, at time.Time) (int64, error)
	MarkAllReadFrom(receiverID, senderID uint, at time.Time) (int64, error)
	CountUnread(receiverID uint) (int64, error)
	RecentReceived(receiverID uint, limit int) ([]model.MessageView, error)
	CountSent(senderID uint) (int64, error)
	CountDistinctReceivers(senderID uint, receiverType model.UserType) (int64, error)
	RecentlyContacted(senderID uint, receiverType model.UserType, limit int) ([]uint, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) WithTx(tx *gorm.DB) MessageRepository {
	return &messageRepository{db: tx}
}

func (r *messageRepository) Create(message *model.Message) error {
	if err := r.db.Omit(clause.Associations).Create(message).Error; err != nil {
		logger.Error("Failed to create message", err, map[string]interface{}{
			"sender_id":   message.SenderID,
			"receiver_id": message.ReceiverID,
		})
		return err
	}
	return nil
}

func (r *messageRepository) FindByID(id uint) (*model.Message, error) {
	var message model.Message
	if err := r.db.First(&message, id).Error; err != nil {
		logFindError("message", id, err)
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) viewQuery() *gorm.DB {
	return r.db.Table("messages AS m").
		Select(`m.id, m.sender_id, s.name AS sender_name, s.user_type AS sender_type,
			m.receiver_id, rc.name AS receiver_name, rc.user_type AS receiver_type,
			m.content, m.is_read, m.read_at, m.product_id, p.name AS product_name, m.created_at`).
		Joins("JOIN users s ON s.id = m.sender_id").
		Joins("JOIN users rc ON rc.id = m.receiver_id").
		Joins("LEFT JOIN products p ON p.id = m.product_id")
}

func (r *messageRepository) FindViewByID(id uint) (*model.MessageView, error) {
	var views []model.MessageView
	if err := r.viewQuery().Where("m.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &views[0], nil
}

func (r *messageRepository) Conversation(userID, otherUserID uint) ([]model.MessageView, error) {
	views := []model.MessageView{}
	err := r.viewQuery().
		Where("(m.sender_id = ? AND m.receiver_id = ?) OR (m.sender_id = ? AND m.receiver_id = ?)",
			userID, otherUserID, otherUserID, userID).
		Order("m.created_at ASC").Order("m.id ASC").
		Scan(&views).Error
	return views, err
}

func (r *messageRepository) ForUser(userID uint) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").Order("id DESC").
		Find(&messages).Error
	if err != nil {
		logger.Error("Failed to load messages for user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return messages, nil
}

// MarkRead only touches unread rows, so a repeated call affects nothing
func (r *messageRepository) MarkRead(id uint, at time.Time) (int64, error) {
	result := r.db.Model(&model.Message{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	return result.RowsAffected, result.Error
}

func (r *messageRepository) MarkAllReadFrom(receiverID, senderID uint, at time.Time) (int64, error) {
	result := r.db.Model(&model.Message{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", receiverID, senderID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	return result.RowsAffected, result.Error
}

func (r *messageRepository) CountUnread(receiverID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Message{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Count(&count).Error
	return count, err
}

func (r *messageRepository) RecentReceived(receiverID uint, limit int) ([]model.MessageView, error) {
	views := []model.MessageView{}
	err := r.viewQuery().
		Where("m.receiver_id = ?", receiverID).
		Order("m.created_at DESC").Order("m.id DESC").
		Limit(limit).
		Scan(&views).Error
	return views, err
}

func (r *messageRepository) CountSent(senderID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Message{}).Where("sender_id = ?", senderID).Count(&count).Error
	return count, err
}

func (r *messageRepository) CountDistinctReceivers(senderID uint, receiverType model.UserType) (int64, error) {
	var count int64
	err := r.db.Table("messages AS m").
		Joins("JOIN users u ON u.id = m.receiver_id").
		Where("m.sender_id = ? AND u.user_type = ?", senderID, receiverType).
		Distinct("m.receiver_id").
		Count(&count).Error
	return count, err
}

// RecentlyContacted lists distinct receivers by their latest message time, newest first
func (r *messageRepository) RecentlyContacted(senderID uint, receiverType model.UserType, limit int) ([]uint, error) {
	var ids []uint
	err := r.db.Table("messages AS m").
		Select("m.receiver_id").
		Joins("JOIN users u ON u.id = m.receiver_id").
		Where("m.sender_id = ? AND u.user_type = ?", senderID, receiverType).
		Group("m.receiver_id").
		Order("MAX(m.created_at) DESC, MAX(m.id) DESC").
		Limit(limit).
		Pluck("m.receiver_id", &ids).Error
	return ids, err
}
