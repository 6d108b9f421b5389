package model

import "time"

type NotificationType string

const (
	NotificationTypeNewMessage      NotificationType = "new_message"
	NotificationTypeProductInterest NotificationType = "product_interest"
	NotificationTypeNewReview       NotificationType = "new_review"
	NotificationTypeSystem          NotificationType = "system"
)

type Notification struct {
	ID              uint             `gorm:"primarykey" json:"id"`
	UserID          uint             `gorm:"not null;index:idx_notification_user_read,priority:1" json:"user_id"`
	Title           string           `gorm:"type:varchar(200);not null" json:"title"`
	Content         string           `gorm:"type:varchar(500);not null" json:"content"`
	Type            NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	IsRead          bool             `gorm:"not null;default:false;index:idx_notification_user_read,priority:2" json:"is_read"`
	RedirectURL     string           `json:"redirect_url"`
	RelatedEntityID *uint            `json:"related_entity_id"`
	ReadAt          *time.Time       `json:"read_at"`
	CreatedAt       time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}
