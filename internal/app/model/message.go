package model

import "time"

// Message is a direct message between two users, optionally about a product.
type Message struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	SenderID   uint       `gorm:"not null;index:idx_message_sender_created,priority:1" json:"sender_id"`
	ReceiverID uint       `gorm:"not null;index:idx_message_receiver_read,priority:1" json:"receiver_id"`
	Content    string     `gorm:"type:varchar(1000);not null" json:"content"`
	IsRead     bool       `gorm:"not null;default:false;index:idx_message_receiver_read,priority:2" json:"is_read"`
	ReadAt     *time.Time `json:"read_at"`
	ProductID  *uint      `gorm:"index" json:"product_id"`
	CreatedAt  time.Time  `gorm:"index:idx_message_sender_created,priority:2" json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Sender   *User    `gorm:"foreignKey:SenderID" json:"-"`
	Receiver *User    `gorm:"foreignKey:ReceiverID" json:"-"`
	Product  *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Message) TableName() string {
	return "messages"
}

// MessageView is a message with sender, receiver and product names resolved.
type MessageView struct {
	ID           uint       `json:"id"`
	SenderID     uint       `json:"sender_id"`
	SenderName   string     `json:"sender_name"`
	SenderType   UserType   `json:"sender_type"`
	ReceiverID   uint       `json:"receiver_id"`
	ReceiverName string     `json:"receiver_name"`
	ReceiverType UserType   `json:"receiver_type"`
	Content      string     `json:"content"`
	IsRead       bool       `json:"is_read"`
	ReadAt       *time.Time `json:"read_at"`
	ProductID    *uint      `json:"product_id"`
	ProductName  *string    `json:"product_name"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ConversationSummary is one entry of a user's inbox, keyed by counterparty.
type ConversationSummary struct {
	UserID          uint      `json:"user_id"`
	UserName        string    `json:"user_name"`
	UserType        UserType  `json:"user_type"`
	ProfileImageURL string    `json:"profile_image_url"`
	LastMessage     string    `json:"last_message"`
	LastMessageDate time.Time `json:"last_message_date"`
	UnreadCount     int       `json:"unread_count"`
}
