package model

import "time"

// Review is a rating one user gives another. One per (reviewer, reviewed user) pair.
type Review struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	ReviewerID     uint      `gorm:"not null;uniqueIndex:idx_review_pair,priority:1" json:"reviewer_id"`
	ReviewedUserID uint      `gorm:"not null;uniqueIndex:idx_review_pair,priority:2;index" json:"reviewed_user_id"`
	Rating         int       `gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5" json:"rating"`
	Comment        string    `gorm:"type:varchar(500)" json:"comment"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Reviewer     *User `gorm:"foreignKey:ReviewerID" json:"-"`
	ReviewedUser *User `gorm:"foreignKey:ReviewedUserID" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewView is a review with both parties resolved.
type ReviewView struct {
	ID               uint      `json:"id"`
	ReviewerID       uint      `json:"reviewer_id"`
	ReviewerName     string    `json:"reviewer_name"`
	ReviewedUserID   uint      `json:"reviewed_user_id"`
	ReviewedUserName string    `json:"reviewed_user_name"`
	Rating           int       `json:"rating"`
	Comment          string    `json:"comment"`
	CreatedAt        time.Time `json:"created_at"`
}
