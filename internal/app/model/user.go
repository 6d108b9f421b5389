package model

import "time"

// UserType doubles as the JWT role.
type UserType string

const (
	UserTypeBuyer  UserType = "buyer"  // alıcı
	UserTypeFarmer UserType = "farmer" // çiftçi
)

func (t UserType) Valid() bool {
	return t == UserTypeBuyer || t == UserTypeFarmer
}

type User struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	Name            string    `gorm:"type:varchar(100);not null" json:"name"`
	Email           string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	PhoneNumber     string    `gorm:"type:varchar(20)" json:"phone_number"`
	PasswordHash    string    `gorm:"not null" json:"-"`
	UserType        UserType  `gorm:"type:varchar(20);not null;index" json:"user_type"`
	Rating          *float64  `json:"rating"` // null until the first review
	ReviewCount     int       `gorm:"not null;default:0" json:"review_count"`
	ProfileImageURL string    `json:"profile_image_url"`
	Province        string    `gorm:"type:varchar(50)" json:"province"` // free text farmer address
	District        string    `gorm:"type:varchar(50)" json:"district"`
	Village         string    `gorm:"type:varchar(100)" json:"village"`
	LocationID      *uint     `gorm:"index" json:"location_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Location *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserBasic is the short form of a user embedded in other responses.
type UserBasic struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	UserType        UserType  `json:"user_type"`
	Rating          *float64  `json:"rating"`
	ProfileImageURL string    `json:"profile_image_url"`
	CreatedAt       time.Time `json:"created_at"`
}

func (u *User) Basic() UserBasic {
	return UserBasic{
		ID:              u.ID,
		Name:            u.Name,
		UserType:        u.UserType,
		Rating:          u.Rating,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
	}
}
