package model

import "time"

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

func (t MediaType) Valid() bool {
	return t == MediaTypeImage || t == MediaTypeVideo
}

// Media belongs to a product. At most one row per product has IsMain set.
type Media struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	ProductID    uint      `gorm:"not null;index:idx_media_product_main,priority:1" json:"product_id"`
	URL          string    `gorm:"not null" json:"url"`
	StorageKey   string    `gorm:"type:varchar(255)" json:"-"` // object key in the file store
	Type         MediaType `gorm:"type:varchar(10);not null" json:"type"`
	ThumbnailURL string    `json:"thumbnail_url"`
	IsMain       bool      `gorm:"not null;default:false;index:idx_media_product_main,priority:2" json:"is_main"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (Media) TableName() string {
	return "media"
}
