package model

import "time"

type ProductCategory struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(50);not null" json:"name"`
	Description string    `gorm:"type:varchar(200)" json:"description"`
	IconURL     string    `json:"icon_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ProductCategory) TableName() string {
	return "product_categories"
}

type ProductSubCategory struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(50);not null" json:"name"`
	Description string    `gorm:"type:varchar(200)" json:"description"`
	CategoryID  uint      `gorm:"not null;index" json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Category *ProductCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (ProductSubCategory) TableName() string {
	return "product_sub_categories"
}
