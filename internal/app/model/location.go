package model

import "time"

// Location is unique on (province, district, village). Village may be empty.
type Location struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Province  string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_location_triple" json:"province"`
	District  string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_location_triple" json:"district"`
	Village   string    `gorm:"type:varchar(100);not null;default:'';uniqueIndex:idx_location_triple" json:"village"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Location) TableName() string {
	return "locations"
}
