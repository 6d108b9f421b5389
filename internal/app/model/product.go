package model

import "time"

type ProductStatus string

const (
	ProductStatusAvailable ProductStatus = "available"
	ProductStatusReserved  ProductStatus = "reserved"
	ProductStatusSold      ProductStatus = "sold"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusAvailable, ProductStatusReserved, ProductStatusSold:
		return true
	}
	return false
}

type Product struct {
	ID            uint          `gorm:"primarykey" json:"id"`
	UserID        uint          `gorm:"not null;index" json:"user_id"` // owner, always a farmer
	Name          string        `gorm:"type:varchar(100);not null" json:"name"`
	CategoryID    uint          `gorm:"not null;index" json:"category_id"`
	SubCategoryID *uint         `gorm:"index" json:"sub_category_id"`
	Quantity      float64       `gorm:"not null" json:"quantity"`
	Unit          string        `gorm:"type:varchar(20);not null" json:"unit"` // kg, ton, adet
	PricePerUnit  float64       `gorm:"not null;index" json:"price_per_unit"`
	FieldSize     string        `gorm:"type:varchar(50)" json:"field_size"`
	LocationID    *uint         `gorm:"index" json:"location_id"`
	Status        ProductStatus `gorm:"type:varchar(20);not null;default:'available';index" json:"status"`
	Description   string        `gorm:"type:text" json:"description"`
	HarvestDate   *time.Time    `json:"harvest_date"`
	CreatedAt     time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	User        *User               `gorm:"foreignKey:UserID" json:"-"`
	Category    *ProductCategory    `gorm:"foreignKey:CategoryID" json:"-"`
	SubCategory *ProductSubCategory `gorm:"foreignKey:SubCategoryID" json:"-"`
	Location    *Location           `gorm:"foreignKey:LocationID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// ProductSummary is the denormalized list projection of a product.
type ProductSummary struct {
	ID            uint          `json:"id"`
	Name          string        `json:"name"`
	CategoryID    uint          `json:"category_id"`
	Category      string        `json:"category"`
	SubCategoryID *uint         `json:"sub_category_id"`
	SubCategory   *string       `json:"sub_category"`
	UserID        uint          `json:"user_id"`
	UserName      string        `json:"user_name"`
	UserType      UserType      `json:"user_type"`
	UserRating    *float64      `json:"user_rating"`
	Province      *string       `json:"province"`
	District      *string       `json:"district"`
	Village       *string       `json:"village"`
	Quantity      float64       `json:"quantity"`
	Unit          string        `json:"unit"`
	PricePerUnit  float64       `json:"price_per_unit"`
	FieldSize     string        `json:"field_size"`
	Status        ProductStatus `json:"status"`
	ImageURL      *string       `json:"image_url"`
	HasVideo      bool          `json:"has_video"`
	Description   string        `json:"description"`
	HarvestDate   *time.Time    `json:"harvest_date"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// ProductDetail extends the summary with the fields shown on the product page.
type ProductDetail struct {
	ProductSummary
	UserReviewCount  int     `json:"user_review_count"`
	UserProfileImage string  `json:"user_profile_image"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Media            []Media `json:"media"`
}

// Sort keys accepted by ProductFilter.SortBy. Anything else sorts by date.
const (
	SortPriceAsc     = "price_asc"
	SortPriceDesc    = "price_desc"
	SortDateDesc     = "date_desc"
	SortRatingDesc   = "rating_desc"
	SortQuantityDesc = "quantity_desc"
)

// ProductFilter holds the optional search criteria. A nil pointer or empty
// string imposes no constraint.
type ProductFilter struct {
	CategoryID     *uint
	SubCategoryID  *uint
	Province       string
	District       string
	Village        string
	MinPrice       *float64
	MaxPrice       *float64
	MinQuantity    *float64
	MinHarvestDate *time.Time
	MaxHarvestDate *time.Time
	Latitude       *float64
	Longitude      *float64
	Radius         *float64 // km
	MinRating      *float64
	HasVideo       bool
	OnlyAvailable  bool
	SortBy         string
	Page           *int
	PageSize       *int
}
