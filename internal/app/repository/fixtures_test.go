package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var baseTime = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createUser(t *testing.T, testDB *gorm.DB, name string, userType model.UserType, rating *float64) *model.User {
	t.Helper()
	user := &model.User{
		Name:         name,
		Email:        fmt.Sprintf("%s-%d@ciftci.app", name, time.Now().UnixNano()),
		PasswordHash: "hash",
		UserType:     userType,
		Rating:       rating,
	}
	if rating != nil {
		user.ReviewCount = 1
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createLocation(t *testing.T, testDB *gorm.DB, province, district, village string, lat, lon float64) *model.Location {
	t.Helper()
	location := &model.Location{Province: province, District: district, Village: village, Latitude: lat, Longitude: lon}
	require.NoError(t, testDB.Create(location).Error)
	return location
}

func createCategory(t *testing.T, testDB *gorm.DB, name string) *model.ProductCategory {
	t.Helper()
	category := &model.ProductCategory{Name: name}
	require.NoError(t, testDB.Create(category).Error)
	return category
}

func createSubCategory(t *testing.T, testDB *gorm.DB, name string, categoryID uint) *model.ProductSubCategory {
	t.Helper()
	sub := &model.ProductSubCategory{Name: name, CategoryID: categoryID}
	require.NoError(t, testDB.Omit("Category").Create(sub).Error)
	return sub
}

type productOpts struct {
	price         float64
	quantity      float64
	status        model.ProductStatus
	locationID    *uint
	subCategoryID *uint
	createdAt     time.Time
	harvestDate   *time.Time
}

func createProduct(t *testing.T, testDB *gorm.DB, name string, owner *model.User, category *model.ProductCategory, opts productOpts) *model.Product {
	t.Helper()
	if opts.status == "" {
		opts.status = model.ProductStatusAvailable
	}
	if opts.quantity == 0 {
		opts.quantity = 100
	}
	if opts.createdAt.IsZero() {
		opts.createdAt = baseTime
	}
	product := &model.Product{
		UserID:        owner.ID,
		Name:          name,
		CategoryID:    category.ID,
		SubCategoryID: opts.subCategoryID,
		Quantity:      opts.quantity,
		Unit:          "kg",
		PricePerUnit:  opts.price,
		LocationID:    opts.locationID,
		Status:        opts.status,
		HarvestDate:   opts.harvestDate,
		CreatedAt:     opts.createdAt,
	}
	require.NoError(t, testDB.Omit("User", "Category", "SubCategory", "Location").Create(product).Error)
	return product
}

func createMedia(t *testing.T, testDB *gorm.DB, productID uint, mediaType model.MediaType, isMain bool, url string) *model.Media {
	t.Helper()
	media := &model.Media{ProductID: productID, URL: url, Type: mediaType, IsMain: isMain}
	require.NoError(t, testDB.Omit("Product").Create(media).Error)
	return media
}

func floatPtr(v float64) *float64 { return &v }
func uintPtr(v uint) *uint        { return &v }
func intPtr(v int) *int           { return &v }
