package service

import (
	"context"
	"errors"
	"time"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/internal/app/repository"
	"github.com/ciftci/ciftci-backend/internal/storage"
	"github.com/ciftci/ciftci-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductForbidden     = errors.New("only the owner can modify the product")
	ErrFarmerOnly           = errors.New("only farmers can add products")
	ErrInvalidProductStatus = errors.New("invalid product status")
	ErrInvalidProductInput  = errors.New("quantity must be positive and price non-negative")
)

// unknownRegion fills a missing province or district of a location created from coordinates
const unknownRegion = "Belirtilmedi"

type CreateProductInput struct {
	UserID        uint
	Name          string
	CategoryID    uint
	SubCategoryID *uint
	Quantity      float64
	Unit          string
	PricePerUnit  float64
	FieldSize     string
	LocationID    *uint
	Province      string
	District      string
	Village       string
	Latitude      *float64
	Longitude     *float64
	Description   string
	HarvestDate   *time.Time
}

// UpdateProductInput is a partial update; nil or empty fields are left unchanged
type UpdateProductInput struct {
	Name          string
	CategoryID    *uint
	SubCategoryID *uint
	Quantity      *float64
	Unit          string
	PricePerUnit  *float64
	FieldSize     string
	Description   string
	HarvestDate   *time.Time
	Status        *model.ProductStatus
}

type ProductService interface {
	GetAvailableProducts() ([]model.ProductSummary, error)
	FilterProducts(filter model.ProductFilter) ([]model.ProductSummary, error)
	GetProductDetail(id uint) (*model.ProductDetail, error)
	GetProductsByUser(userID uint) ([]model.ProductSummary, error)
	CreateProduct(input CreateProductInput) (*model.Product, error)
	UpdateProduct(id, userID uint, input UpdateProductInput) (*model.Product, error)
	DeleteProduct(id, userID uint) error
}

type productService struct {
	db           *gorm.DB
	productRepo  repository.ProductRepository
	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
	locationRepo repository.LocationRepository
	mediaRepo    repository.MediaRepository
	files        storage.FileStorage
}

// NewProductService builds the service. files may be nil, in which case stored
// media files are left in place when a product is deleted.
func NewProductService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	categoryRepo repository.CategoryRepository,
	locationRepo repository.LocationRepository,
	mediaRepo repository.MediaRepository,
	files storage.FileStorage,
) ProductService {
	return &productService{
		db:           db,
		productRepo:  productRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
		mediaRepo:    mediaRepo,
		files:        files,
	}
}

func (s *productService) GetAvailableProducts() ([]model.ProductSummary, error) {
	return s.productRepo.ListAvailable()
}

func (s *productService) FilterProducts(filter model.ProductFilter) ([]model.ProductSummary, error) {
	logger.Debug("Filtering products", map[string]interface{}{
		"sort_by":        filter.SortBy,
		"only_available": filter.OnlyAvailable,
	})
	return s.productRepo.Filter(filter)
}

func (s *productService) GetProductDetail(id uint) (*model.ProductDetail, error) {
	summary, err := s.productRepo.FindSummaryByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	detail := &model.ProductDetail{ProductSummary: *summary}

	owner, err := s.userRepo.FindByID(summary.UserID)
	if err != nil {
		return nil, err
	}
	detail.UserReviewCount = owner.ReviewCount
	detail.UserProfileImage = owner.ProfileImageURL

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if product.LocationID != nil {
		location, err := s.locationRepo.FindByID(*product.LocationID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if location != nil {
			detail.Latitude = location.Latitude
			detail.Longitude = location.Longitude
		}
	}

	media, err := s.mediaRepo.FindByProduct(id)
	if err != nil {
		return nil, err
	}
	detail.Media = media

	return detail, nil
}

func (s *productService) GetProductsByUser(userID uint) ([]model.ProductSummary, error) {
	return s.productRepo.ListByUser(userID)
}

// validateCategory checks the category exists and, when given, that the subcategory belongs to it
func (s *productService) validateCategory(repo repository.CategoryRepository, categoryID uint, subCategoryID *uint) error {
	if _, err := repo.FindByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	if subCategoryID == nil {
		return nil
	}

	sub, err := repo.FindSubByID(*subCategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubCategoryNotFound
		}
		return err
	}
	if sub.CategoryID != categoryID {
		return ErrSubCategoryMismatch
	}
	return nil
}

func (s *productService) CreateProduct(input CreateProductInput) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"user_id":     input.UserID,
		"category_id": input.CategoryID,
	})

	if input.Quantity <= 0 || input.PricePerUnit < 0 {
		return nil, ErrInvalidProductInput
	}

	product := &model.Product{
		UserID:        input.UserID,
		Name:          input.Name,
		CategoryID:    input.CategoryID,
		SubCategoryID: input.SubCategoryID,
		Quantity:      input.Quantity,
		Unit:          input.Unit,
		PricePerUnit:  input.PricePerUnit,
		FieldSize:     input.FieldSize,
		Status:        model.ProductStatusAvailable,
		Description:   input.Description,
		HarvestDate:   input.HarvestDate,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		owner, err := s.userRepo.WithTx(tx).FindByID(input.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFarmerOnly
			}
			return err
		}
		if owner.UserType != model.UserTypeFarmer {
			return ErrFarmerOnly
		}

		if err := s.validateCategory(s.categoryRepo.WithTx(tx), input.CategoryID, input.SubCategoryID); err != nil {
			return err
		}

		locationID, err := s.productLocation(s.locationRepo.WithTx(tx), owner, input)
		if err != nil {
			return err
		}
		product.LocationID = locationID

		return s.productRepo.WithTx(tx).Create(product)
	})
	if err != nil {
		logger.Warn("Product creation failed", map[string]interface{}{
			"user_id": input.UserID,
			"error":   err.Error(),
		})
		return nil, err
	}
	return product, nil
}

// productLocation picks the explicit location, then a new one built from the
// coordinates, then the owner's own location
func (s *productService) productLocation(repo repository.LocationRepository, owner *model.User, input CreateProductInput) (*uint, error) {
	if input.LocationID != nil {
		location, err := repo.FindByID(*input.LocationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrLocationNotFound
			}
			return nil, err
		}
		return &location.ID, nil
	}

	if input.Latitude != nil && input.Longitude != nil {
		location := &model.Location{
			Province:  firstNonEmpty(input.Province, owner.Province, unknownRegion),
			District:  firstNonEmpty(input.District, owner.District, unknownRegion),
			Village:   firstNonEmpty(input.Village, owner.Village),
			Latitude:  *input.Latitude,
			Longitude: *input.Longitude,
		}

		existing, err := repo.FindByTriple(location.Province, location.District, location.Village)
		if err == nil {
			return &existing.ID, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err := repo.Create(location); err != nil {
			return nil, err
		}
		return &location.ID, nil
	}

	return owner.LocationID, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (s *productService) findOwned(repo repository.ProductRepository, id, userID uint) (*model.Product, error) {
	product, err := repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.UserID != userID {
		return nil, ErrProductForbidden
	}
	return product, nil
}

func (s *productService) UpdateProduct(id, userID uint, input UpdateProductInput) (*model.Product, error) {
	var product *model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)

		var err error
		product, err = s.findOwned(productRepo, id, userID)
		if err != nil {
			return err
		}

		if input.Name != "" {
			product.Name = input.Name
		}
		if input.CategoryID != nil || input.SubCategoryID != nil {
			if input.CategoryID != nil {
				product.CategoryID = *input.CategoryID
			}
			if input.SubCategoryID != nil {
				product.SubCategoryID = input.SubCategoryID
			}
			if err := s.validateCategory(s.categoryRepo.WithTx(tx), product.CategoryID, product.SubCategoryID); err != nil {
				return err
			}
		}
		if input.Quantity != nil {
			if *input.Quantity <= 0 {
				return ErrInvalidProductInput
			}
			product.Quantity = *input.Quantity
		}
		if input.Unit != "" {
			product.Unit = input.Unit
		}
		if input.PricePerUnit != nil {
			if *input.PricePerUnit < 0 {
				return ErrInvalidProductInput
			}
			product.PricePerUnit = *input.PricePerUnit
		}
		if input.FieldSize != "" {
			product.FieldSize = input.FieldSize
		}
		if input.Description != "" {
			product.Description = input.Description
		}
		if input.HarvestDate != nil {
			product.HarvestDate = input.HarvestDate
		}
		if input.Status != nil {
			if !input.Status.Valid() {
				return ErrInvalidProductStatus
			}
			product.Status = *input.Status
		}
		product.UpdatedAt = time.Now()

		if err := productRepo.Update(product); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": id,
		"user_id":    userID,
	})
	return product, nil
}

func (s *productService) DeleteProduct(id, userID uint) error {
	var removed []model.Media
	err := s.db.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		if _, err := s.findOwned(productRepo, id, userID); err != nil {
			return err
		}

		var err error
		removed, err = productRepo.DeleteWithMedia(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	})
	if err != nil {
		return err
	}

	removeStoredFiles(context.Background(), s.files, removed)
	return nil
}

// removeStoredFiles deletes the files behind media rows; failures are only logged
func removeStoredFiles(ctx context.Context, files storage.FileStorage, media []model.Media) {
	if files == nil {
		return
	}
	for _, m := range media {
		if m.StorageKey == "" {
			continue
		}
		if err := files.Delete(ctx, m.StorageKey); err != nil {
			logger.Warn("Failed to remove stored media file", map[string]interface{}{
				"media_id": m.ID,
				"key":      m.StorageKey,
				"error":    err.Error(),
			})
		}
	}
}
