package repository

import (
	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/pkg/logger"
	"github.com/ciftci/ciftci-backend/pkg/util"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(product *model.Product) error
	FindByID(id uint) (*model.Product, error)
	Update(product *model.Product) error
	// DeleteWithMedia removes the product and its media rows, returning the removed media
	DeleteWithMedia(id uint) ([]model.Media, error)

	Filter(filter model.ProductFilter) ([]model.ProductSummary, error)
	FindSummaryByID(id uint) (*model.ProductSummary, error)
	ListAvailable() ([]model.ProductSummary, error)
	ListByUser(userID uint) ([]model.ProductSummary, error)
	ListLatest(limit int) ([]model.ProductSummary, error)

	CountByCategory(categoryID uint) (int64, error)
	CountBySubCategory(subCategoryID uint) (int64, error)
	CountByLocation(locationID uint) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{db: tx}
}

func (r *productRepository) Create(product *model.Product) error {
	if err := r.db.Omit(clause.Associations).Create(product).Error; err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"user_id": product.UserID,
			"name":    product.Name,
		})
		return err
	}
	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"user_id":    product.UserID,
	})
	return nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, id).Error; err != nil {
		logFindError("product", id, err)
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(product *model.Product) error {
	result := r.db.Omit(clause.Associations).Save(product)
	if result.Error != nil {
		logger.Error("Failed to update product", result.Error, map[string]interface{}{
			"product_id": product.ID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepository) DeleteWithMedia(id uint) ([]model.Media, error) {
	var removed []model.Media
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Find(&removed).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&model.Media{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Product{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id":    id,
		"media_removed": len(removed),
	})
	return removed, nil
}

// summaryQuery selects the ProductSummary projection with the owner,
// category, subcategory and location joined in
func (r *productRepository) summaryQuery() *gorm.DB {
	return r.db.Table("products AS p").
		Select(`p.id, p.name, p.category_id, c.name AS category,
			p.sub_category_id, sc.name AS sub_category,
			p.user_id, u.name AS user_name, u.user_type, u.rating AS user_rating,
			l.province, l.district, l.village,
			p.quantity, p.unit, p.price_per_unit, p.field_size, p.status,
			(SELECT m.url FROM media m WHERE m.product_id = p.id AND m.is_main = ? ORDER BY m.id LIMIT 1) AS image_url,
			EXISTS (SELECT 1 FROM media v WHERE v.product_id = p.id AND v.type = ?) AS has_video,
			p.description, p.harvest_date, p.created_at, p.updated_at`,
			true, model.MediaTypeVideo).
		Joins("JOIN users u ON u.id = p.user_id").
		Joins("JOIN product_categories c ON c.id = p.category_id").
		Joins("LEFT JOIN product_sub_categories sc ON sc.id = p.sub_category_id").
		Joins("LEFT JOIN locations l ON l.id = p.location_id")
}

// Filter applies every present criterion conjunctively, then sorts and pages
func (r *productRepository) Filter(f model.ProductFilter) ([]model.ProductSummary, error) {
	query := r.summaryQuery()

	if f.OnlyAvailable {
		query = query.Where("p.status = ?", model.ProductStatusAvailable)
	}
	if f.CategoryID != nil {
		query = query.Where("p.category_id = ?", *f.CategoryID)
	}
	if f.SubCategoryID != nil {
		query = query.Where("p.sub_category_id = ?", *f.SubCategoryID)
	}
	if f.Province != "" {
		query = query.Where("l.province = ?", f.Province)
	}
	if f.District != "" {
		query = query.Where("l.district = ?", f.District)
	}
	if f.Village != "" {
		query = query.Where("l.village = ?", f.Village)
	}
	if f.MinPrice != nil {
		query = query.Where("p.price_per_unit >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("p.price_per_unit <= ?", *f.MaxPrice)
	}
	if f.MinQuantity != nil {
		query = query.Where("p.quantity >= ?", *f.MinQuantity)
	}
	if f.MinHarvestDate != nil {
		query = query.Where("p.harvest_date >= ?", *f.MinHarvestDate)
	}
	if f.MaxHarvestDate != nil {
		query = query.Where("p.harvest_date <= ?", *f.MaxHarvestDate)
	}
	if f.Latitude != nil && f.Longitude != nil && f.Radius != nil {
		minLat, maxLat, minLon, maxLon := util.BoundingBox(*f.Latitude, *f.Longitude, *f.Radius)
		query = query.Where("l.latitude >= ? AND l.latitude <= ? AND l.longitude >= ? AND l.longitude <= ?",
			minLat, maxLat, minLon, maxLon)
	}
	if f.MinRating != nil {
		query = query.Where("u.rating >= ?", *f.MinRating)
	}
	if f.HasVideo {
		query = query.Where("EXISTS (SELECT 1 FROM media hv WHERE hv.product_id = p.id AND hv.type = ?)", model.MediaTypeVideo)
	}

	query = query.Order(sortClause(f.SortBy)).Order("p.id DESC")

	if f.Page != nil && f.PageSize != nil && *f.PageSize > 0 {
		page := *f.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * *f.PageSize).Limit(*f.PageSize)
	}

	products := []model.ProductSummary{}
	if err := query.Scan(&products).Error; err != nil {
		logger.Error("Failed to filter products", err)
		return nil, err
	}

	logger.Debug("Products filtered", map[string]interface{}{
		"count":   len(products),
		"sort_by": f.SortBy,
	})
	return products, nil
}

func sortClause(sortBy string) string {
	switch sortBy {
	case model.SortPriceAsc:
		return "p.price_per_unit ASC"
	case model.SortPriceDesc:
		return "p.price_per_unit DESC"
	case model.SortRatingDesc:
		// unrated owners last on both postgres and sqlite
		return "u.rating IS NULL ASC, u.rating DESC"
	case model.SortQuantityDesc:
		return "p.quantity DESC"
	default:
		return "p.created_at DESC"
	}
}

func (r *productRepository) FindSummaryByID(id uint) (*model.ProductSummary, error) {
	var summaries []model.ProductSummary
	if err := r.summaryQuery().Where("p.id = ?", id).Limit(1).Scan(&summaries).Error; err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &summaries[0], nil
}

func (r *productRepository) ListAvailable() ([]model.ProductSummary, error) {
	products := []model.ProductSummary{}
	err := r.summaryQuery().
		Where("p.status = ?", model.ProductStatusAvailable).
		Order("p.created_at DESC").Order("p.id DESC").
		Scan(&products).Error
	return products, err
}

func (r *productRepository) ListByUser(userID uint) ([]model.ProductSummary, error) {
	products := []model.ProductSummary{}
	err := r.summaryQuery().
		Where("p.user_id = ?", userID).
		Order("p.created_at DESC").Order("p.id DESC").
		Scan(&products).Error
	return products, err
}

func (r *productRepository) ListLatest(limit int) ([]model.ProductSummary, error) {
	products := []model.ProductSummary{}
	err := r.summaryQuery().
		Order("p.created_at DESC").Order("p.id DESC").
		Limit(limit).
		Scan(&products).Error
	return products, err
}

func (r *productRepository) CountByCategory(categoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

func (r *productRepository) CountBySubCategory(subCategoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("sub_category_id = ?", subCategoryID).Count(&count).Error
	return count, err
}

func (r *productRepository) CountByLocation(locationID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("location_id = ?", locationID).Count(&count).Error
	return count, err
}
