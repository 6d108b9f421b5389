package repository

import (
	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	WithTx(tx *gorm.DB) CategoryRepository

	FindAll() ([]model.ProductCategory, error)
	FindByID(id uint) (*model.ProductCategory, error)
	Create(category *model.ProductCategory) error
	Update(category *model.ProductCategory) error
	// DeleteWithSubCategories removes the category and its subcategories in one transaction
	DeleteWithSubCategories(id uint) error

	FindAllSub() ([]model.ProductSubCategory, error)
	FindSubByID(id uint) (*model.ProductSubCategory, error)
	FindSubsByCategory(categoryID uint) ([]model.ProductSubCategory, error)
	CreateSub(sub *model.ProductSubCategory) error
	UpdateSub(sub *model.ProductSubCategory) error
	DeleteSub(id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) WithTx(tx *gorm.DB) CategoryRepository {
	return &categoryRepository{db: tx}
}

func (r *categoryRepository) FindAll() ([]model.ProductCategory, error) {
	var categories []model.ProductCategory
	if err := r.db.Order("id ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to list categories", err)
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(id uint) (*model.ProductCategory, error) {
	var category model.ProductCategory
	if err := r.db.First(&category, id).Error; err != nil {
		logFindError("category", id, err)
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Create(category *model.ProductCategory) error {
	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category", err, map[string]interface{}{
			"name": category.Name,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) Update(category *model.ProductCategory) error {
	result := r.db.Model(category).Select("name", "description", "icon_url", "updated_at").Updates(category)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *categoryRepository) DeleteWithSubCategories(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&model.ProductSubCategory{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.ProductCategory{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		logger.Info("Category deleted with subcategories", map[string]interface{}{
			"category_id": id,
		})
		return nil
	})
}

func (r *categoryRepository) FindAllSub() ([]model.ProductSubCategory, error) {
	var subs []model.ProductSubCategory
	err := r.db.Preload("Category").Order("id ASC").Find(&subs).Error
	return subs, err
}

func (r *categoryRepository) FindSubByID(id uint) (*model.ProductSubCategory, error) {
	var sub model.ProductSubCategory
	if err := r.db.Preload("Category").First(&sub, id).Error; err != nil {
		logFindError("subcategory", id, err)
		return nil, err
	}
	return &sub, nil
}

func (r *categoryRepository) FindSubsByCategory(categoryID uint) ([]model.ProductSubCategory, error) {
	var subs []model.ProductSubCategory
	err := r.db.Where("category_id = ?", categoryID).Order("id ASC").Find(&subs).Error
	return subs, err
}

func (r *categoryRepository) CreateSub(sub *model.ProductSubCategory) error {
	if err := r.db.Omit("Category").Create(sub).Error; err != nil {
		logger.Error("Failed to create subcategory", err, map[string]interface{}{
			"name":        sub.Name,
			"category_id": sub.CategoryID,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) UpdateSub(sub *model.ProductSubCategory) error {
	result := r.db.Model(sub).Select("name", "description", "category_id", "updated_at").Updates(sub)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *categoryRepository) DeleteSub(id uint) error {
	result := r.db.Delete(&model.ProductSubCategory{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
