package service

import (
	"errors"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/internal/app/repository"
	"github.com/ciftci/ciftci-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCategoryInUse       = errors.New("category has products")
	ErrSubCategoryNotFound = errors.New("subcategory not found")
	ErrSubCategoryInUse    = errors.New("subcategory has products")
	ErrSubCategoryMismatch = errors.New("subcategory does not belong to category")
)

// CategoryWithSubs is a category together with its subcategories
type CategoryWithSubs struct {
	model.ProductCategory
	SubCategories []model.ProductSubCategory `json:"sub_categories"`
}

type CategoryInput struct {
	Name        string
	Description string
	IconURL     string
}

type SubCategoryInput struct {
	Name        string
	Description string
	CategoryID  uint
}

type CategoryService interface {
	GetCategories() ([]CategoryWithSubs, error)
	GetCategory(id uint) (*CategoryWithSubs, error)
	CreateCategory(input CategoryInput) (*model.ProductCategory, error)
	UpdateCategory(id uint, input CategoryInput) (*model.ProductCategory, error)
	DeleteCategory(id uint) error

	GetSubCategories() ([]model.ProductSubCategory, error)
	GetSubCategory(id uint) (*model.ProductSubCategory, error)
	GetSubCategoriesByCategory(categoryID uint) ([]model.ProductSubCategory, error)
	CreateSubCategory(input SubCategoryInput) (*model.ProductSubCategory, error)
	UpdateSubCategory(id uint, input SubCategoryInput) (*model.ProductSubCategory, error)
	DeleteSubCategory(id uint) error
}

type categoryService struct {
	db           *gorm.DB
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

func NewCategoryService(db *gorm.DB, categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) CategoryService {
	return &categoryService{
		db:           db,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

func (s *categoryService) GetCategories() ([]CategoryWithSubs, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		return nil, err
	}
	subs, err := s.categoryRepo.FindAllSub()
	if err != nil {
		return nil, err
	}

	byCategory := make(map[uint][]model.ProductSubCategory)
	for _, sub := range subs {
		sub.Category = nil
		byCategory[sub.CategoryID] = append(byCategory[sub.CategoryID], sub)
	}

	result := make([]CategoryWithSubs, 0, len(categories))
	for _, c := range categories {
		children := byCategory[c.ID]
		if children == nil {
			children = []model.ProductSubCategory{}
		}
		result = append(result, CategoryWithSubs{ProductCategory: c, SubCategories: children})
	}
	return result, nil
}

func (s *categoryService) findCategory(repo repository.CategoryRepository, id uint) (*model.ProductCategory, error) {
	category, err := repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) GetCategory(id uint) (*CategoryWithSubs, error) {
	category, err := s.findCategory(s.categoryRepo, id)
	if err != nil {
		return nil, err
	}
	subs, err := s.categoryRepo.FindSubsByCategory(id)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []model.ProductSubCategory{}
	}
	return &CategoryWithSubs{ProductCategory: *category, SubCategories: subs}, nil
}

func (s *categoryService) CreateCategory(input CategoryInput) (*model.ProductCategory, error) {
	category := &model.ProductCategory{
		Name:        input.Name,
		Description: input.Description,
		IconURL:     input.IconURL,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	return category, nil
}

func (s *categoryService) UpdateCategory(id uint, input CategoryInput) (*model.ProductCategory, error) {
	category, err := s.findCategory(s.categoryRepo, id)
	if err != nil {
		return nil, err
	}
	category.Name = input.Name
	category.Description = input.Description
	category.IconURL = input.IconURL

	if err := s.categoryRepo.Update(category); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// DeleteCategory refuses while products reference the category and removes its subcategories otherwise
func (s *categoryService) DeleteCategory(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.categoryRepo.WithTx(tx)
		if _, err := s.findCategory(repo, id); err != nil {
			return err
		}

		count, err := s.productRepo.WithTx(tx).CountByCategory(id)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrCategoryInUse
		}

		if err := repo.DeleteWithSubCategories(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
		return nil
	})
}

func (s *categoryService) GetSubCategories() ([]model.ProductSubCategory, error) {
	return s.categoryRepo.FindAllSub()
}

func (s *categoryService) GetSubCategory(id uint) (*model.ProductSubCategory, error) {
	sub, err := s.categoryRepo.FindSubByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubCategoryNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (s *categoryService) GetSubCategoriesByCategory(categoryID uint) ([]model.ProductSubCategory, error) {
	if _, err := s.findCategory(s.categoryRepo, categoryID); err != nil {
		return nil, err
	}
	subs, err := s.categoryRepo.FindSubsByCategory(categoryID)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []model.ProductSubCategory{}
	}
	return subs, nil
}

func (s *categoryService) CreateSubCategory(input SubCategoryInput) (*model.ProductSubCategory, error) {
	if _, err := s.findCategory(s.categoryRepo, input.CategoryID); err != nil {
		return nil, err
	}

	sub := &model.ProductSubCategory{
		Name:        input.Name,
		Description: input.Description,
		CategoryID:  input.CategoryID,
	}
	if err := s.categoryRepo.CreateSub(sub); err != nil {
		return nil, err
	}
	logger.Info("Subcategory created", map[string]interface{}{
		"subcategory_id": sub.ID,
		"category_id":    sub.CategoryID,
	})
	return s.GetSubCategory(sub.ID)
}

func (s *categoryService) UpdateSubCategory(id uint, input SubCategoryInput) (*model.ProductSubCategory, error) {
	sub, err := s.GetSubCategory(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.findCategory(s.categoryRepo, input.CategoryID); err != nil {
		return nil, err
	}

	sub.Name = input.Name
	sub.Description = input.Description
	sub.CategoryID = input.CategoryID
	sub.Category = nil

	if err := s.categoryRepo.UpdateSub(sub); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubCategoryNotFound
		}
		return nil, err
	}
	return s.GetSubCategory(id)
}

func (s *categoryService) DeleteSubCategory(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		count, err := s.productRepo.WithTx(tx).CountBySubCategory(id)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrSubCategoryInUse
		}
		if err := s.categoryRepo.WithTx(tx).DeleteSub(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubCategoryNotFound
			}
			return err
		}
		return nil
	})
}
