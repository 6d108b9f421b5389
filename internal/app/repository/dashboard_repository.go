package repository

import (
	"github.com/ciftci/ciftci-backend/internal/app/model"
	"gorm.io/gorm"
)

// CategoryCount is a category name with the number of products in it
type CategoryCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// DashboardRepository runs the aggregate queries behind the dashboards
type DashboardRepository interface {
	CountUsers(userType *model.UserType) (int64, error)
	CountProducts(status *model.ProductStatus) (int64, error)
	CountUserProductsByStatus(userID uint) (map[model.ProductStatus]int64, error)
	PopularCategories(limit int) ([]CategoryCount, error)
	UserCategoryDistribution(userID uint) ([]CategoryCount, error)
	TopRatedFarmers(limit int) ([]model.User, error)
	RecentUsers(limit int) ([]model.User, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) CountUsers(userType *model.UserType) (int64, error) {
	var count int64
	query := r.db.Model(&model.User{})
	if userType != nil {
		query = query.Where("user_type = ?", *userType)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *dashboardRepository) CountProducts(status *model.ProductStatus) (int64, error) {
	var count int64
	query := r.db.Model(&model.Product{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *dashboardRepository) CountUserProductsByStatus(userID uint) (map[model.ProductStatus]int64, error) {
	var rows []struct {
		Status model.ProductStatus
		Count  int64
	}
	err := r.db.Model(&model.Product{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.ProductStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *dashboardRepository) PopularCategories(limit int) ([]CategoryCount, error) {
	categories := []CategoryCount{}
	err := r.db.Table("products AS p").
		Select("c.name AS name, COUNT(*) AS count").
		Joins("JOIN product_categories c ON c.id = p.category_id").
		Group("c.name").
		Order("count DESC, c.name ASC").
		Limit(limit).
		Scan(&categories).Error
	return categories, err
}

func (r *dashboardRepository) UserCategoryDistribution(userID uint) ([]CategoryCount, error) {
	categories := []CategoryCount{}
	err := r.db.Table("products AS p").
		Select("c.name AS name, COUNT(*) AS count").
		Joins("JOIN product_categories c ON c.id = p.category_id").
		Where("p.user_id = ?", userID).
		Group("c.name").
		Order("count DESC, c.name ASC").
		Scan(&categories).Error
	return categories, err
}

func (r *dashboardRepository) TopRatedFarmers(limit int) ([]model.User, error) {
	var users []model.User
	err := r.db.
		Where("user_type = ? AND rating IS NOT NULL AND review_count > 0", model.UserTypeFarmer).
		Order("rating DESC").Order("review_count DESC").Order("id ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *dashboardRepository) RecentUsers(limit int) ([]model.User, error) {
	var users []model.User
	err := r.db.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&users).Error
	return users, err
}
