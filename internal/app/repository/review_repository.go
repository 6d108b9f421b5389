package repository

import (
	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingAggregate is the average and count over a user's received reviews.
// Average is nil when Count is zero.
type RatingAggregate struct {
	Average *float64
	Count   int64
}

type ReviewRepository interface {
	WithTx(tx *gorm.DB) ReviewRepository
	Create(review *model.Review) error
	ExistsPair(reviewerID, reviewedUserID uint) (bool, error)
	Aggregate(reviewedUserID uint) (RatingAggregate, error)
	FindViewByID(id uint) (*model.ReviewView, error)
	ListViews() ([]model.ReviewView, error)
	ListViewsForUser(reviewedUserID uint, limit int) ([]model.ReviewView, error)
	ReviewedUserIDs() ([]uint, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) WithTx(tx *gorm.DB) ReviewRepository {
	return &reviewRepository{db: tx}
}

func (r *reviewRepository) Create(review *model.Review) error {
	if err := r.db.Omit(clause.Associations).Create(review).Error; err != nil {
		logger.Error("Failed to create review", err, map[string]interface{}{
			"reviewer_id":      review.ReviewerID,
			"reviewed_user_id": review.ReviewedUserID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) ExistsPair(reviewerID, reviewedUserID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Review{}).
		Where("reviewer_id = ? AND reviewed_user_id = ?", reviewerID, reviewedUserID).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) Aggregate(reviewedUserID uint) (RatingAggregate, error) {
	var row struct {
		Average *float64
		Count   int64
	}
	err := r.db.Model(&model.Review{}).
		Select("AVG(CAST(rating AS FLOAT)) AS average, COUNT(*) AS count").
		Where("reviewed_user_id = ?", reviewedUserID).
		Scan(&row).Error
	if err != nil {
		return RatingAggregate{}, err
	}
	if row.Count == 0 {
		row.Average = nil
	}
	return RatingAggregate{Average: row.Average, Count: row.Count}, nil
}

func (r *reviewRepository) viewQuery() *gorm.DB {
	return r.db.Table("reviews AS rv").
		Select(`rv.id, rv.reviewer_id, ru.name AS reviewer_name,
			rv.reviewed_user_id, tu.name AS reviewed_user_name,
			rv.rating, rv.comment, rv.created_at`).
		Joins("JOIN users ru ON ru.id = rv.reviewer_id").
		Joins("JOIN users tu ON tu.id = rv.reviewed_user_id")
}

func (r *reviewRepository) FindViewByID(id uint) (*model.ReviewView, error) {
	var views []model.ReviewView
	if err := r.viewQuery().Where("rv.id = ?", id).Limit(1).Scan(&views).Error; err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &views[0], nil
}

func (r *reviewRepository) ListViews() ([]model.ReviewView, error) {
	views := []model.ReviewView{}
	err := r.viewQuery().Order("rv.created_at DESC").Order("rv.id DESC").Scan(&views).Error
	return views, err
}

// ListViewsForUser returns the newest reviews the user received. limit <= 0 means all.
func (r *reviewRepository) ListViewsForUser(reviewedUserID uint, limit int) ([]model.ReviewView, error) {
	views := []model.ReviewView{}
	query := r.viewQuery().
		Where("rv.reviewed_user_id = ?", reviewedUserID).
		Order("rv.created_at DESC").Order("rv.id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Scan(&views).Error
	return views, err
}

// ReviewedUserIDs lists every user with at least one received review
func (r *reviewRepository) ReviewedUserIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.Review{}).Distinct("reviewed_user_id").Pluck("reviewed_user_id", &ids).Error
	return ids, err
}
