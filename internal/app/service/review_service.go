package service

import (
	"errors"
	"fmt"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/internal/app/repository"
	"github.com/ciftci/ciftci-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrSelfReview          = errors.New("users cannot review themselves")
	ErrReviewAlreadyExists = errors.New("review already exists for this user")
)

const (
	minRating            = 1
	maxRating            = 5
	notificationExcerpt  = 30
	userReviewsListLimit = 0 // no limit on the public list
)

type CreateReviewInput struct {
	ReviewerID     uint
	ReviewedUserID uint
	Rating         int
	Comment        string
}

type ReviewService interface {
	GetReviews() ([]model.ReviewView, error)
	GetReview(id uint) (*model.ReviewView, error)
	GetReviewsForUser(userID uint) ([]model.ReviewView, error)
	// CreateReview stores the review, refreshes the reviewed user's rating and
	// notifies them, all in one transaction
	CreateReview(input CreateReviewInput) (*model.ReviewView, error)
	// RecalculateUserRating rewrites rating and review_count from the reviews table
	RecalculateUserRating(userID uint) error
	// ReconcileRatings recalculates every user that has or claims reviews
	ReconcileRatings() (int, error)
}

type reviewService struct {
	db               *gorm.DB
	reviewRepo       repository.ReviewRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	notifications    NotificationService
}

func NewReviewService(
	db *gorm.DB,
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	notifications NotificationService,
) ReviewService {
	return &reviewService{
		db:               db,
		reviewRepo:       reviewRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		notifications:    notifications,
	}
}

func (s *reviewService) GetReviews() ([]model.ReviewView, error) {
	return s.reviewRepo.ListViews()
}

func (s *reviewService) GetReview(id uint) (*model.ReviewView, error) {
	review, err := s.reviewRepo.FindViewByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

func (s *reviewService) GetReviewsForUser(userID uint) ([]model.ReviewView, error) {
	return s.reviewRepo.ListViewsForUser(userID, userReviewsListLimit)
}

func (s *reviewService) CreateReview(input CreateReviewInput) (*model.ReviewView, error) {
	if input.Rating < minRating || input.Rating > maxRating {
		return nil, ErrInvalidRating
	}
	if input.ReviewerID == input.ReviewedUserID {
		return nil, ErrSelfReview
	}

	reviewer, err := s.userRepo.FindByID(input.ReviewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if _, err := s.userRepo.FindByID(input.ReviewedUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsPair(input.ReviewerID, input.ReviewedUserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrReviewAlreadyExists
	}

	review := &model.Review{
		ReviewerID:     input.ReviewerID,
		ReviewedUserID: input.ReviewedUserID,
		Rating:         input.Rating,
		Comment:        input.Comment,
	}
	var notification *model.Notification

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.WithTx(tx).Create(review); err != nil {
			return err
		}
		if err := s.recalculate(tx, input.ReviewedUserID); err != nil {
			return err
		}

		notification = &model.Notification{
			UserID:          input.ReviewedUserID,
			Title:           "Yeni Değerlendirme",
			Content:         reviewNotificationContent(reviewer.Name, input.Rating, input.Comment),
			Type:            model.NotificationTypeNewReview,
			RedirectURL:     fmt.Sprintf("/users/%d/reviews", input.ReviewedUserID),
			RelatedEntityID: &review.ID,
		}
		return s.notificationRepo.WithTx(tx).Create(notification)
	})
	if err != nil {
		logger.Error("Failed to create review", err, map[string]interface{}{
			"reviewer_id":      input.ReviewerID,
			"reviewed_user_id": input.ReviewedUserID,
		})
		return nil, err
	}

	logger.Info("Review created", map[string]interface{}{
		"review_id":        review.ID,
		"reviewed_user_id": review.ReviewedUserID,
		"rating":           review.Rating,
	})

	s.notifications.Push(notification)
	return s.GetReview(review.ID)
}

func reviewNotificationContent(reviewerName string, rating int, comment string) string {
	content := fmt.Sprintf("%s sizi %d yıldız ile değerlendirdi", reviewerName, rating)
	if comment != "" {
		content += ": " + excerpt(comment, notificationExcerpt)
	}
	return content
}

// recalculate locks the user row, aggregates the reviews and writes both fields in one UPDATE
func (s *reviewService) recalculate(tx *gorm.DB, userID uint) error {
	userRepo := s.userRepo.WithTx(tx)
	if _, err := userRepo.LockByID(userID); err != nil {
		return err
	}

	agg, err := s.reviewRepo.WithTx(tx).Aggregate(userID)
	if err != nil {
		return err
	}
	return userRepo.UpdateRating(userID, agg.Average, int(agg.Count))
}

func (s *reviewService) RecalculateUserRating(userID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.recalculate(tx, userID)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (s *reviewService) ReconcileRatings() (int, error) {
	rated, err := s.userRepo.RatedIDs()
	if err != nil {
		return 0, err
	}
	reviewed, err := s.reviewRepo.ReviewedUserIDs()
	if err != nil {
		return 0, err
	}

	seen := make(map[uint]bool, len(rated)+len(reviewed))
	count := 0
	for _, id := range append(rated, reviewed...) {
		if seen[id] {
			continue
		}
		seen[id] = true
		if err := s.RecalculateUserRating(id); err != nil {
			logger.Error("Failed to reconcile user rating", err, map[string]interface{}{
				"user_id": id,
			})
			continue
		}
		count++
	}

	logger.Info("User ratings reconciled", map[string]interface{}{
		"users": count,
	})
	return count, nil
}
