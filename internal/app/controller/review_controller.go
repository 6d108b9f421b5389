package controller

import (
	"errors"
	"net/http"

	"github.com/ciftci/ciftci-backend/internal/app/service"
	apperrors "github.com/ciftci/ciftci-backend/internal/errors"
	"github.com/ciftci/ciftci-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

type CreateReviewRequest struct {
	ReviewedUserID uint   `json:"reviewed_user_id" binding:"required"`
	Rating         int    `json:"rating" binding:"required,min=1,max=5"`
	Comment        string `json:"comment" binding:"max=500"`
}

// GetReviews lists every review, newest first
// GET /api/v1/reviews
func (ctrl *ReviewController) GetReviews(c *gin.Context) {
	reviews, err := ctrl.reviewService.GetReviews()
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list reviews", err)
		apperrors.InternalError(c, "Değerlendirmeler getirilemedi")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// GetReview returns one review
// GET /api/v1/reviews/:id
func (ctrl *ReviewController) GetReview(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	review, err := ctrl.reviewService.GetReview(id)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			apperrors.NotFound(c, apperrors.ReviewNotFound, "Değerlendirme bulunamadı")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to fetch review", err, map[string]interface{}{
			"review_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"review": review,
	})
}

// GetUserReviews lists the reviews a user received
// GET /api/v1/reviews/user/:userId
func (ctrl *ReviewController) GetUserReviews(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	reviews, err := ctrl.reviewService.GetReviewsForUser(userID)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list user reviews", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Değerlendirmeler getirilemedi")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// CreateReview rates another user and refreshes their average
// POST /api/v1/reviews
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid review request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "Puan 1 ile 5 arasında olmalıdır")
		return
	}

	review, err := ctrl.reviewService.CreateReview(service.CreateReviewInput{
		ReviewerID:     userID,
		ReviewedUserID: req.ReviewedUserID,
		Rating:         req.Rating,
		Comment:        req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewAlreadyExists):
			apperrors.Conflict(c, apperrors.ReviewAlreadyExists, "Bu kullanıcıyı zaten değerlendirdiniz")
		case errors.Is(err, service.ErrSelfReview):
			apperrors.BadRequest(c, apperrors.ReviewSelf, "Kendinizi değerlendiremezsiniz")
		case errors.Is(err, service.ErrInvalidRating):
			apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "Puan 1 ile 5 arasında olmalıdır")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.UserNotFound, "Kullanıcı bulunamadı")
		default:
			log.Error("Failed to create review", err, map[string]interface{}{
				"reviewer_id":      userID,
				"reviewed_user_id": req.ReviewedUserID,
			})
			apperrors.ParseAndRespond(c, err, "create review")
		}
		return
	}

	log.Info("Review created", map[string]interface{}{
		"review_id":        review.ID,
		"reviewed_user_id": review.ReviewedUserID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"message": "Değerlendirmeniz kaydedildi",
		"review":  review,
	})
}
