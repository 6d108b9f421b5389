package controller

import (
	"errors"
	"net/http"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/internal/app/service"
	apperrors "github.com/ciftci/ciftci-backend/internal/errors"
	"github.com/ciftci/ciftci-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

type UpdateProfileRequest struct {
	Name            string `json:"name" binding:"max=100"`
	PhoneNumber     string `json:"phone_number" binding:"max=20"`
	ProfileImageURL string `json:"profile_image_url"`
	Province        string `json:"province" binding:"max=50"`
	District        string `json:"district" binding:"max=50"`
	Village         string `json:"village" binding:"max=100"`
}

// ListUsers returns every user
// GET /api/v1/users
func (ctrl *UserController) ListUsers(c *gin.Context) {
	ctrl.list(c, nil)
}

// ListFarmers returns farmers only
// GET /api/v1/users/farmers
func (ctrl *UserController) ListFarmers(c *gin.Context) {
	userType := model.UserTypeFarmer
	ctrl.list(c, &userType)
}

// ListBuyers returns buyers only
// GET /api/v1/users/buyers
func (ctrl *UserController) ListBuyers(c *gin.Context) {
	userType := model.UserTypeBuyer
	ctrl.list(c, &userType)
}

func (ctrl *UserController) list(c *gin.Context, userType *model.UserType) {
	users, err := ctrl.userService.ListUsers(userType)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list users", err)
		apperrors.InternalError(c, "Kullanıcılar getirilemedi")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// GetUser returns a user profile
// GET /api/v1/users/:id
func (ctrl *UserController) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.userService.GetUser(id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "Kullanıcı bulunamadı")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// UpdateMe updates the current user's profile
// PUT /api/v1/users/me
func (ctrl *UserController) UpdateMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update profile request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Girilen bilgiler geçersiz")
		return
	}

	user, err := ctrl.userService.UpdateProfile(userID, service.UpdateProfileInput{
		Name:            req.Name,
		PhoneNumber:     req.PhoneNumber,
		ProfileImageURL: req.ProfileImageURL,
		Province:        req.Province,
		District:        req.District,
		Village:         req.Village,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "Kullanıcı bulunamadı")
			return
		}
		log.Error("Failed to update profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, err, "update profile")
		return
	}

	log.Info("Profile updated", map[string]interface{}{
		"user_id": userID,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "Profil güncellendi",
		"user":    user,
	})
}
