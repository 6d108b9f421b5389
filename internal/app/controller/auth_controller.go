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

type AuthController struct {
	authService service.AuthService
	userService service.UserService
}

func NewAuthController(authService service.AuthService, userService service.UserService) *AuthController {
	return &AuthController{
		authService: authService,
		userService: userService,
	}
}

type RegisterRequest struct {
	Name            string   `json:"name" binding:"required,max=100"`
	Email           string   `json:"email" binding:"required,email"`
	Password        string   `json:"password" binding:"required,min=6"`
	PhoneNumber     string   `json:"phone_number" binding:"max=20"`
	UserType        string   `json:"user_type" binding:"required,oneof=farmer buyer"`
	ProfileImageURL string   `json:"profile_image_url"`
	Province        string   `json:"province" binding:"max=50"`
	District        string   `json:"district" binding:"max=50"`
	Village         string   `json:"village" binding:"max=100"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Register handles user registration
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Girilen bilgiler geçersiz")
		return
	}

	log.Debug("Processing registration", map[string]interface{}{
		"email":     req.Email,
		"user_type": req.UserType,
	})

	user, tokens, err := ctrl.authService.Register(service.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PhoneNumber:     req.PhoneNumber,
		UserType:        model.UserType(req.UserType),
		ProfileImageURL: req.ProfileImageURL,
		Province:        req.Province,
		District:        req.District,
		Village:         req.Village,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyExists):
			log.Warn("Registration failed: email already exists", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "Bu e-posta adresi zaten kullanılıyor")
		case errors.Is(err, service.ErrInvalidUserType):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Kullanıcı tipi çiftçi veya alıcı olmalıdır")
		default:
			log.Error("Registration failed", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.ParseAndRespond(c, err, "register user")
		}
		return
	}

	log.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Kayıt başarılı",
		"user":    user,
		"tokens":  tokens,
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Girilen bilgiler geçersiz")
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("Login failed: invalid credentials", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "E-posta veya şifre hatalı")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, err, "login")
		return
	}

	log.Info("Login successful", map[string]interface{}{
		"user_id": user.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Giriş başarılı",
		"user":    user,
		"tokens":  tokens,
	})
}

// RefreshToken rotates a refresh token
// POST /api/v1/auth/refresh
func (ctrl *AuthController) RefreshToken(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Yenileme anahtarı gerekli")
		return
	}

	tokens, err := ctrl.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrUserNotFound) {
			log.Warn("Refresh rejected", map[string]interface{}{
				"error": err.Error(),
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Oturum anahtarı geçersiz")
			return
		}
		log.Error("Token refresh failed", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tokens": tokens,
	})
}

// Logout revokes the current access token
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	claims, ok := middleware.GetClaims(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), claims); err != nil {
		log.Error("Logout failed", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		apperrors.InternalError(c, "")
		return
	}

	log.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "Çıkış yapıldı",
	})
}

// GetMe returns current user information
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := ctrl.userService.GetUser(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			log.Warn("User not found", map[string]interface{}{
				"user_id": userID,
			})
			apperrors.NotFound(c, apperrors.UserNotFound, "Kullanıcı bulunamadı")
			return
		}
		log.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}
