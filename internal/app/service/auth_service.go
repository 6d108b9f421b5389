package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/internal/app/repository"
	"github.com/ciftci/ciftci-backend/pkg/logger"
	"github.com/ciftci/ciftci-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidUserType    = errors.New("invalid user type")
	ErrInvalidToken       = errors.New("invalid or revoked token")
)

// TokenBlacklist revokes token ids until they expire. redis.Store implements it.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, tokenID string, expiry time.Duration) error
	IsTokenBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	PhoneNumber     string
	UserType        model.UserType
	ProfileImageURL string
	Province        string
	District        string
	Village         string
	Latitude        *float64
	Longitude       *float64
}

type AuthService interface {
	Register(input RegisterInput) (*model.User, *util.TokenPair, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	// RefreshToken exchanges a valid refresh token for a new pair and revokes the old one
	RefreshToken(ctx context.Context, refreshToken string) (*util.TokenPair, error)
	// Logout revokes the access token described by claims
	Logout(ctx context.Context, claims *util.Claims) error
}

type authService struct {
	db            *gorm.DB
	userRepo      repository.UserRepository
	locationRepo  repository.LocationRepository
	blacklist     TokenBlacklist
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewAuthService builds the service. blacklist may be nil when Redis is disabled.
func NewAuthService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	locationRepo repository.LocationRepository,
	blacklist TokenBlacklist,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		db:            db,
		userRepo:      userRepo,
		locationRepo:  locationRepo,
		blacklist:     blacklist,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) Register(input RegisterInput) (*model.User, *util.TokenPair, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	logger.Info("Attempting user registration", map[string]interface{}{
		"email":     input.Email,
		"user_type": input.UserType,
	})

	if !input.UserType.Valid() {
		return nil, nil, ErrInvalidUserType
	}

	existingUser, err := s.userRepo.FindByEmail(input.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, nil, err
	}
	if existingUser != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": input.Email,
		})
		return nil, nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, nil, err
	}

	user := &model.User{
		Name:            input.Name,
		Email:           input.Email,
		PhoneNumber:     input.PhoneNumber,
		PasswordHash:    hashedPassword,
		UserType:        input.UserType,
		ProfileImageURL: input.ProfileImageURL,
		Province:        input.Province,
		District:        input.District,
		Village:         input.Village,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		location, err := s.registrationLocation(s.locationRepo.WithTx(tx), input)
		if err != nil {
			return err
		}
		if location != nil {
			user.LocationID = &location.ID
		}
		return s.userRepo.WithTx(tx).Create(user)
	})
	if err != nil {
		logger.Error("Failed to register user", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":   user.ID,
		"user_type": user.UserType,
	})
	return user, tokens, nil
}

// registrationLocation links an existing location for the given province and
// district, creating it only when coordinates are supplied
func (s *authService) registrationLocation(repo repository.LocationRepository, input RegisterInput) (*model.Location, error) {
	if input.Province == "" || input.District == "" {
		return nil, nil
	}

	location, err := repo.FindByTriple(input.Province, input.District, input.Village)
	if err == nil {
		return location, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if input.Latitude == nil || input.Longitude == nil {
		return nil, nil
	}

	location = &model.Location{
		Province:  input.Province,
		District:  input.District,
		Village:   input.Village,
		Latitude:  *input.Latitude,
		Longitude: *input.Longitude,
	}
	if err := repo.Create(location); err != nil {
		return nil, err
	}
	return location, nil
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, tokens, nil
}

func (s *authService) issueTokens(user *model.User) (*util.TokenPair, error) {
	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.UserType),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	return tokens, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil || claims.TokenType != util.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsTokenBlacklisted(ctx, claims.ID)
		if err != nil {
			logger.Warn("Token blacklist lookup failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	s.revoke(ctx, claims)
	return tokens, nil
}

func (s *authService) Logout(ctx context.Context, claims *util.Claims) error {
	if claims == nil {
		return ErrInvalidToken
	}
	s.revoke(ctx, claims)
	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

// revoke blacklists the token for its remaining lifetime. Without Redis it is a no-op.
func (s *authService) revoke(ctx context.Context, claims *util.Claims) {
	if s.blacklist == nil || claims.ID == "" {
		return
	}
	if err := s.blacklist.BlacklistToken(ctx, claims.ID, util.TokenTTL(claims)); err != nil {
		logger.Error("Failed to blacklist token", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
	}
}
