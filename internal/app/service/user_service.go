package service

import (
	"errors"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/internal/app/repository"
	"github.com/ciftci/ciftci-backend/pkg/logger"
	"gorm.io/gorm"
)

// UpdateProfileInput is a partial update; empty fields are left unchanged
type UpdateProfileInput struct {
	Name            string
	PhoneNumber     string
	ProfileImageURL string
	Province        string
	District        string
	Village         string
}

type UserService interface {
	GetUser(id uint) (*model.User, error)
	ListUsers(userType *model.UserType) ([]model.User, error)
	UpdateProfile(userID uint, input UpdateProfileInput) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// withAddressFallback fills an empty free text address from the linked location
func withAddressFallback(user *model.User) {
	if user.Location == nil {
		return
	}
	if user.Province == "" {
		user.Province = user.Location.Province
	}
	if user.District == "" {
		user.District = user.Location.District
	}
	if user.Village == "" {
		user.Village = user.Location.Village
	}
}

func (s *userService) GetUser(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByIDWithLocation(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	withAddressFallback(user)
	return user, nil
}

func (s *userService) ListUsers(userType *model.UserType) ([]model.User, error) {
	users, err := s.userRepo.List(userType)
	if err != nil {
		return nil, err
	}
	for i := range users {
		withAddressFallback(&users[i])
	}
	return users, nil
}

func (s *userService) UpdateProfile(userID uint, input UpdateProfileInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.PhoneNumber != "" {
		user.PhoneNumber = input.PhoneNumber
	}
	if input.ProfileImageURL != "" {
		user.ProfileImageURL = input.ProfileImageURL
	}
	if input.Province != "" {
		user.Province = input.Province
	}
	if input.District != "" {
		user.District = input.District
	}
	if input.Village != "" {
		user.Village = input.Village
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("User profile updated", map[string]interface{}{
		"user_id": userID,
	})
	return s.GetUser(userID)
}
