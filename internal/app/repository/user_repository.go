package repository

import (
	"errors"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByIDWithLocation(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByIDs(ids []uint) (map[uint]model.User, error)
	List(userType *model.UserType) ([]model.User, error)
	Update(user *model.User) error
	LockByID(id uint) (*model.User, error)
	UpdateRating(id uint, rating *float64, reviewCount int) error
	CountByLocation(locationID uint) (int64, error)
	RatedIDs() ([]uint, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"email": user.Email,
	})

	if err := r.db.Omit(clause.Associations).Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		logFindError("user", id, err)
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByIDWithLocation(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.Preload("Location").First(&user, id).Error; err != nil {
		logFindError("user", id, err)
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find user by email in database", err)
		}
		return nil, err
	}
	return &user, nil
}

// FindByIDs loads the given users in one query, keyed by id
func (r *userRepository) FindByIDs(ids []uint) (map[uint]model.User, error) {
	result := make(map[uint]model.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var users []model.User
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		logger.Error("Failed to load users by ids", err, map[string]interface{}{
			"count": len(ids),
		})
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

// List returns users ordered by id, optionally restricted to one user type
func (r *userRepository) List(userType *model.UserType) ([]model.User, error) {
	query := r.db.Preload("Location").Order("id ASC")
	if userType != nil {
		query = query.Where("user_type = ?", *userType)
	}

	var users []model.User
	if err := query.Find(&users).Error; err != nil {
		logger.Error("Failed to list users", err)
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Update(user *model.User) error {
	logger.Debug("Updating user in database", map[string]interface{}{
		"user_id": user.ID,
	})

	if err := r.db.Omit(clause.Associations).Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}

// LockByID reads the user with SELECT ... FOR UPDATE. Only meaningful inside a transaction.
func (r *userRepository) LockByID(id uint) (*model.User, error) {
	var user model.User
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateRating writes rating and review_count in a single statement
func (r *userRepository) UpdateRating(id uint, rating *float64, reviewCount int) error {
	result := r.db.Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"rating":       rating,
			"review_count": reviewCount,
		})
	if result.Error != nil {
		logger.Error("Failed to update user rating", result.Error, map[string]interface{}{
			"user_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) CountByLocation(locationID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("location_id = ?", locationID).Count(&count).Error
	return count, err
}

// RatedIDs lists users whose stored rating claims at least one review
func (r *userRepository) RatedIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.User{}).
		Where("review_count > 0 OR rating IS NOT NULL").
		Pluck("id", &ids).Error
	return ids, err
}

// logFindError keeps not-found lookups out of the error log
func logFindError(entity string, id uint, err error) {
	fields := map[string]interface{}{
		"entity": entity,
		"id":     id,
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Debug("Record not found", fields)
		return
	}
	logger.Error("Failed to find record", err, fields)
}
