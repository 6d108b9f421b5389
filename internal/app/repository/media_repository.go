package repository

import (
	"errors"
	"time"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MediaRepository interface {
	// Create inserts the media and makes it main when it is the product's first
	Create(media *model.Media) error
	FindByID(id uint) (*model.Media, error)
	FindByProduct(productID uint) ([]model.Media, error)
	// SetMain marks mediaID as the only main media of its product
	SetMain(productID, mediaID uint) error
	// Delete removes the media and promotes the oldest remaining one when it was main
	Delete(media *model.Media) error
}

type mediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(media *model.Media) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// serialize concurrent first uploads on the product row
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").First(&model.Product{}, media.ProductID).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&model.Media{}).Where("product_id = ?", media.ProductID).Count(&count).Error; err != nil {
			return err
		}
		media.IsMain = count == 0

		if err := tx.Omit(clause.Associations).Create(media).Error; err != nil {
			logger.Error("Failed to create media", err, map[string]interface{}{
				"product_id": media.ProductID,
			})
			return err
		}

		logger.Info("Media created", map[string]interface{}{
			"media_id":   media.ID,
			"product_id": media.ProductID,
			"is_main":    media.IsMain,
		})
		return nil
	})
}

func (r *mediaRepository) FindByID(id uint) (*model.Media, error) {
	var media model.Media
	if err := r.db.First(&media, id).Error; err != nil {
		logFindError("media", id, err)
		return nil, err
	}
	return &media, nil
}

func (r *mediaRepository) FindByProduct(productID uint) ([]model.Media, error) {
	media := []model.Media{}
	err := r.db.Where("product_id = ?", productID).
		Order("created_at ASC").Order("id ASC").
		Find(&media).Error
	return media, err
}

func (r *mediaRepository) SetMain(productID, mediaID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&model.Media{}).
			Where("product_id = ?", productID).
			Updates(map[string]interface{}{
				"is_main":    gorm.Expr("id = ?", mediaID),
				"updated_at": now,
			}).Error; err != nil {
			return err
		}

		var mainCount int64
		if err := tx.Model(&model.Media{}).
			Where("product_id = ? AND id = ? AND is_main = ?", productID, mediaID, true).
			Count(&mainCount).Error; err != nil {
			return err
		}
		if mainCount == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *mediaRepository) Delete(media *model.Media) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&model.Media{}, media.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if !media.IsMain {
			return nil
		}

		var next model.Media
		err := tx.Where("product_id = ?", media.ProductID).
			Order("created_at ASC").Order("id ASC").
			First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		logger.Debug("Promoting media to main", map[string]interface{}{
			"media_id":   next.ID,
			"product_id": media.ProductID,
		})
		return tx.Model(&next).Update("is_main", true).Error
	})
}
