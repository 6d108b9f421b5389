package repository

import (
	"strings"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DistrictRef is a district together with its province
type DistrictRef struct {
	District string
	Province string
}

type LocationRepository interface {
	WithTx(tx *gorm.DB) LocationRepository
	Create(location *model.Location) error
	// BulkCreate inserts in batches and skips rows whose triple already exists
	BulkCreate(locations []model.Location, batchSize int) (int64, error)
	FindByID(id uint) (*model.Location, error)
	FindAll() ([]model.Location, error)
	FindByTriple(province, district, village string) (*model.Location, error)
	Update(location *model.Location) error
	Delete(id uint) error
	Provinces() ([]string, error)
	Districts(province string) ([]string, error)
	Villages(province, district string) ([]string, error)
	SearchProvinces(term string, limit int) ([]string, error)
	SearchDistricts(term string, limit int) ([]DistrictRef, error)
	SearchVillages(term string, limit int) ([]model.Location, error)
}

type locationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) WithTx(tx *gorm.DB) LocationRepository {
	return &locationRepository{db: tx}
}

func (r *locationRepository) Create(location *model.Location) error {
	if err := r.db.Create(location).Error; err != nil {
		logger.Error("Failed to create location", err, map[string]interface{}{
			"province": location.Province,
			"district": location.District,
		})
		return err
	}
	logger.Info("Location created", map[string]interface{}{
		"location_id": location.ID,
	})
	return nil
}

func (r *locationRepository) BulkCreate(locations []model.Location, batchSize int) (int64, error) {
	if len(locations) == 0 {
		return 0, nil
	}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(locations, batchSize)
	if result.Error != nil {
		logger.Error("Failed to bulk create locations", result.Error, map[string]interface{}{
			"count": len(locations),
		})
		return 0, result.Error
	}
	logger.Info("Locations imported", map[string]interface{}{
		"submitted": len(locations),
		"inserted":  result.RowsAffected,
	})
	return result.RowsAffected, nil
}

func (r *locationRepository) FindByID(id uint) (*model.Location, error) {
	var location model.Location
	if err := r.db.First(&location, id).Error; err != nil {
		logFindError("location", id, err)
		return nil, err
	}
	return &location, nil
}

func (r *locationRepository) FindAll() ([]model.Location, error) {
	var locations []model.Location
	err := r.db.Order("province ASC, district ASC, village ASC").Find(&locations).Error
	return locations, err
}

func (r *locationRepository) FindByTriple(province, district, village string) (*model.Location, error) {
	var location model.Location
	err := r.db.
		Where("province = ? AND district = ? AND village = ?", province, district, village).
		First(&location).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *locationRepository) Update(location *model.Location) error {
	result := r.db.Model(location).Select("province", "district", "village", "latitude", "longitude", "updated_at").Updates(location)
	if result.Error != nil {
		logger.Error("Failed to update location", result.Error, map[string]interface{}{
			"location_id": location.ID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *locationRepository) Delete(id uint) error {
	result := r.db.Delete(&model.Location{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete location", result.Error, map[string]interface{}{
			"location_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *locationRepository) Provinces() ([]string, error) {
	var provinces []string
	err := r.db.Model(&model.Location{}).
		Distinct("province").
		Order("province ASC").
		Pluck("province", &provinces).Error
	return provinces, err
}

func (r *locationRepository) Districts(province string) ([]string, error) {
	var districts []string
	err := r.db.Model(&model.Location{}).
		Where("province = ?", province).
		Distinct("district").
		Order("district ASC").
		Pluck("district", &districts).Error
	return districts, err
}

func (r *locationRepository) Villages(province, district string) ([]string, error) {
	var villages []string
	err := r.db.Model(&model.Location{}).
		Where("province = ? AND district = ? AND village <> ''", province, district).
		Distinct("village").
		Order("village ASC").
		Pluck("village", &villages).Error
	return villages, err
}

func likePattern(term string) string {
	return "%" + strings.ToLower(term) + "%"
}

func (r *locationRepository) SearchProvinces(term string, limit int) ([]string, error) {
	var provinces []string
	err := r.db.Model(&model.Location{}).
		Where("LOWER(province) LIKE ?", likePattern(term)).
		Distinct("province").
		Order("province ASC").
		Limit(limit).
		Pluck("province", &provinces).Error
	return provinces, err
}

func (r *locationRepository) SearchDistricts(term string, limit int) ([]DistrictRef, error) {
	var refs []DistrictRef
	err := r.db.Model(&model.Location{}).
		Select("district, province").
		Where("LOWER(district) LIKE ?", likePattern(term)).
		Group("district, province").
		Order("district ASC, province ASC").
		Limit(limit).
		Scan(&refs).Error
	return refs, err
}

func (r *locationRepository) SearchVillages(term string, limit int) ([]model.Location, error) {
	var locations []model.Location
	err := r.db.
		Where("village <> '' AND LOWER(village) LIKE ?", likePattern(term)).
		Order("village ASC, district ASC").
		Limit(limit).
		Find(&locations).Error
	return locations, err
}
