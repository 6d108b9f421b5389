package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/internal/app/repository"
	"github.com/ciftci/ciftci-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrLocationNotFound   = errors.New("location not found")
	ErrLocationInUse      = errors.New("location is referenced by users or products")
	ErrSearchTermTooShort = errors.New("search term must be at least 2 characters")
)

const (
	minSearchTermLength = 2
	defaultSearchLimit  = 10
)

// LocationSearchResult is one hit of the location autocomplete
type LocationSearchResult struct {
	Text string `json:"text"`
	Type string `json:"type"` // province, district, village
}

type LocationInput struct {
	Province  string
	District  string
	Village   string
	Latitude  float64
	Longitude float64
}

type LocationService interface {
	GetLocations() ([]model.Location, error)
	GetLocation(id uint) (*model.Location, error)
	GetProvinces() ([]string, error)
	GetDistricts(province string) ([]string, error)
	GetVillages(province, district string) ([]string, error)
	Search(term string, limit int) ([]LocationSearchResult, error)
	// CreateLocation returns the existing row for an already known triple; created reports which happened
	CreateLocation(input LocationInput) (location *model.Location, created bool, err error)
	UpdateLocation(id uint, input LocationInput) (*model.Location, error)
	DeleteLocation(id uint) error
}

type locationService struct {
	db           *gorm.DB
	locationRepo repository.LocationRepository
	userRepo     repository.UserRepository
	productRepo  repository.ProductRepository
}

func NewLocationService(
	db *gorm.DB,
	locationRepo repository.LocationRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
) LocationService {
	return &locationService{
		db:           db,
		locationRepo: locationRepo,
		userRepo:     userRepo,
		productRepo:  productRepo,
	}
}

func (s *locationService) GetLocations() ([]model.Location, error) {
	return s.locationRepo.FindAll()
}

func (s *locationService) GetLocation(id uint) (*model.Location, error) {
	location, err := s.locationRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return location, nil
}

func (s *locationService) GetProvinces() ([]string, error) {
	return s.locationRepo.Provinces()
}

func (s *locationService) GetDistricts(province string) ([]string, error) {
	return s.locationRepo.Districts(province)
}

func (s *locationService) GetVillages(province, district string) ([]string, error) {
	return s.locationRepo.Villages(province, district)
}

// Search lists provinces, then districts, then villages, capped at limit in total
func (s *locationService) Search(term string, limit int) ([]LocationSearchResult, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < minSearchTermLength {
		return nil, ErrSearchTermTooShort
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	results := []LocationSearchResult{}

	provinces, err := s.locationRepo.SearchProvinces(term, limit)
	if err != nil {
		return nil, err
	}
	for _, province := range provinces {
		results = append(results, LocationSearchResult{Text: province, Type: "province"})
	}

	districts, err := s.locationRepo.SearchDistricts(term, limit)
	if err != nil {
		return nil, err
	}
	for _, d := range districts {
		results = append(results, LocationSearchResult{
			Text: fmt.Sprintf("%s, %s", d.District, d.Province),
			Type: "district",
		})
	}

	villages, err := s.locationRepo.SearchVillages(term, limit)
	if err != nil {
		return nil, err
	}
	for _, v := range villages {
		results = append(results, LocationSearchResult{
			Text: fmt.Sprintf("%s, %s, %s", v.Village, v.District, v.Province),
			Type: "village",
		})
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *locationService) CreateLocation(input LocationInput) (*model.Location, bool, error) {
	existing, err := s.locationRepo.FindByTriple(input.Province, input.District, input.Village)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	location := &model.Location{
		Province:  input.Province,
		District:  input.District,
		Village:   input.Village,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	}
	if err := s.locationRepo.Create(location); err != nil {
		return nil, false, err
	}
	return location, true, nil
}

func (s *locationService) UpdateLocation(id uint, input LocationInput) (*model.Location, error) {
	location, err := s.GetLocation(id)
	if err != nil {
		return nil, err
	}

	location.Province = input.Province
	location.District = input.District
	location.Village = input.Village
	location.Latitude = input.Latitude
	location.Longitude = input.Longitude

	if err := s.locationRepo.Update(location); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return location, nil
}

func (s *locationService) DeleteLocation(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.locationRepo.WithTx(tx).FindByID(id); err != nil {
			return err
		}

		users, err := s.userRepo.WithTx(tx).CountByLocation(id)
		if err != nil {
			return err
		}
		products, err := s.productRepo.WithTx(tx).CountByLocation(id)
		if err != nil {
			return err
		}
		if users > 0 || products > 0 {
			logger.Warn("Refusing to delete location in use", map[string]interface{}{
				"location_id": id,
				"users":       users,
				"products":    products,
			})
			return ErrLocationInUse
		}

		return s.locationRepo.WithTx(tx).Delete(id)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrLocationNotFound
	}
	return err
}
