package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ciftci/ciftci-backend/internal/app/service"
	apperrors "github.com/ciftci/ciftci-backend/internal/errors"
	"github.com/ciftci/ciftci-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type LocationController struct {
	locationService service.LocationService
}

func NewLocationController(locationService service.LocationService) *LocationController {
	return &LocationController{locationService: locationService}
}

type LocationRequest struct {
	Province  string  `json:"province" binding:"required,max=50"`
	District  string  `json:"district" binding:"required,max=50"`
	Village   string  `json:"village" binding:"required,max=100"`
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
}

func (r LocationRequest) input() service.LocationInput {
	return service.LocationInput{
		Province:  r.Province,
		District:  r.District,
		Village:   r.Village,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}

// GetLocations lists every location
// GET /api/v1/locations
func (ctrl *LocationController) GetLocations(c *gin.Context) {
	locations, err := ctrl.locationService.GetLocations()
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list locations", err)
		apperrors.InternalError(c, "Konumlar getirilemedi")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"locations": locations,
		"count":     len(locations),
	})
}

// GetLocation returns one location
// GET /api/v1/locations/:id
func (ctrl *LocationController) GetLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	location, err := ctrl.locationService.GetLocation(id)
	if err != nil {
		ctrl.respondError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"location": location,
	})
}

// GetProvinces lists distinct provinces
// GET /api/v1/locations/provinces
func (ctrl *LocationController) GetProvinces(c *gin.Context) {
	provinces, err := ctrl.locationService.GetProvinces()
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list provinces", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"provinces": provinces,
	})
}

// GetDistricts lists the districts of a province
// GET /api/v1/locations/districts/:province
func (ctrl *LocationController) GetDistricts(c *gin.Context) {
	province := c.Param("province")

	districts, err := ctrl.locationService.GetDistricts(province)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list districts", err, map[string]interface{}{
			"province": province,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"districts": districts,
	})
}

// GetVillages lists the villages of a district
// GET /api/v1/locations/villages/:province/:district
func (ctrl *LocationController) GetVillages(c *gin.Context) {
	province := c.Param("province")
	district := c.Param("district")

	villages, err := ctrl.locationService.GetVillages(province, district)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list villages", err, map[string]interface{}{
			"province": province,
			"district": district,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"villages": villages,
	})
}

// Search autocompletes provinces, districts and villages
// GET /api/v1/locations/search?term=&limit=
func (ctrl *LocationController) Search(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Geçersiz limit değeri")
			return
		}
		limit = parsed
	}

	results, err := ctrl.locationService.Search(c.Query("term"), limit)
	if err != nil {
		if errors.Is(err, service.ErrSearchTermTooShort) {
			apperrors.BadRequest(c, apperrors.ValidationTooShort, "Arama terimi en az 2 karakter olmalıdır")
			return
		}
		log.Error("Location search failed", err, map[string]interface{}{
			"term": c.Query("term"),
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
	})
}

// CreateLocation creates a location or returns the existing one for the same triple
// POST /api/v1/locations
func (ctrl *LocationController) CreateLocation(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid location request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Girilen konum bilgileri geçersiz")
		return
	}

	location, created, err := ctrl.locationService.CreateLocation(req.input())
	if err != nil {
		log.Error("Failed to create location", err)
		apperrors.ParseAndRespond(c, err, "create location")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		log.Info("Location created", map[string]interface{}{
			"location_id": location.ID,
		})
	}
	c.JSON(status, gin.H{
		"location": location,
	})
}

// UpdateLocation updates a location
// PUT /api/v1/locations/:id
func (ctrl *LocationController) UpdateLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Girilen konum bilgileri geçersiz")
		return
	}

	location, err := ctrl.locationService.UpdateLocation(id, req.input())
	if err != nil {
		ctrl.respondError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Konum güncellendi",
		"location": location,
	})
}

// DeleteLocation deletes an unreferenced location
// DELETE /api/v1/locations/:id
func (ctrl *LocationController) DeleteLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.locationService.DeleteLocation(id); err != nil {
		ctrl.respondError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Konum silindi",
	})
}

func (ctrl *LocationController) respondError(c *gin.Context, err error, id uint) {
	switch {
	case errors.Is(err, service.ErrLocationNotFound):
		apperrors.NotFound(c, apperrors.LocationNotFound, "Konum bulunamadı")
	case errors.Is(err, service.ErrLocationInUse):
		apperrors.Conflict(c, apperrors.LocationInUse, "Bu konum kullanıcılar veya ürünler tarafından kullanılıyor")
	default:
		middleware.GetLoggerFromContext(c).Error("Location operation failed", err, map[string]interface{}{
			"location_id": id,
		})
		apperrors.ParseAndRespond(c, err, "location")
	}
}
