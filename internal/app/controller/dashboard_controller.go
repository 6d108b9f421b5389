package controller

import (
	"errors"
	"net/http"

	"github.com/ciftci/ciftci-backend/internal/app/service"
	apperrors "github.com/ciftci/ciftci-backend/internal/errors"
	"github.com/ciftci/ciftci-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	dashboardService service.DashboardService
}

func NewDashboardController(dashboardService service.DashboardService) *DashboardController {
	return &DashboardController{dashboardService: dashboardService}
}

// GetStats returns the global marketplace statistics
// GET /api/v1/dashboard/stats
func (ctrl *DashboardController) GetStats(c *gin.Context) {
	stats, err := ctrl.dashboardService.GetStats(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to compute dashboard stats", err)
		apperrors.InternalError(c, "İstatistikler getirilemedi")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetUserDashboard returns the farmer or buyer dashboard of a user
// GET /api/v1/dashboard/users/:id
func (ctrl *DashboardController) GetUserDashboard(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	dashboard, err := ctrl.dashboardService.GetUserDashboard(id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "Kullanıcı bulunamadı")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to compute user dashboard", err, map[string]interface{}{
			"user_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
