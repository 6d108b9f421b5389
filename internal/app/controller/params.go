package controller

import (
	"strconv"

	apperrors "github.com/ciftci/ciftci-backend/internal/errors"
	"github.com/ciftci/ciftci-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// parseIDParam reads a positive numeric path parameter and writes a 400 when it is malformed
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid id parameter", map[string]interface{}{
			"param": name,
			"value": c.Param(name),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Geçersiz kimlik numarası")
		return 0, false
	}
	return uint(id), true
}

// currentUserID returns the authenticated user or writes a 401
func currentUserID(c *gin.Context) (uint, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		middleware.GetLoggerFromContext(c).Warn("Missing authenticated user", map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		apperrors.Unauthorized(c, "Giriş yapmanız gerekiyor")
		return 0, false
	}
	return userID, true
}
