package controller

import (
	"errors"
	"net/http"

	"github.com/ciftci/ciftci-backend/internal/app/service"
	apperrors "github.com/ciftci/ciftci-backend/internal/errors"
	"github.com/ciftci/ciftci-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	service service.NotificationService
}

func NewNotificationController(service service.NotificationService) *NotificationController {
	return &NotificationController{
		service: service,
	}
}

// GetNotifications godoc
// @Summary List notifications
// @Description Notifications of the current user, newest first
// @Tags notifications
// @Produce json
// @Param unread query bool false "only unread notifications"
// @Success 200 {object} gin.H{notifications=[]model.Notification,count=int}
// @Failure 401 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/notifications [get]
func (c *NotificationController) GetNotifications(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	unreadOnly := ctx.Query("unread") == "true"

	notifications, err := c.service.GetNotifications(userID, unreadOnly)
	if err != nil {
		middleware.GetLoggerFromContext(ctx).Error("Failed to list notifications", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(ctx, "Bildirimler getirilemedi")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// GetUnreadCount godoc
// @Summary Unread notification count
// @Tags notifications
// @Produce json
// @Success 200 {object} gin.H{unread_count=int}
// @Security BearerAuth
// @Router /api/v1/notifications/unread-count [get]
func (c *NotificationController) GetUnreadCount(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	count, err := c.service.GetUnreadCount(userID)
	if err != nil {
		middleware.GetLoggerFromContext(ctx).Error("Failed to count notifications", err)
		apperrors.InternalError(ctx, "")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"unread_count": count,
	})
}

// MarkAsRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Param id path int true "notification id"
// @Success 200 {object} gin.H{notification=model.Notification}
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/notifications/{id}/read [put]
func (c *NotificationController) MarkAsRead(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	notification, err := c.service.MarkAsRead(id, userID)
	if err != nil {
		c.respondError(ctx, err, id)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":      "Bildirim okundu olarak işaretlendi",
		"notification": notification,
	})
}

// MarkAllAsRead godoc
// @Summary Mark every notification as read
// @Tags notifications
// @Produce json
// @Success 200 {object} gin.H{updated=int}
// @Security BearerAuth
// @Router /api/v1/notifications/read-all [put]
func (c *NotificationController) MarkAllAsRead(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	updated, err := c.service.MarkAllAsRead(userID)
	if err != nil {
		middleware.GetLoggerFromContext(ctx).Error("Failed to mark notifications read", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(ctx, "")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Tüm bildirimler okundu olarak işaretlendi",
		"updated": updated,
	})
}

// DeleteNotification godoc
// @Summary Delete a notification
// @Tags notifications
// @Produce json
// @Param id path int true "notification id"
// @Success 200 {object} gin.H
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /api/v1/notifications/{id} [delete]
func (c *NotificationController) DeleteNotification(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.service.DeleteNotification(id, userID); err != nil {
		c.respondError(ctx, err, id)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Bildirim silindi",
	})
}

func (c *NotificationController) respondError(ctx *gin.Context, err error, id uint) {
	switch {
	case errors.Is(err, service.ErrNotificationNotFound):
		apperrors.NotFound(ctx, apperrors.NotificationNotFound, "Bildirim bulunamadı")
	case errors.Is(err, service.ErrNotificationForbidden):
		apperrors.Forbidden(ctx, "Bu bildirim size ait değil")
	default:
		middleware.GetLoggerFromContext(ctx).Error("Notification operation failed", err, map[string]interface{}{
			"notification_id": id,
		})
		apperrors.InternalError(ctx, "")
	}
}
