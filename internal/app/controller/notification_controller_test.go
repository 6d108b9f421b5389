package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/internal/app/repository"
	"github.com/ciftci/ciftci-backend/internal/app/service"
	apperrors "github.com/ciftci/ciftci-backend/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupNotificationControllerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	testDB := setupTestDB(t)

	ctrl := NewNotificationController(service.NewNotificationService(repository.NewNotificationRepository(testDB), nil))
	authMiddleware := newTestAuthMiddleware()

	router := gin.New()
	notifications := router.Group("/notifications", authMiddleware.Authenticate())
	notifications.GET("", ctrl.GetNotifications)
	notifications.GET("/unread-count", ctrl.GetUnreadCount)
	notifications.PUT("/read-all", ctrl.MarkAllAsRead)
	notifications.PUT("/:id/read", ctrl.MarkAsRead)
	notifications.DELETE("/:id", ctrl.DeleteNotification)

	return router, testDB
}

func createNotification(t *testing.T, testDB *gorm.DB, userID uint, title string, read bool) *model.Notification {
	t.Helper()
	notification := &model.Notification{
		UserID:  userID,
		Title:   title,
		Content: title + " içeriği",
		Type:    model.NotificationTypeSystem,
	}
	require.NoError(t, testDB.Create(notification).Error)
	if read {
		require.NoError(t, testDB.Model(notification).Update("is_read", true).Error)
	}
	return notification
}

func TestNotificationController_List(t *testing.T) {
	router, testDB := setupNotificationControllerTest(t)
	user := createUser(t, testDB, "user", model.UserTypeBuyer)
	other := createUser(t, testDB, "other", model.UserTypeBuyer)
	createNotification(t, testDB, user.ID, "Hoş geldiniz", true)
	createNotification(t, testDB, user.ID, "Yeni mesaj", false)
	createNotification(t, testDB, other.ID, "Başkasının", false)
	token := tokenFor(t, user)

	w := doRequest(router, "GET", "/notifications", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeBody(t, w)["count"])

	w = doRequest(router, "GET", "/notifications?unread=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	response := decodeBody(t, w)
	assert.Equal(t, float64(1), response["count"])
	first := response["notifications"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Yeni mesaj", first["title"])

	w = doRequest(router, "GET", "/notifications/unread-count", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["unread_count"])

	w = doRequest(router, "GET", "/notifications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNotificationController_MarkAsRead(t *testing.T) {
	router, testDB := setupNotificationControllerTest(t)
	user := createUser(t, testDB, "user", model.UserTypeBuyer)
	other := createUser(t, testDB, "other", model.UserTypeBuyer)
	mine := createNotification(t, testDB, user.ID, "Benim", false)
	theirs := createNotification(t, testDB, other.ID, "Onların", false)

	w := doRequest(router, "PUT", fmt.Sprintf("/notifications/%d/read", mine.ID), tokenFor(t, user), nil)
	require.Equal(t, http.StatusOK, w.Code)
	notification := decodeBody(t, w)["notification"].(map[string]interface{})
	assert.Equal(t, true, notification["is_read"])
	assert.NotNil(t, notification["read_at"])

	w = doRequest(router, "PUT", fmt.Sprintf("/notifications/%d/read", theirs.ID), tokenFor(t, user), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperrors.AuthzForbidden, decodeBody(t, w)["error"])

	w = doRequest(router, "PUT", "/notifications/9999/read", tokenFor(t, user), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.NotificationNotFound, decodeBody(t, w)["error"])
}

func TestNotificationController_MarkAllAsRead(t *testing.T) {
	router, testDB := setupNotificationControllerTest(t)
	user := createUser(t, testDB, "user", model.UserTypeBuyer)
	createNotification(t, testDB, user.ID, "Bir", false)
	createNotification(t, testDB, user.ID, "İki", false)
	createNotification(t, testDB, user.ID, "Üç", true)
	token := tokenFor(t, user)

	w := doRequest(router, "PUT", "/notifications/read-all", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeBody(t, w)["updated"])

	w = doRequest(router, "GET", "/notifications/unread-count", token, nil)
	assert.Equal(t, float64(0), decodeBody(t, w)["unread_count"])
}

func TestNotificationController_Delete(t *testing.T) {
	router, testDB := setupNotificationControllerTest(t)
	user := createUser(t, testDB, "user", model.UserTypeBuyer)
	other := createUser(t, testDB, "other", model.UserTypeBuyer)
	mine := createNotification(t, testDB, user.ID, "Benim", false)
	theirs := createNotification(t, testDB, other.ID, "Onların", false)

	w := doRequest(router, "DELETE", fmt.Sprintf("/notifications/%d", theirs.ID), tokenFor(t, user), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, "DELETE", fmt.Sprintf("/notifications/%d", mine.ID), tokenFor(t, user), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "DELETE", fmt.Sprintf("/notifications/%d", mine.ID), tokenFor(t, user), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
