package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/internal/db"
	"github.com/ciftci/ciftci-backend/internal/middleware"
	"github.com/ciftci/ciftci-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func newTestAuthMiddleware() *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(testSecret, nil)
}

func createUser(t *testing.T, testDB *gorm.DB, name string, userType model.UserType) *model.User {
	t.Helper()
	hash, err := util.HashPassword("password123")
	require.NoError(t, err)
	user := &model.User{
		Name:         name,
		Email:        fmt.Sprintf("%s-%d@ciftci.app", name, time.Now().UnixNano()),
		PasswordHash: hash,
		UserType:     userType,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func tokenFor(t *testing.T, user *model.User) string {
	t.Helper()
	tokens, err := util.GenerateTokenPair(user.ID, user.Email, string(user.UserType), testSecret, 15*time.Minute, time.Hour)
	require.NoError(t, err)
	return tokens.AccessToken
}

// doRequest sends body as JSON when it is not already a reader
func doRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}
