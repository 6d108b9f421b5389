package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func (f *fakeBlacklist) IsTokenBlacklisted(_ context.Context, tokenID string) (bool, error) {
	return f.revoked[tokenID], f.err
}

func setupMiddlewareTest(revoked TokenRevocationChecker) (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router, NewAuthMiddleware(testJWTSecret, revoked)
}

func generateTestTokens(t *testing.T, userID uint, email, role string) *util.TokenPair {
	tokens, err := util.GenerateTokenPair(userID, email, role, testJWTSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return tokens
}

func serve(router *gin.Engine, path, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	tokens := generateTestTokens(t, 1, "ali@ciftci.app", "farmer")

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		email, _ := GetUserEmail(c)
		role, _ := GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "email": email, "role": role})
	})

	w := serve(router, "/test", "Bearer "+tokens.AccessToken)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":1,"email":"ali@ciftci.app","role":"farmer"}`, w.Body.String())
}

func TestAuthMiddleware_Authenticate_QueryToken(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	tokens := generateTestTokens(t, 5, "ws@ciftci.app", "buyer")

	router.GET("/ws", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := serve(router, "/ws?token="+tokens.AccessToken, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_Authenticate_Rejects(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	tokens := generateTestTokens(t, 1, "ali@ciftci.app", "farmer")

	router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{"No token", "", "AUTH_UNAUTHORIZED"},
		{"Missing Bearer prefix", "invalid-token", "AUTH_UNAUTHORIZED"},
		{"Wrong prefix", "Basic token123", "AUTH_UNAUTHORIZED"},
		{"Garbage token", "Bearer invalid.jwt.token", "AUTH_TOKEN_INVALID"},
		{"Refresh token", "Bearer " + tokens.RefreshToken, "AUTH_TOKEN_INVALID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, "/test", tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}

func TestAuthMiddleware_Authenticate_Revoked(t *testing.T) {
	tokens := generateTestTokens(t, 1, "ali@ciftci.app", "farmer")
	claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)

	t.Run("Blacklisted token", func(t *testing.T) {
		router, authMiddleware := setupMiddlewareTest(&fakeBlacklist{revoked: map[string]bool{claims.ID: true}})
		router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) { c.Status(http.StatusOK) })

		w := serve(router, "/test", "Bearer "+tokens.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_TOKEN_REVOKED")
	})

	t.Run("Blacklist unavailable", func(t *testing.T) {
		router, authMiddleware := setupMiddlewareTest(&fakeBlacklist{err: errors.New("redis down")})
		router.GET("/test", authMiddleware.Authenticate(), func(c *gin.Context) { c.Status(http.StatusOK) })

		w := serve(router, "/test", "Bearer "+tokens.AccessToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuthMiddleware_OptionalAuthenticate(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)
	tokens := generateTestTokens(t, 9, "ayse@ciftci.app", "buyer")

	router.GET("/test", authMiddleware.OptionalAuthenticate(), func(c *gin.Context) {
		userID, ok := GetUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "authenticated": ok})
	})

	w := serve(router, "/test", "")
	assert.JSONEq(t, `{"user_id":0,"authenticated":false}`, w.Body.String())

	w = serve(router, "/test", "Bearer broken")
	assert.JSONEq(t, `{"user_id":0,"authenticated":false}`, w.Body.String())

	w = serve(router, "/test", "Bearer "+tokens.AccessToken)
	assert.JSONEq(t, `{"user_id":9,"authenticated":true}`, w.Body.String())
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	router, authMiddleware := setupMiddlewareTest(nil)

	router.POST("/products",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole(model.UserTypeFarmer),
		func(c *gin.Context) { c.Status(http.StatusCreated) },
	)
	router.GET("/any",
		authMiddleware.Authenticate(),
		authMiddleware.RequireRole(model.UserTypeFarmer, model.UserTypeBuyer),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	tests := []struct {
		name           string
		method         string
		path           string
		role           string
		expectedStatus int
	}{
		{"Farmer creates product", http.MethodPost, "/products", "farmer", http.StatusCreated},
		{"Buyer creates product", http.MethodPost, "/products", "buyer", http.StatusForbidden},
		{"Buyer on shared route", http.MethodGet, "/any", "buyer", http.StatusOK},
		{"Unknown role on shared route", http.MethodGet, "/any", "admin", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := generateTestTokens(t, 1, "x@ciftci.app", tt.role)
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusForbidden && tt.path == "/products" {
				assert.Contains(t, w.Body.String(), "AUTHZ_FARMER_ONLY")
			}
		})
	}
}

func TestContextGetters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetUserID(c)
	assert.False(t, ok)
	_, ok = GetUserEmail(c)
	assert.False(t, ok)
	_, ok = GetUserRole(c)
	assert.False(t, ok)

	c.Set(UserIDKey, uint(123))
	c.Set(UserEmailKey, "test@ciftci.app")
	c.Set(UserRoleKey, model.UserTypeBuyer)

	userID, _ := GetUserID(c)
	email, _ := GetUserEmail(c)
	role, _ := GetUserRole(c)
	assert.Equal(t, uint(123), userID)
	assert.Equal(t, "test@ciftci.app", email)
	assert.Equal(t, model.UserTypeBuyer, role)
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := serve(router, "/ping", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "fixed-id", w.Body.String())
}
