package errors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		wantCode string
	}{
		{"nil error", nil, "", InternalServerError},
		{"record not found", fmt.Errorf("find: %w", gorm.ErrRecordNotFound), "get product", ResourceNotFound},
		{"postgres duplicate email", errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`), "register", AuthEmailAlreadyExists},
		{"sqlite duplicate review", errors.New("UNIQUE constraint failed: reviews.reviewer_id, reviews.reviewed_user_id"), "create review", ReviewAlreadyExists},
		{"postgres duplicate review", errors.New(`ERROR: duplicate key value violates unique constraint "idx_review_pair" (SQLSTATE 23505)`), "create review", ReviewAlreadyExists},
		{"still referenced", errors.New(`update or delete on table "locations" violates foreign key constraint "fk_products_location" on table "products": Key (id)=(1) is still referenced`), "delete location", ResourceConflict},
		{"sqlite fk on delete", errors.New("FOREIGN KEY constraint failed"), "delete category", ResourceConflict},
		{"check rating", errors.New(`new row for relation "reviews" violates check constraint "chk_reviews_rating"`), "create review", ReviewInvalidRating},
		{"connection refused", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), "", InternalExternalAPI},
		{"unknown", errors.New("boom"), "update product", InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotEmpty(t, info.Message)
		})
	}
}

func TestGetNotFoundMessage(t *testing.T) {
	assert.Equal(t, "Alt kategori bulunamadı", getNotFoundMessage("get subcategory"))
	assert.Equal(t, "Kategori bulunamadı", getNotFoundMessage("get category"))
	assert.Equal(t, "İstenen kayıt bulunamadı", getNotFoundMessage("other"))
}

func TestRespondWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	NotFound(c, ProductNotFound, "Ürün bulunamadı")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"PRODUCT_NOT_FOUND","message":"Ürün bulunamadı"}`, w.Body.String())
}

func TestRespondWithError_DefaultMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OwnerOnly(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"AUTHZ_OWNER_ONLY","message":"Bu ürün üzerinde yalnızca sahibi işlem yapabilir"}`, w.Body.String())
}

func TestParseAndRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"duplicate email", errors.New(`duplicate key value violates unique constraint "idx_users_email"`), http.StatusConflict},
		{"missing row", gorm.ErrRecordNotFound, http.StatusNotFound},
		{"database down", errors.New("connection refused"), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			ParseAndRespond(c, tt.err, "register user")

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}
