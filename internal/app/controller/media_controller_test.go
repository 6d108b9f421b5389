package controller

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/internal/app/repository"
	"github.com/ciftci/ciftci-backend/internal/app/service"
	apperrors "github.com/ciftci/ciftci-backend/internal/errors"
	"github.com/ciftci/ciftci-backend/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

func setupMediaControllerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	testDB := setupTestDB(t)

	mediaService := service.NewMediaService(
		repository.NewMediaRepository(testDB),
		repository.NewProductRepository(testDB),
		storage.NewLocalStorage(t.TempDir(), "/uploads"),
		1,
	)
	ctrl := NewMediaController(mediaService)
	authMiddleware := newTestAuthMiddleware()

	router := gin.New()
	router.GET("/media/product/:productId", ctrl.GetProductMedia)
	router.POST("/media/upload", authMiddleware.Authenticate(), ctrl.Upload)
	router.PUT("/media/:id/main", authMiddleware.Authenticate(), ctrl.SetMain)
	router.DELETE("/media/:id", authMiddleware.Authenticate(), ctrl.DeleteMedia)

	return router, testDB
}

func createProduct(t *testing.T, testDB *gorm.DB, owner *model.User) *model.Product {
	t.Helper()
	category := createCategory(t, testDB, fmt.Sprintf("Kategori-%d", owner.ID))
	product := &model.Product{
		UserID:       owner.ID,
		Name:         "Domates",
		CategoryID:   category.ID,
		Quantity:     20,
		Unit:         "kg",
		PricePerUnit: 15,
		Status:       model.ProductStatusAvailable,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func uploadRequest(t *testing.T, token string, fields map[string]string, filename string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/media/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestMediaController_Upload(t *testing.T) {
	router, testDB := setupMediaControllerTest(t)
	owner := createUser(t, testDB, "owner", model.UserTypeFarmer)
	stranger := createUser(t, testDB, "stranger", model.UserTypeFarmer)
	product := createProduct(t, testDB, owner)
	productID := fmt.Sprint(product.ID)

	tests := []struct {
		name      string
		token     string
		fields    map[string]string
		filename  string
		content   []byte
		wantCode  int
		wantError string
	}{
		{
			name:     "first image becomes main",
			token:    tokenFor(t, owner),
			fields:   map[string]string{"product_id": productID},
			filename: "domates.png",
			content:  pngBytes,
			wantCode: http.StatusCreated,
		},
		{
			name:      "missing file",
			token:     tokenFor(t, owner),
			fields:    map[string]string{"product_id": productID},
			wantCode:  http.StatusBadRequest,
			wantError: apperrors.ValidationRequired,
		},
		{
			name:      "bad product id",
			token:     tokenFor(t, owner),
			fields:    map[string]string{"product_id": "x"},
			filename:  "domates.png",
			content:   pngBytes,
			wantCode:  http.StatusBadRequest,
			wantError: apperrors.ValidationInvalidID,
		},
		{
			name:      "disallowed extension",
			token:     tokenFor(t, owner),
			fields:    map[string]string{"product_id": productID},
			filename:  "domates.exe",
			content:   pngBytes,
			wantCode:  http.StatusBadRequest,
			wantError: apperrors.UploadInvalidFileType,
		},
		{
			name:      "content is not an image",
			token:     tokenFor(t, owner),
			fields:    map[string]string{"product_id": productID},
			filename:  "domates.png",
			content:   []byte("plain text pretending to be a picture"),
			wantCode:  http.StatusBadRequest,
			wantError: apperrors.UploadInvalidFileType,
		},
		{
			name:      "unknown media type",
			token:     tokenFor(t, owner),
			fields:    map[string]string{"product_id": productID, "media_type": "audio"},
			filename:  "domates.png",
			content:   pngBytes,
			wantCode:  http.StatusBadRequest,
			wantError: apperrors.ValidationInvalidInput,
		},
		{
			name:      "too large",
			token:     tokenFor(t, owner),
			fields:    map[string]string{"product_id": productID},
			filename:  "buyuk.png",
			content:   append(append([]byte{}, pngBytes...), make([]byte, 2<<20)...),
			wantCode:  http.StatusRequestEntityTooLarge,
			wantError: apperrors.UploadFileTooLarge,
		},
		{
			name:      "not the owner",
			token:     tokenFor(t, stranger),
			fields:    map[string]string{"product_id": productID},
			filename:  "domates.png",
			content:   pngBytes,
			wantCode:  http.StatusForbidden,
			wantError: apperrors.AuthzOwnerOnly,
		},
		{
			name:      "unknown product",
			token:     tokenFor(t, owner),
			fields:    map[string]string{"product_id": "9999"},
			filename:  "domates.png",
			content:   pngBytes,
			wantCode:  http.StatusNotFound,
			wantError: apperrors.ProductNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, uploadRequest(t, tt.token, tt.fields, tt.filename, tt.content))

			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
			response := decodeBody(t, w)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, response["error"])
				return
			}
			media := response["media"].(map[string]interface{})
			assert.Equal(t, true, media["is_main"])
			assert.Equal(t, "image", media["type"])
			assert.Contains(t, media["url"], "/uploads/images/")
		})
	}
}

func TestMediaController_SetMainAndDelete(t *testing.T) {
	router, testDB := setupMediaControllerTest(t)
	owner := createUser(t, testDB, "owner", model.UserTypeFarmer)
	stranger := createUser(t, testDB, "stranger", model.UserTypeFarmer)
	product := createProduct(t, testDB, owner)
	fields := map[string]string{"product_id": fmt.Sprint(product.ID)}

	var ids []uint
	for _, name := range []string{"bir.png", "iki.png"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, uploadRequest(t, tokenFor(t, owner), fields, name, pngBytes))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		media := decodeBody(t, w)["media"].(map[string]interface{})
		ids = append(ids, uint(media["id"].(float64)))
	}

	w := doRequest(router, "PUT", fmt.Sprintf("/media/%d/main", ids[1]), tokenFor(t, stranger), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, "PUT", fmt.Sprintf("/media/%d/main", ids[1]), tokenFor(t, owner), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "GET", fmt.Sprintf("/media/product/%d", product.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	response := decodeBody(t, w)
	assert.Equal(t, float64(2), response["count"])
	for _, item := range response["media"].([]interface{}) {
		media := item.(map[string]interface{})
		assert.Equal(t, media["id"] == float64(ids[1]), media["is_main"])
	}

	w = doRequest(router, "DELETE", fmt.Sprintf("/media/%d", ids[0]), tokenFor(t, owner), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "DELETE", fmt.Sprintf("/media/%d", ids[0]), tokenFor(t, owner), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.MediaNotFound, decodeBody(t, w)["error"])
}
