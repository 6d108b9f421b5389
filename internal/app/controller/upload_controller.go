package controller

import (
	"net/http"
	"strings"

	apperrors "github.com/ciftci/ciftci-backend/internal/errors"
	"github.com/ciftci/ciftci-backend/internal/storage"
	"github.com/ciftci/ciftci-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const profileImageFolder = "images/profiles"

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

type UploadController struct {
	presigner storage.Presigner
}

// NewUploadController takes the storage backend; presigning is only offered when it supports direct uploads
func NewUploadController(files storage.FileStorage) *UploadController {
	presigner, _ := files.(storage.Presigner)
	return &UploadController{
		presigner: presigner,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// GeneratePresignedURL issues a direct upload URL for a profile image
// POST /api/v1/upload/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	if ctrl.presigner == nil {
		apperrors.RespondWithError(c, http.StatusNotImplemented, apperrors.UploadFailed, "Doğrudan yükleme bu sunucuda desteklenmiyor")
		return
	}

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Dosya adı ve içerik türü gerekli")
		return
	}

	contentType := strings.ToLower(req.ContentType)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		logger.Warn("Invalid content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Yalnızca JPEG, PNG ve GIF dosyaları yüklenebilir")
		return
	}

	key := profileImageFolder + "/" + uuid.NewString() + ext

	response, err := ctrl.presigner.PresignUpload(c.Request.Context(), key, contentType)
	if err != nil {
		logger.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.InternalExternalAPI, "Yükleme adresi oluşturulamadı")
		return
	}

	logger.Info("Presigned URL generated successfully", map[string]interface{}{
		"filename": req.Filename,
		"key":      response.Key,
	})

	c.JSON(http.StatusOK, response)
}
