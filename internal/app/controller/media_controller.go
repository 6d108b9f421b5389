package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/internal/app/service"
	apperrors "github.com/ciftci/ciftci-backend/internal/errors"
	"github.com/ciftci/ciftci-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type MediaController struct {
	mediaService service.MediaService
}

func NewMediaController(mediaService service.MediaService) *MediaController {
	return &MediaController{mediaService: mediaService}
}

// GetProductMedia lists the media of a product in upload order
// GET /api/v1/media/product/:productId
func (ctrl *MediaController) GetProductMedia(c *gin.Context) {
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	media, err := ctrl.mediaService.GetProductMedia(productID)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list media", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"media": media,
		"count": len(media),
	})
}

// Upload stores a product image or video
// POST /api/v1/media/upload (multipart: file, product_id, media_type)
func (ctrl *MediaController) Upload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		log.Warn("Upload without file", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Yüklenecek dosya gerekli")
		return
	}

	productID, err := strconv.ParseUint(c.PostForm("product_id"), 10, 32)
	if err != nil || productID == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Geçersiz ürün kimliği")
		return
	}

	mediaType := model.MediaType(c.DefaultPostForm("media_type", string(model.MediaTypeImage)))

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", err, map[string]interface{}{
			"filename": fileHeader.Filename,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Dosya okunamadı")
		return
	}
	defer file.Close()

	media, err := ctrl.mediaService.Upload(c.Request.Context(), service.UploadMediaInput{
		UserID:    userID,
		ProductID: uint(productID),
		MediaType: mediaType,
		Filename:  fileHeader.Filename,
		Size:      fileHeader.Size,
		Content:   file,
	})
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	log.Info("Media uploaded", map[string]interface{}{
		"media_id":   media.ID,
		"product_id": media.ProductID,
		"user_id":    userID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"message": "Dosya yüklendi",
		"media":   media,
	})
}

// SetMain marks a media row as the product's main media
// PUT /api/v1/media/:id/main
func (ctrl *MediaController) SetMain(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	media, err := ctrl.mediaService.SetMain(id, userID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ana görsel güncellendi",
		"media":   media,
	})
}

// DeleteMedia deletes a media row and its stored file
// DELETE /api/v1/media/:id
func (ctrl *MediaController) DeleteMedia(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.mediaService.DeleteMedia(c.Request.Context(), id, userID); err != nil {
		ctrl.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Medya silindi",
	})
}

func (ctrl *MediaController) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFileTooLarge):
		apperrors.TooLarge(c, "Dosya boyutu sınırı aşıldı")
	case errors.Is(err, service.ErrInvalidFileType):
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Desteklenmeyen dosya türü")
	case errors.Is(err, service.ErrInvalidMediaType):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Medya türü image veya video olmalıdır")
	case errors.Is(err, service.ErrEmptyFile):
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Dosya boş")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Ürün bulunamadı")
	case errors.Is(err, service.ErrMediaNotFound):
		apperrors.NotFound(c, apperrors.MediaNotFound, "Medya bulunamadı")
	case errors.Is(err, service.ErrProductForbidden):
		apperrors.OwnerOnly(c)
	default:
		middleware.GetLoggerFromContext(c).Error("Media operation failed", err)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Dosya işlemi başarısız oldu")
	}
}
