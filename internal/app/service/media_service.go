package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/internal/app/repository"
	"github.com/ciftci/ciftci-backend/internal/storage"
	"github.com/ciftci/ciftci-backend/pkg/logger"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrMediaNotFound    = errors.New("media not found")
	ErrInvalidMediaType = errors.New("media type must be image or video")
	ErrInvalidFileType  = errors.New("file type is not allowed")
	ErrFileTooLarge     = errors.New("file exceeds the upload size limit")
	ErrEmptyFile        = errors.New("file is empty")
)

// sniffLen is how much of the upload is read for content detection
const sniffLen = 3072

var allowedExtensions = map[model.MediaType]map[string]bool{
	model.MediaTypeImage: {".jpg": true, ".jpeg": true, ".png": true, ".gif": true},
	model.MediaTypeVideo: {".mp4": true, ".avi": true, ".mov": true, ".wmv": true},
}

var mediaFolders = map[model.MediaType]string{
	model.MediaTypeImage: "images/products",
	model.MediaTypeVideo: "videos/products",
}

const thumbnailFolder = "images/products/thumbnails"

type UploadMediaInput struct {
	UserID    uint
	ProductID uint
	MediaType model.MediaType
	Filename  string
	Size      int64
	Content   io.Reader
}

type MediaService interface {
	GetProductMedia(productID uint) ([]model.Media, error)
	Upload(ctx context.Context, input UploadMediaInput) (*model.Media, error)
	SetMain(mediaID, userID uint) (*model.Media, error)
	DeleteMedia(ctx context.Context, mediaID, userID uint) error
}

type mediaService struct {
	mediaRepo   repository.MediaRepository
	productRepo repository.ProductRepository
	files       storage.FileStorage
	maxBytes    int64
}

func NewMediaService(
	mediaRepo repository.MediaRepository,
	productRepo repository.ProductRepository,
	files storage.FileStorage,
	maxUploadMB int64,
) MediaService {
	return &mediaService{
		mediaRepo:   mediaRepo,
		productRepo: productRepo,
		files:       files,
		maxBytes:    maxUploadMB << 20,
	}
}

func (s *mediaService) GetProductMedia(productID uint) ([]model.Media, error) {
	return s.mediaRepo.FindByProduct(productID)
}

// ownedProduct loads the product and checks userID owns it
func (s *mediaService) ownedProduct(productID, userID uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.UserID != userID {
		return nil, ErrProductForbidden
	}
	return product, nil
}

// ValidateUpload checks the declared type, extension and size of an upload
func ValidateUpload(mediaType model.MediaType, filename string, size, maxBytes int64) (string, error) {
	if !mediaType.Valid() {
		return "", ErrInvalidMediaType
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[mediaType][ext] {
		return "", ErrInvalidFileType
	}
	if size <= 0 {
		return "", ErrEmptyFile
	}
	if maxBytes > 0 && size > maxBytes {
		return "", ErrFileTooLarge
	}
	return ext, nil
}

// sniff detects the content type and returns a reader replaying the consumed header
func sniff(mediaType model.MediaType, r io.Reader) (string, io.Reader, error) {
	header := make([]byte, sniffLen)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, err
	}
	header = header[:n]

	detected := mimetype.Detect(header)
	if !strings.HasPrefix(detected.String(), string(mediaType)+"/") {
		logger.Warn("Upload content does not match declared type", map[string]interface{}{
			"declared": mediaType,
			"detected": detected.String(),
		})
		return "", nil, ErrInvalidFileType
	}
	return detected.String(), io.MultiReader(bytes.NewReader(header), r), nil
}

func (s *mediaService) Upload(ctx context.Context, input UploadMediaInput) (*model.Media, error) {
	ext, err := ValidateUpload(input.MediaType, input.Filename, input.Size, s.maxBytes)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedProduct(input.ProductID, input.UserID); err != nil {
		return nil, err
	}

	contentType, content, err := sniff(input.MediaType, input.Content)
	if err != nil {
		return nil, err
	}

	name := uuid.New().String()
	key := fmt.Sprintf("%s/%s%s", mediaFolders[input.MediaType], name, ext)

	url, err := s.files.Save(ctx, key, content, input.Size, contentType)
	if err != nil {
		logger.Error("Failed to store media file", err, map[string]interface{}{
			"product_id": input.ProductID,
			"key":        key,
		})
		return nil, err
	}

	media := &model.Media{
		ProductID:  input.ProductID,
		URL:        url,
		StorageKey: key,
		Type:       input.MediaType,
	}
	if input.MediaType == model.MediaTypeVideo {
		media.ThumbnailURL = s.files.URL(fmt.Sprintf("%s/thumb_%s.jpg", thumbnailFolder, name))
	}

	if err := s.mediaRepo.Create(media); err != nil {
		removeStoredFiles(ctx, s.files, []model.Media{*media})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	logger.Info("Media uploaded", map[string]interface{}{
		"media_id":     media.ID,
		"product_id":   media.ProductID,
		"content_type": contentType,
		"bytes":        input.Size,
	})
	return media, nil
}

func (s *mediaService) ownedMedia(mediaID, userID uint) (*model.Media, error) {
	media, err := s.mediaRepo.FindByID(mediaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}
	if _, err := s.ownedProduct(media.ProductID, userID); err != nil {
		return nil, err
	}
	return media, nil
}

func (s *mediaService) SetMain(mediaID, userID uint) (*model.Media, error) {
	media, err := s.ownedMedia(mediaID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.mediaRepo.SetMain(media.ProductID, media.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}
	media.IsMain = true
	return media, nil
}

func (s *mediaService) DeleteMedia(ctx context.Context, mediaID, userID uint) error {
	media, err := s.ownedMedia(mediaID, userID)
	if err != nil {
		return err
	}

	if err := s.mediaRepo.Delete(media); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMediaNotFound
		}
		return err
	}

	removeStoredFiles(ctx, s.files, []model.Media{*media})
	logger.Info("Media deleted", map[string]interface{}{
		"media_id":   media.ID,
		"product_id": media.ProductID,
	})
	return nil
}
