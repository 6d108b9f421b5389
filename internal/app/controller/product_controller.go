package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/internal/app/service"
	apperrors "github.com/ciftci/ciftci-backend/internal/errors"
	"github.com/ciftci/ciftci-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

type CreateProductRequest struct {
	Name          string   `json:"name" binding:"required,max=100"`
	CategoryID    uint     `json:"category_id" binding:"required"`
	SubCategoryID *uint    `json:"sub_category_id"`
	Quantity      float64  `json:"quantity" binding:"required,gt=0"`
	Unit          string   `json:"unit" binding:"required,max=20"`
	PricePerUnit  float64  `json:"price_per_unit" binding:"min=0"`
	FieldSize     string   `json:"field_size" binding:"max=50"`
	LocationID    *uint    `json:"location_id"`
	Province      string   `json:"province" binding:"max=50"`
	District      string   `json:"district" binding:"max=50"`
	Village       string   `json:"village" binding:"max=100"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Description   string   `json:"description"`
	HarvestDate   string   `json:"harvest_date"`
}

type UpdateProductRequest struct {
	Name          string   `json:"name" binding:"max=100"`
	CategoryID    *uint    `json:"category_id"`
	SubCategoryID *uint    `json:"sub_category_id"`
	Quantity      *float64 `json:"quantity"`
	Unit          string   `json:"unit" binding:"max=20"`
	PricePerUnit  *float64 `json:"price_per_unit"`
	FieldSize     string   `json:"field_size" binding:"max=50"`
	Description   string   `json:"description"`
	HarvestDate   string   `json:"harvest_date"`
	Status        *string  `json:"status"`
}

// parseDate accepts a plain date or an RFC 3339 timestamp
func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetAvailableProducts lists products that are still for sale
// GET /api/v1/products
func (ctrl *ProductController) GetAvailableProducts(c *gin.Context) {
	products, err := ctrl.productService.GetAvailableProducts()
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list products", err)
		apperrors.InternalError(c, "Ürünler getirilemedi")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// queryParser collects the first malformed query parameter
type queryParser struct {
	c   *gin.Context
	bad string
}

func (p *queryParser) uintParam(key string) *uint {
	raw := p.c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		p.fail(key)
		return nil
	}
	out := uint(v)
	return &out
}

func (p *queryParser) intParam(key string) *int {
	return p.intParamDefault(key, nil)
}

func (p *queryParser) intParamDefault(key string, fallback *int) *int {
	raw := p.c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key)
		return nil
	}
	return &v
}

func (p *queryParser) floatParam(key string) *float64 {
	raw := p.c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key)
		return nil
	}
	return &v
}

func (p *queryParser) boolParam(key string) bool {
	return p.boolParamDefault(key, false)
}

// boolParamDefault returns fallback when key is absent
func (p *queryParser) boolParamDefault(key string, fallback bool) bool {
	raw := p.c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key)
		return fallback
	}
	return v
}

func (p *queryParser) dateParam(key string) *time.Time {
	t, err := parseDate(p.c.Query(key))
	if err != nil {
		p.fail(key)
		return nil
	}
	return t
}

func (p *queryParser) fail(key string) {
	if p.bad == "" {
		p.bad = key
	}
}

const (
	defaultFilterPage     = 1
	defaultFilterPageSize = 10
)

func intPtr(v int) *int { return &v }

// FilterProducts searches products by category, location, price, quantity, harvest date, distance and rating
// GET /api/v1/products/filter
func (ctrl *ProductController) FilterProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	p := &queryParser{c: c}
	filter := model.ProductFilter{
		CategoryID:     p.uintParam("category_id"),
		SubCategoryID:  p.uintParam("sub_category_id"),
		Province:       c.Query("province"),
		District:       c.Query("district"),
		Village:        c.Query("village"),
		MinPrice:       p.floatParam("min_price"),
		MaxPrice:       p.floatParam("max_price"),
		MinQuantity:    p.floatParam("min_quantity"),
		MinHarvestDate: p.dateParam("min_harvest_date"),
		MaxHarvestDate: p.dateParam("max_harvest_date"),
		Latitude:       p.floatParam("latitude"),
		Longitude:      p.floatParam("longitude"),
		Radius:         p.floatParam("radius"),
		MinRating:      p.floatParam("min_rating"),
		HasVideo:       p.boolParam("has_video"),
		OnlyAvailable:  p.boolParamDefault("only_available", true),
		SortBy:         c.Query("sort_by"),
		Page:           p.intParamDefault("page", intPtr(defaultFilterPage)),
		PageSize:       p.intParamDefault("page_size", intPtr(defaultFilterPageSize)),
	}
	if p.bad != "" {
		log.Warn("Invalid filter parameter", map[string]interface{}{
			"param": p.bad,
			"value": c.Query(p.bad),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, fmt.Sprintf("Geçersiz filtre değeri: %s", p.bad))
		return
	}

	products, err := ctrl.productService.FilterProducts(filter)
	if err != nil {
		log.Error("Failed to filter products", err)
		apperrors.InternalError(c, "Ürünler getirilemedi")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProductDetail returns a product with media, owner and location
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProductDetail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductDetail(id)
	if err != nil {
		ctrl.respondError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// GetProductsByUser lists every product of a user
// GET /api/v1/products/user/:userId
func (ctrl *ProductController) GetProductsByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	products, err := ctrl.productService.GetProductsByUser(userID)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list user products", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Ürünler getirilemedi")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// CreateProduct creates a listing owned by the current farmer
// POST /api/v1/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create product request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Girilen ürün bilgileri geçersiz")
		return
	}

	harvestDate, err := parseDate(req.HarvestDate)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Hasat tarihi YYYY-AA-GG biçiminde olmalıdır")
		return
	}

	product, err := ctrl.productService.CreateProduct(service.CreateProductInput{
		UserID:        userID,
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		SubCategoryID: req.SubCategoryID,
		Quantity:      req.Quantity,
		Unit:          req.Unit,
		PricePerUnit:  req.PricePerUnit,
		FieldSize:     req.FieldSize,
		LocationID:    req.LocationID,
		Province:      req.Province,
		District:      req.District,
		Village:       req.Village,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Description:   req.Description,
		HarvestDate:   harvestDate,
	})
	if err != nil {
		ctrl.respondError(c, err, 0)
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"user_id":    userID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"message": "Ürün oluşturuldu",
		"product": product,
	})
}

// UpdateProduct partially updates a product
// PUT /api/v1/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update product request", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Girilen ürün bilgileri geçersiz")
		return
	}

	harvestDate, err := parseDate(req.HarvestDate)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Hasat tarihi YYYY-AA-GG biçiminde olmalıdır")
		return
	}

	input := service.UpdateProductInput{
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		SubCategoryID: req.SubCategoryID,
		Quantity:      req.Quantity,
		Unit:          req.Unit,
		PricePerUnit:  req.PricePerUnit,
		FieldSize:     req.FieldSize,
		Description:   req.Description,
		HarvestDate:   harvestDate,
	}
	if req.Status != nil {
		status := model.ProductStatus(*req.Status)
		input.Status = &status
	}

	product, err := ctrl.productService.UpdateProduct(id, userID, input)
	if err != nil {
		ctrl.respondError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ürün güncellendi",
		"product": product,
	})
}

// DeleteProduct deletes a product and its media
// DELETE /api/v1/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(id, userID); err != nil {
		ctrl.respondError(c, err, id)
		return
	}

	middleware.GetLoggerFromContext(c).Info("Product deleted", map[string]interface{}{
		"product_id": id,
		"user_id":    userID,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "Ürün silindi",
	})
}

func (ctrl *ProductController) respondError(c *gin.Context, err error, productID uint) {
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Ürün bulunamadı")
	case errors.Is(err, service.ErrProductForbidden):
		apperrors.OwnerOnly(c)
	case errors.Is(err, service.ErrFarmerOnly):
		apperrors.FarmerOnly(c)
	case errors.Is(err, service.ErrCategoryNotFound):
		apperrors.BadRequest(c, apperrors.CategoryNotFound, "Kategori bulunamadı")
	case errors.Is(err, service.ErrSubCategoryNotFound):
		apperrors.BadRequest(c, apperrors.SubCategoryNotFound, "Alt kategori bulunamadı")
	case errors.Is(err, service.ErrSubCategoryMismatch):
		apperrors.BadRequest(c, apperrors.SubCategoryMismatch, "Alt kategori seçilen kategoriye ait değil")
	case errors.Is(err, service.ErrLocationNotFound):
		apperrors.BadRequest(c, apperrors.LocationNotFound, "Konum bulunamadı")
	case errors.Is(err, service.ErrInvalidProductStatus):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Ürün durumu available, reserved veya sold olmalıdır")
	case errors.Is(err, service.ErrInvalidProductInput):
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Miktar pozitif, fiyat negatif olmayan bir değer olmalıdır")
	case errors.Is(err, service.ErrUserNotFound):
		apperrors.NotFound(c, apperrors.UserNotFound, "Kullanıcı bulunamadı")
	default:
		middleware.GetLoggerFromContext(c).Error("Product operation failed", err, map[string]interface{}{
			"product_id": productID,
		})
		apperrors.ParseAndRespond(c, err, "product")
	}
}
