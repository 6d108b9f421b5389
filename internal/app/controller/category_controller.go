package controller

import (
	"errors"
	"net/http"

	"github.com/ciftci/ciftci-backend/internal/app/service"
	apperrors "github.com/ciftci/ciftci-backend/internal/errors"
	"github.com/ciftci/ciftci-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description" binding:"max=200"`
	IconURL     string `json:"icon_url"`
}

type SubCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description" binding:"max=200"`
	CategoryID  uint   `json:"category_id" binding:"required"`
}

// GetCategories lists categories with their subcategories
// GET /api/v1/categories
func (ctrl *CategoryController) GetCategories(c *gin.Context) {
	categories, err := ctrl.categoryService.GetCategories()
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list categories", err)
		apperrors.InternalError(c, "Kategoriler getirilemedi")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// GetCategory returns one category with its subcategories
// GET /api/v1/categories/:id
func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	category, err := ctrl.categoryService.GetCategory(id)
	if err != nil {
		ctrl.respondError(c, err, "get category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
	})
}

// CreateCategory creates a category
// POST /api/v1/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid category request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Girilen kategori bilgileri geçersiz")
		return
	}

	category, err := ctrl.categoryService.CreateCategory(service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		IconURL:     req.IconURL,
	})
	if err != nil {
		ctrl.respondError(c, err, "create category")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Kategori oluşturuldu",
		"category": category,
	})
}

// UpdateCategory updates a category
// PUT /api/v1/categories/:id
func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Girilen kategori bilgileri geçersiz")
		return
	}

	category, err := ctrl.categoryService.UpdateCategory(id, service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		IconURL:     req.IconURL,
	})
	if err != nil {
		ctrl.respondError(c, err, "update category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Kategori güncellendi",
		"category": category,
	})
}

// DeleteCategory deletes a category and its subcategories
// DELETE /api/v1/categories/:id
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.categoryService.DeleteCategory(id); err != nil {
		ctrl.respondError(c, err, "delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Kategori silindi",
	})
}

// GetSubCategories lists every subcategory
// GET /api/v1/subcategories
func (ctrl *CategoryController) GetSubCategories(c *gin.Context) {
	subs, err := ctrl.categoryService.GetSubCategories()
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list subcategories", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subcategories": subs,
		"count":         len(subs),
	})
}

// GetSubCategory returns one subcategory
// GET /api/v1/subcategories/:id
func (ctrl *CategoryController) GetSubCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	sub, err := ctrl.categoryService.GetSubCategory(id)
	if err != nil {
		ctrl.respondError(c, err, "get subcategory")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subcategory": sub,
	})
}

// GetSubCategoriesByCategory lists the subcategories of a category
// GET /api/v1/categories/:id/subcategories
func (ctrl *CategoryController) GetSubCategoriesByCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	subs, err := ctrl.categoryService.GetSubCategoriesByCategory(id)
	if err != nil {
		ctrl.respondError(c, err, "list subcategories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subcategories": subs,
		"count":         len(subs),
	})
}

// CreateSubCategory creates a subcategory under an existing category
// POST /api/v1/subcategories
func (ctrl *CategoryController) CreateSubCategory(c *gin.Context) {
	var req SubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Girilen alt kategori bilgileri geçersiz")
		return
	}

	sub, err := ctrl.categoryService.CreateSubCategory(service.SubCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.BadRequest(c, apperrors.CategoryNotFound, "Kategori bulunamadı")
			return
		}
		ctrl.respondError(c, err, "create subcategory")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Alt kategori oluşturuldu",
		"subcategory": sub,
	})
}

// UpdateSubCategory updates a subcategory
// PUT /api/v1/subcategories/:id
func (ctrl *CategoryController) UpdateSubCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Girilen alt kategori bilgileri geçersiz")
		return
	}

	sub, err := ctrl.categoryService.UpdateSubCategory(id, service.SubCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.BadRequest(c, apperrors.CategoryNotFound, "Kategori bulunamadı")
			return
		}
		ctrl.respondError(c, err, "update subcategory")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Alt kategori güncellendi",
		"subcategory": sub,
	})
}

// DeleteSubCategory deletes a subcategory without products
// DELETE /api/v1/subcategories/:id
func (ctrl *CategoryController) DeleteSubCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.categoryService.DeleteSubCategory(id); err != nil {
		ctrl.respondError(c, err, "delete subcategory")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Alt kategori silindi",
	})
}

func (ctrl *CategoryController) respondError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		apperrors.NotFound(c, apperrors.CategoryNotFound, "Kategori bulunamadı")
	case errors.Is(err, service.ErrSubCategoryNotFound):
		apperrors.NotFound(c, apperrors.SubCategoryNotFound, "Alt kategori bulunamadı")
	case errors.Is(err, service.ErrCategoryInUse):
		apperrors.Conflict(c, apperrors.CategoryInUse, "Bu kategoriye ait ürünler var")
	case errors.Is(err, service.ErrSubCategoryInUse):
		apperrors.Conflict(c, apperrors.SubCategoryInUse, "Bu alt kategoriye ait ürünler var")
	default:
		middleware.GetLoggerFromContext(c).Error("Category operation failed", err, map[string]interface{}{
			"operation": context,
		})
		apperrors.ParseAndRespond(c, err, context)
	}
}
