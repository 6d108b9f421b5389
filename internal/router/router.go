package router

import (
	"path/filepath"
	"strings"

	"github.com/ciftci/ciftci-backend/config"
	"github.com/ciftci/ciftci-backend/internal/app/controller"
	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController         *controller.AuthController
	userController         *controller.UserController
	locationController     *controller.LocationController
	categoryController     *controller.CategoryController
	productController      *controller.ProductController
	mediaController        *controller.MediaController
	messageController      *controller.MessageController
	notificationController *controller.NotificationController
	reviewController       *controller.ReviewController
	dashboardController    *controller.DashboardController
	uploadController       *controller.UploadController
	websocketController    *controller.WebSocketController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	locationController *controller.LocationController,
	categoryController *controller.CategoryController,
	productController *controller.ProductController,
	mediaController *controller.MediaController,
	messageController *controller.MessageController,
	notificationController *controller.NotificationController,
	reviewController *controller.ReviewController,
	dashboardController *controller.DashboardController,
	uploadController *controller.UploadController,
	websocketController *controller.WebSocketController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		userController:         userController,
		locationController:     locationController,
		categoryController:     categoryController,
		productController:      productController,
		mediaController:        mediaController,
		messageController:      messageController,
		notificationController: notificationController,
		reviewController:       reviewController,
		dashboardController:    dashboardController,
		uploadController:       uploadController,
		websocketController:    websocketController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Çiftçi API is running",
		})
	})

	// Uploaded media is served from disk unless it lives in S3
	if r.config.Storage.Driver == "" || r.config.Storage.Driver == "local" {
		prefix := strings.TrimSuffix(r.config.Storage.PublicPrefix, "/")
		for _, folder := range []string{"images", "videos"} {
			router.Static(prefix+"/"+folder, filepath.Join(r.config.Storage.LocalRoot, folder))
		}
	}

	router.GET("/ws", r.authMiddleware.Authenticate(), r.websocketController.Connect)

	auth := r.authMiddleware.Authenticate()
	farmerOnly := r.authMiddleware.RequireRole(model.UserTypeFarmer)

	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", r.authController.Register)
			authGroup.POST("/login", r.authController.Login)
			authGroup.POST("/refresh", r.authController.RefreshToken)
			authGroup.POST("/logout", auth, r.authController.Logout)
			authGroup.GET("/me", auth, r.authController.GetMe)
		}

		users := v1.Group("/users")
		{
			users.GET("", r.userController.ListUsers)
			users.GET("/farmers", r.userController.ListFarmers)
			users.GET("/buyers", r.userController.ListBuyers)
			users.PUT("/me", auth, r.userController.UpdateMe)
			users.GET("/:id", r.userController.GetUser)
		}

		locations := v1.Group("/locations")
		{
			locations.GET("", r.locationController.GetLocations)
			locations.GET("/provinces", r.locationController.GetProvinces)
			locations.GET("/districts/:province", r.locationController.GetDistricts)
			locations.GET("/villages/:province/:district", r.locationController.GetVillages)
			locations.GET("/search", r.locationController.Search)
			locations.GET("/:id", r.locationController.GetLocation)
			locations.POST("", auth, r.locationController.CreateLocation)
			locations.PUT("/:id", auth, r.locationController.UpdateLocation)
			locations.DELETE("/:id", auth, r.locationController.DeleteLocation)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.GetCategories)
			categories.GET("/:id", r.categoryController.GetCategory)
			categories.GET("/:id/subcategories", r.categoryController.GetSubCategoriesByCategory)
			categories.POST("", auth, r.categoryController.CreateCategory)
			categories.PUT("/:id", auth, r.categoryController.UpdateCategory)
			categories.DELETE("/:id", auth, r.categoryController.DeleteCategory)
		}

		subcategories := v1.Group("/subcategories")
		{
			subcategories.GET("", r.categoryController.GetSubCategories)
			subcategories.GET("/:id", r.categoryController.GetSubCategory)
			subcategories.POST("", auth, r.categoryController.CreateSubCategory)
			subcategories.PUT("/:id", auth, r.categoryController.UpdateSubCategory)
			subcategories.DELETE("/:id", auth, r.categoryController.DeleteSubCategory)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.GetAvailableProducts)
			products.GET("/filter", r.productController.FilterProducts)
			products.GET("/user/:userId", r.productController.GetProductsByUser)
			products.GET("/:id", r.productController.GetProductDetail)

			products.POST("", auth, farmerOnly, r.productController.CreateProduct)
			products.PUT("/:id", auth, r.productController.UpdateProduct)
			products.DELETE("/:id", auth, r.productController.DeleteProduct)
		}

		media := v1.Group("/media")
		{
			media.GET("/product/:productId", r.mediaController.GetProductMedia)
			media.POST("/upload", auth, r.mediaController.Upload)
			media.PUT("/:id/main", auth, r.mediaController.SetMain)
			media.DELETE("/:id", auth, r.mediaController.DeleteMedia)
		}

		messages := v1.Group("/messages")
		messages.Use(auth)
		{
			messages.GET("/conversations", r.messageController.GetConversations)
			messages.GET("/conversation/:otherUserId", r.messageController.GetConversation)
			messages.GET("/unread-count", r.messageController.GetUnreadCount)
			messages.POST("", r.messageController.SendMessage)
			messages.PUT("/read-all/:senderId", r.messageController.MarkAllAsRead)
			messages.PUT("/:id/read", r.messageController.MarkAsRead)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(auth)
		{
			notifications.GET("", r.notificationController.GetNotifications)
			notifications.GET("/unread-count", r.notificationController.GetUnreadCount)
			notifications.PUT("/read-all", r.notificationController.MarkAllAsRead)
			notifications.PUT("/:id/read", r.notificationController.MarkAsRead)
			notifications.DELETE("/:id", r.notificationController.DeleteNotification)
		}

		reviews := v1.Group("/reviews")
		{
			reviews.GET("", r.reviewController.GetReviews)
			reviews.GET("/user/:userId", r.reviewController.GetUserReviews)
			reviews.GET("/:id", r.reviewController.GetReview)
			reviews.POST("", auth, r.reviewController.CreateReview)
		}

		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/stats", r.dashboardController.GetStats)
			dashboard.GET("/users/:id", r.dashboardController.GetUserDashboard)
		}

		upload := v1.Group("/upload")
		upload.Use(auth)
		{
			upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
