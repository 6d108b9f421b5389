package app

import (
	"github.com/ciftci/ciftci-backend/config"
	"github.com/ciftci/ciftci-backend/internal/app/controller"
	"github.com/ciftci/ciftci-backend/internal/app/repository"
	"github.com/ciftci/ciftci-backend/internal/app/service"
	"github.com/ciftci/ciftci-backend/internal/middleware"
	"github.com/ciftci/ciftci-backend/internal/router"
	"github.com/ciftci/ciftci-backend/internal/storage"
	ws "github.com/ciftci/ciftci-backend/internal/websocket"
	"github.com/ciftci/ciftci-backend/pkg/redis"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Application is the wired HTTP engine plus the services the scheduler drives
type Application struct {
	Engine        *gin.Engine
	Reviews       service.ReviewService
	Notifications service.NotificationService
}

// New wires repositories, services, controllers and routes. store may be nil
// when Redis is disabled; logout revocation and the stats cache are then off.
func New(cfg *config.Config, db *gorm.DB, files storage.FileStorage, hub *ws.Hub, store *redis.Store) *Application {
	var (
		blacklist service.TokenBlacklist
		revoked   middleware.TokenRevocationChecker
		cache     service.StatsCache
	)
	if store != nil {
		blacklist = store
		revoked = store
		cache = store
	}

	var pusher service.Pusher
	if hub != nil {
		pusher = hub
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	// Services
	authService := service.NewAuthService(
		db,
		userRepo,
		locationRepo,
		blacklist,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	userService := service.NewUserService(userRepo)
	locationService := service.NewLocationService(db, locationRepo, userRepo, productRepo)
	categoryService := service.NewCategoryService(db, categoryRepo, productRepo)
	productService := service.NewProductService(db, productRepo, userRepo, categoryRepo, locationRepo, mediaRepo, files)
	mediaService := service.NewMediaService(mediaRepo, productRepo, files, cfg.Storage.MaxUploadMB)
	notificationService := service.NewNotificationService(notificationRepo, pusher)
	reviewService := service.NewReviewService(db, reviewRepo, userRepo, notificationRepo, notificationService)
	messageService := service.NewMessageService(db, messageRepo, userRepo, productRepo, notificationRepo, notificationService)
	dashboardService := service.NewDashboardService(
		dashboardRepo,
		userRepo,
		productRepo,
		messageRepo,
		reviewRepo,
		cache,
		cfg.Redis.DashboardCacheTTL,
	)

	// Controllers
	r := router.NewRouter(
		controller.NewAuthController(authService, userService),
		controller.NewUserController(userService),
		controller.NewLocationController(locationService),
		controller.NewCategoryController(categoryService),
		controller.NewProductController(productService),
		controller.NewMediaController(mediaService),
		controller.NewMessageController(messageService),
		controller.NewNotificationController(notificationService),
		controller.NewReviewController(reviewService),
		controller.NewDashboardController(dashboardService),
		controller.NewUploadController(files),
		controller.NewWebSocketController(hub, cfg.CORS.AllowedOrigins),
		middleware.NewAuthMiddleware(cfg.JWT.Secret, revoked),
		cfg,
	)

	return &Application{
		Engine:        r.Setup(),
		Reviews:       reviewService,
		Notifications: notificationService,
	}
}
