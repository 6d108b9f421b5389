package service

import (
	"context"
	"errors"
	"time"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/internal/app/repository"
	"github.com/ciftci/ciftci-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	dashboardStatsCacheKey = "dashboard:stats"

	popularCategoriesLimit = 5
	latestProductsLimit    = 10
	topRatedFarmersLimit   = 5
	recentUsersLimit       = 10
	userDashboardListLimit = 5
	recentMessageExcerpt   = 50
)

// StatsCache is the subset of the redis store used for the global stats.
type StatsCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type DashboardStats struct {
	TotalUsers        int64                      `json:"total_users"`
	TotalFarmers      int64                      `json:"total_farmers"`
	TotalBuyers       int64                      `json:"total_buyers"`
	TotalProducts     int64                      `json:"total_products"`
	ActiveProducts    int64                      `json:"active_products"`
	PopularCategories []repository.CategoryCount `json:"popular_categories"`
	LatestProducts    []model.ProductSummary     `json:"latest_products"`
	TopRatedFarmers   []model.UserBasic          `json:"top_rated_farmers"`
	RecentUsers       []model.UserBasic          `json:"recent_users"`
}

type RecentMessage struct {
	ID         uint      `json:"id"`
	SenderID   uint      `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// UserDashboard holds the farmer block or the buyer block depending on UserType.
type UserDashboard struct {
	UserID   uint           `json:"user_id"`
	UserType model.UserType `json:"user_type"`

	TotalProducts               *int64                     `json:"total_products,omitempty"`
	ActiveProducts              *int64                     `json:"active_products,omitempty"`
	ReservedProducts            *int64                     `json:"reserved_products,omitempty"`
	SoldProducts                *int64                     `json:"sold_products,omitempty"`
	AverageRating               *float64                   `json:"average_rating,omitempty"`
	ReviewCount                 *int                       `json:"review_count,omitempty"`
	RecentMessages              []RecentMessage            `json:"recent_messages,omitempty"`
	RecentReviews               []model.ReviewView         `json:"recent_reviews,omitempty"`
	ProductCategoryDistribution []repository.CategoryCount `json:"product_category_distribution,omitempty"`

	SentMessageCount         *int64            `json:"sent_message_count,omitempty"`
	UniqueFarmersContacted   *int64            `json:"unique_farmers_contacted,omitempty"`
	RecentlyContactedFarmers []model.UserBasic `json:"recently_contacted_farmers,omitempty"`
}

type DashboardService interface {
	GetStats(ctx context.Context) (*DashboardStats, error)
	GetUserDashboard(userID uint) (*UserDashboard, error)
}

type dashboardService struct {
	dashboardRepo repository.DashboardRepository
	userRepo      repository.UserRepository
	productRepo   repository.ProductRepository
	messageRepo   repository.MessageRepository
	reviewRepo    repository.ReviewRepository
	cache         StatsCache
	cacheTTL      time.Duration
}

// NewDashboardService builds the service. cache may be nil to always compute
// the stats from the database.
func NewDashboardService(
	dashboardRepo repository.DashboardRepository,
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	messageRepo repository.MessageRepository,
	reviewRepo repository.ReviewRepository,
	cache StatsCache,
	cacheTTL time.Duration,
) DashboardService {
	return &dashboardService{
		dashboardRepo: dashboardRepo,
		userRepo:      userRepo,
		productRepo:   productRepo,
		messageRepo:   messageRepo,
		reviewRepo:    reviewRepo,
		cache:         cache,
		cacheTTL:      cacheTTL,
	}
}

func (s *dashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	if s.cache != nil {
		var cached DashboardStats
		found, err := s.cache.GetJSON(ctx, dashboardStatsCacheKey, &cached)
		if err != nil {
			logger.Warn("Dashboard stats cache read failed", map[string]interface{}{
				"error": err.Error(),
			})
		} else if found {
			logger.Debug("Dashboard stats served from cache")
			return &cached, nil
		}
	}

	stats, err := s.computeStats()
	if err != nil {
		logger.Error("Failed to compute dashboard stats", err)
		return nil, err
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.SetJSON(ctx, dashboardStatsCacheKey, stats, s.cacheTTL); err != nil {
			logger.Warn("Dashboard stats cache write failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return stats, nil
}

func (s *dashboardService) computeStats() (*DashboardStats, error) {
	farmer, buyer := model.UserTypeFarmer, model.UserTypeBuyer
	available := model.ProductStatusAvailable

	stats := &DashboardStats{}
	var err error

	if stats.TotalFarmers, err = s.dashboardRepo.CountUsers(&farmer); err != nil {
		return nil, err
	}
	if stats.TotalBuyers, err = s.dashboardRepo.CountUsers(&buyer); err != nil {
		return nil, err
	}
	if stats.TotalUsers, err = s.dashboardRepo.CountUsers(nil); err != nil {
		return nil, err
	}
	if stats.TotalProducts, err = s.dashboardRepo.CountProducts(nil); err != nil {
		return nil, err
	}
	if stats.ActiveProducts, err = s.dashboardRepo.CountProducts(&available); err != nil {
		return nil, err
	}
	if stats.PopularCategories, err = s.dashboardRepo.PopularCategories(popularCategoriesLimit); err != nil {
		return nil, err
	}
	if stats.LatestProducts, err = s.productRepo.ListLatest(latestProductsLimit); err != nil {
		return nil, err
	}

	farmers, err := s.dashboardRepo.TopRatedFarmers(topRatedFarmersLimit)
	if err != nil {
		return nil, err
	}
	stats.TopRatedFarmers = basics(farmers)

	recent, err := s.dashboardRepo.RecentUsers(recentUsersLimit)
	if err != nil {
		return nil, err
	}
	stats.RecentUsers = basics(recent)

	return stats, nil
}

func basics(users []model.User) []model.UserBasic {
	result := make([]model.UserBasic, 0, len(users))
	for i := range users {
		result = append(result, users[i].Basic())
	}
	return result
}

func (s *dashboardService) GetUserDashboard(userID uint) (*UserDashboard, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to load dashboard user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	dashboard := &UserDashboard{
		UserID:   user.ID,
		UserType: user.UserType,
	}

	if user.UserType == model.UserTypeFarmer {
		err = s.fillFarmer(dashboard, user)
	} else {
		err = s.fillBuyer(dashboard, user)
	}
	if err != nil {
		logger.Error("Failed to build user dashboard", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return dashboard, nil
}

func (s *dashboardService) fillFarmer(d *UserDashboard, user *model.User) error {
	counts, err := s.dashboardRepo.CountUserProductsByStatus(user.ID)
	if err != nil {
		return err
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	active := counts[model.ProductStatusAvailable]
	reserved := counts[model.ProductStatusReserved]
	sold := counts[model.ProductStatusSold]
	d.TotalProducts = &total
	d.ActiveProducts = &active
	d.ReservedProducts = &reserved
	d.SoldProducts = &sold

	rating := 0.0
	if user.Rating != nil {
		rating = *user.Rating
	}
	reviewCount := user.ReviewCount
	d.AverageRating = &rating
	d.ReviewCount = &reviewCount

	messages, err := s.messageRepo.RecentReceived(user.ID, userDashboardListLimit)
	if err != nil {
		return err
	}
	d.RecentMessages = make([]RecentMessage, 0, len(messages))
	for _, m := range messages {
		d.RecentMessages = append(d.RecentMessages, RecentMessage{
			ID:         m.ID,
			SenderID:   m.SenderID,
			SenderName: m.SenderName,
			Content:    excerpt(m.Content, recentMessageExcerpt),
			IsRead:     m.IsRead,
			CreatedAt:  m.CreatedAt,
		})
	}

	if d.RecentReviews, err = s.reviewRepo.ListViewsForUser(user.ID, userDashboardListLimit); err != nil {
		return err
	}
	d.ProductCategoryDistribution, err = s.dashboardRepo.UserCategoryDistribution(user.ID)
	return err
}

func (s *dashboardService) fillBuyer(d *UserDashboard, user *model.User) error {
	sent, err := s.messageRepo.CountSent(user.ID)
	if err != nil {
		return err
	}
	unique, err := s.messageRepo.CountDistinctReceivers(user.ID, model.UserTypeFarmer)
	if err != nil {
		return err
	}
	d.SentMessageCount = &sent
	d.UniqueFarmersContacted = &unique

	ids, err := s.messageRepo.RecentlyContacted(user.ID, model.UserTypeFarmer, userDashboardListLimit)
	if err != nil {
		return err
	}
	farmers, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return err
	}
	d.RecentlyContactedFarmers = make([]model.UserBasic, 0, len(ids))
	for _, id := range ids {
		if farmer, ok := farmers[id]; ok {
			d.RecentlyContactedFarmers = append(d.RecentlyContactedFarmers, farmer.Basic())
		}
	}
	return nil
}
