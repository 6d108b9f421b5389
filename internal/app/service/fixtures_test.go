package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ciftci/ciftci-backend/internal/app/model"
	"github.com/ciftci/ciftci-backend/internal/app/repository"
	"github.com/ciftci/ciftci-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func createUser(t *testing.T, testDB *gorm.DB, name string, userType model.UserType) *model.User {
	t.Helper()
	user := &model.User{
		Name:         name,
		Email:        fmt.Sprintf("%s-%d@ciftci.app", name, time.Now().UnixNano()),
		PasswordHash: "hash",
		UserType:     userType,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createCategory(t *testing.T, testDB *gorm.DB, name string) *model.ProductCategory {
	t.Helper()
	category := &model.ProductCategory{Name: name}
	require.NoError(t, testDB.Create(category).Error)
	return category
}

func createSubCategory(t *testing.T, testDB *gorm.DB, name string, categoryID uint) *model.ProductSubCategory {
	t.Helper()
	sub := &model.ProductSubCategory{Name: name, CategoryID: categoryID}
	require.NoError(t, testDB.Omit("Category").Create(sub).Error)
	return sub
}

func createProduct(t *testing.T, testDB *gorm.DB, name string, owner *model.User, category *model.ProductCategory, status model.ProductStatus) *model.Product {
	t.Helper()
	product := &model.Product{
		UserID:       owner.ID,
		Name:         name,
		CategoryID:   category.ID,
		Quantity:     100,
		Unit:         "kg",
		PricePerUnit: 10,
		Status:       status,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func floatPtr(v float64) *float64 { return &v }

func uintPtr(v uint) *uint { return &v }

// fakePusher records websocket pushes
type fakePusher struct {
	mu     sync.Mutex
	pushed []pushedEvent
}

type pushedEvent struct {
	UserID    uint
	EventType string
	Data      interface{}
}

func (p *fakePusher) SendToUser(userID uint, eventType string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushed = append(p.pushed, pushedEvent{UserID: userID, EventType: eventType, Data: data})
	return nil
}

func (p *fakePusher) events() []pushedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]pushedEvent(nil), p.pushed...)
}

// memoryBlacklist is an in-process TokenBlacklist
type memoryBlacklist struct {
	mu  sync.Mutex
	ids map[string]time.Duration
}

func newMemoryBlacklist() *memoryBlacklist {
	return &memoryBlacklist{ids: make(map[string]time.Duration)}
}

func (b *memoryBlacklist) BlacklistToken(_ context.Context, tokenID string, expiry time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ids[tokenID] = expiry
	return nil
}

func (b *memoryBlacklist) IsTokenBlacklisted(_ context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.ids[tokenID]
	return ok, nil
}

var errNotificationWrite = errors.New("notification insert failed")

// failingNotificationRepo fails Create, inside or outside a transaction,
// while fail is set
type failingNotificationRepo struct {
	repository.NotificationRepository
	fail *bool
}

func newFailingNotificationRepo(inner repository.NotificationRepository) *failingNotificationRepo {
	fail := true
	return &failingNotificationRepo{NotificationRepository: inner, fail: &fail}
}

func (r *failingNotificationRepo) WithTx(tx *gorm.DB) repository.NotificationRepository {
	return &failingNotificationRepo{NotificationRepository: r.NotificationRepository.WithTx(tx), fail: r.fail}
}

func (r *failingNotificationRepo) Create(notification *model.Notification) error {
	if *r.fail {
		return errNotificationWrite
	}
	return r.NotificationRepository.Create(notification)
}
