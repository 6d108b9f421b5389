//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(ctx).Err())

	return NewStore(rdb)
}

func TestStore_Blacklist(t *testing.T) {
	store := setupRedis(t)
	ctx := context.Background()

	revoked, err := store.IsTokenBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.BlacklistToken(ctx, "jti-1", time.Minute))

	revoked, err = store.IsTokenBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, store.BlacklistToken(ctx, "jti-2", 0))
	revoked, err = store.IsTokenBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestStore_JSONCache(t *testing.T) {
	store := setupRedis(t)
	ctx := context.Background()

	type stats struct {
		TotalUsers int64 `json:"total_users"`
	}

	var got stats
	hit, err := store.GetJSON(ctx, "dashboard:stats", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, store.SetJSON(ctx, "dashboard:stats", stats{TotalUsers: 12}, time.Minute))

	hit, err = store.GetJSON(ctx, "dashboard:stats", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(12), got.TotalUsers)

	require.NoError(t, store.Delete(ctx, "dashboard:stats"))
	hit, err = store.GetJSON(ctx, "dashboard:stats", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
