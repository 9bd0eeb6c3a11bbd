package permission

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hothanhtai16998/PhotoCloud-sub000/internal/models"
)

func setupCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute, zerolog.New(io.Discard)), server
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	snapshot := Snapshot{
		UserID:      42,
		Role:        models.RoleAdmin,
		Permissions: ApplyInheritance(models.RoleAdmin, map[string]bool{DeleteImages: true}),
		Active:      true,
		AllowedIPs:  []string{"10.0.0.5"},
	}
	require.NoError(t, cache.Set(ctx, snapshot))

	got, err := cache.Get(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, models.RoleAdmin, got.Role)
	require.True(t, got.Permissions[DeleteImages])
	require.True(t, got.Permissions[ViewUsers], "inherited permission survives the round trip")
}

func TestCacheMissReturnsNil(t *testing.T) {
	cache, _ := setupCache(t)

	got, err := cache.Get(context.Background(), 999)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestCacheInvalidateRemovesUserAndIPKeys(t *testing.T) {
	cache, server := setupCache(t)
	ctx := context.Background()

	snapshot := Snapshot{
		UserID:      7,
		Role:        models.RoleModerator,
		Permissions: map[string]bool{ViewImages: true},
		Active:      true,
		AllowedIPs:  []string{"192.168.1.10", "192.168.1.11"},
	}
	require.NoError(t, cache.Set(ctx, snapshot))
	require.True(t, server.Exists("perm:user:7"))
	require.True(t, server.Exists("perm:ip:192.168.1.10"))

	require.NoError(t, cache.Invalidate(ctx, 7, snapshot.AllowedIPs))
	require.False(t, server.Exists("perm:user:7"))
	require.False(t, server.Exists("perm:ip:192.168.1.10"))
	require.False(t, server.Exists("perm:ip:192.168.1.11"))
}

func TestCacheCorruptSnapshotTreatedAsMiss(t *testing.T) {
	cache, server := setupCache(t)

	require.NoError(t, server.Set("perm:user:5", "{not json"))
	got, err := cache.Get(context.Background(), 5)
	require.NoError(t, err)
	require.Nil(t, got)
	require.False(t, server.Exists("perm:user:5"), "corrupt entries are evicted")
}

func TestNilCacheIsSafe(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	got, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, got)
	require.NoError(t, cache.Set(ctx, Snapshot{UserID: 1}))
	require.NoError(t, cache.Invalidate(ctx, 1, nil))
}
