package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, maxSize int, ttl time.Duration) (*CacheManager, *time.Time) {
	t.Helper()
	m := NewManager(&config.CacheConfig{Enabled: true, Backend: "memory", MaxSize: maxSize, TTL: ttl})
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	t.Cleanup(func() { _ = m.Close() })
	return m, &now
}

func TestKey_NormalizesWhitespace(t *testing.T) {
	a := Key("gemini-2.5-flash", "Ingredients:  eggs,\n\trice")
	b := Key("gemini-2.5-flash", "Ingredients: eggs, rice")
	c := Key("other-model", "Ingredients: eggs, rice")

	assert.Equal(t, a, b)
	assert.NotEqual(t, b, c)
	assert.Contains(t, a, "ai:response:gemini-2.5-flash:")
}

func TestManager_SetGet(t *testing.T) {
	m, _ := newTestManager(t, 10, time.Minute)
	ctx := context.Background()

	_, err := m.Get(ctx, "k")
	assert.True(t, errors.Is(err, common.ErrCacheMiss))

	require.NoError(t, m.Set(ctx, "k", "v"))
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	stats := m.GetStats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
}

func TestManager_Expiry(t *testing.T) {
	m, now := newTestManager(t, 10, time.Minute)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v"))
	*now = now.Add(2 * time.Minute)

	_, err := m.Get(ctx, "k")
	assert.True(t, errors.Is(err, common.ErrCacheMiss))
	assert.Equal(t, 0, m.GetStats()["size"])
}

func TestManager_EvictsLeastUsedWhenFull(t *testing.T) {
	m, now := newTestManager(t, 2, time.Hour)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", "1"))
	*now = now.Add(time.Second)
	require.NoError(t, m.Set(ctx, "b", "2"))

	// a 被讀取過，b 應該被淘汰
	_, err := m.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "c", "3"))

	_, err = m.Get(ctx, "b")
	assert.True(t, errors.Is(err, common.ErrCacheMiss))
	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
	got, err = m.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "3", got)
}

func TestManager_OverwriteDoesNotEvict(t *testing.T) {
	m, _ := newTestManager(t, 1, time.Hour)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "a", "2"))

	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
}

func TestNew(t *testing.T) {
	store, err := New(&config.CacheConfig{Enabled: false}, &config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, store)

	store, err = New(&config.CacheConfig{Enabled: true, Backend: "memory", MaxSize: 1, TTL: time.Minute}, &config.RedisConfig{})
	require.NoError(t, err)
	require.NotNil(t, store)
	_, ok := store.(*CacheManager)
	assert.True(t, ok)
	require.NoError(t, store.Close())

	_, err = New(&config.CacheConfig{Enabled: true, Backend: "memcached"}, &config.RedisConfig{})
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	store, err := NewRedisStore(&config.CacheConfig{TTL: time.Minute}, &config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.PingContext(ctx))
	key := Key("test", time.Now().String())

	_, err = store.Get(ctx, key)
	assert.True(t, errors.Is(err, common.ErrCacheMiss))

	require.NoError(t, store.Set(ctx, key, "value"))
	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "value", got)
}
