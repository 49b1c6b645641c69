package cache

import (
	"context"
	"testing"
	"time"

	"smart-fridge/internal/infrastructure/config"
	"smart-fridge/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cacheConfig() *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			Enabled:         true,
			MaxSize:         2,
			TTL:             time.Hour,
			CleanupInterval: time.Minute,
		},
	}
}

func TestManagerDisabledIsNilSafe(t *testing.T) {
	cfg := cacheConfig()
	cfg.Cache.Enabled = false

	m := NewManager(cfg)
	require.Nil(t, m)

	// 停用狀態下所有操作都必須安全
	_, err := m.Get(context.Background(), "p", "img")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
	assert.NoError(t, m.Set(context.Background(), "p", "img", "v"))
	assert.Equal(t, false, m.GetStats()["enabled"])
	assert.NoError(t, m.Close())
}

func TestManagerSetGet(t *testing.T) {
	m := NewManager(cacheConfig())
	defer m.Close()
	ctx := context.Background()

	_, err := m.Get(ctx, "prompt", "image-a")
	assert.ErrorIs(t, err, common.ErrCacheMiss)

	require.NoError(t, m.Set(ctx, "prompt", "image-a", "result-a"))

	got, err := m.Get(ctx, "prompt", "image-a")
	require.NoError(t, err)
	assert.Equal(t, "result-a", got)

	// 圖片不同就不命中
	_, err = m.Get(ctx, "prompt", "image-b")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
}

func TestManagerExpiry(t *testing.T) {
	cfg := cacheConfig()
	cfg.Cache.TTL = 10 * time.Millisecond

	m := NewManager(cfg)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "prompt", "image", "value"))
	time.Sleep(20 * time.Millisecond)

	_, err := m.Get(ctx, "prompt", "image")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
}

func TestManagerEvictsWhenFull(t *testing.T) {
	m := NewManager(cacheConfig())
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "prompt", "image-1", "v1"))
	require.NoError(t, m.Set(ctx, "prompt", "image-2", "v2"))

	// 容量滿時 LRU 淘汰讓出空間，寫入不報錯
	require.NoError(t, m.Set(ctx, "prompt", "image-3", "v3"))
	assert.Equal(t, 2, m.GetStats()["size"])
}

func TestManagerCloseStopsCleanup(t *testing.T) {
	m := NewManager(cacheConfig())
	require.NoError(t, m.Close())

	// Close 後停止信號已送出，清理協程會退出
	select {
	case <-m.done:
	default:
		t.Fatal("done channel should be closed after Close")
	}
}
