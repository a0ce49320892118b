package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"recipe-assistant/internal/core/ai/cache"
	"recipe-assistant/internal/core/ai/provider"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	content string
	err     error
	calls   int
	last    *provider.Request
}

func (f *fakeProvider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &provider.Response{Content: f.content}, nil
}

func (f *fakeProvider) GetModel() string          { return "fake-model" }
func (f *fakeProvider) GetTimeout() time.Duration { return time.Second }
func (f *fakeProvider) Close() error              { return nil }

type brokenStore struct{}

func (brokenStore) Get(ctx context.Context, key string) (string, error) {
	return "", errors.New("connection refused")
}
func (brokenStore) Set(ctx context.Context, key, value string) error {
	return errors.New("connection refused")
}
func (brokenStore) Close() error { return nil }

var geminiCfg = &config.GeminiConfig{MaxOutputTokens: 2048, Temperature: 0.8}

func TestProcessRequest_NoCache(t *testing.T) {
	p := &fakeProvider{content: "[]"}
	svc := NewService(geminiCfg, p, nil)

	resp, err := svc.ProcessRequest(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "[]", resp.Content)
	assert.Equal(t, "fake-model", resp.Model)
	assert.False(t, resp.CacheHit)

	_, err = svc.ProcessRequest(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, 2, p.calls)
	assert.Equal(t, 2048, p.last.MaxTokens)
	assert.InDelta(t, 0.8, p.last.Temperature, 1e-9)
}

func TestProcessRequest_CacheHit(t *testing.T) {
	p := &fakeProvider{content: `[{"title":"Soup"}]`}
	store := cache.NewManager(&config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Minute})
	svc := NewService(geminiCfg, p, store)
	defer svc.Close()

	first, err := svc.ProcessRequest(context.Background(), "prompt")
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := svc.ProcessRequest(context.Background(), "prompt")
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Content, second.Content)
	assert.Equal(t, 1, p.calls)
}

func TestProcessRequest_CacheFailureFallsThrough(t *testing.T) {
	p := &fakeProvider{content: "[]"}
	svc := NewService(geminiCfg, p, brokenStore{})

	resp, err := svc.ProcessRequest(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "[]", resp.Content)
	assert.Equal(t, 1, p.calls)
}

func TestProcessRequest_ProviderError(t *testing.T) {
	p := &fakeProvider{err: common.NewGenerationFailed(errors.New("quota"))}
	store := cache.NewManager(&config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Minute})
	svc := NewService(geminiCfg, p, store)
	defer svc.Close()

	_, err := svc.ProcessRequest(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrGenerationFailed))

	// 失敗結果不寫入快取
	_, err = store.Get(context.Background(), cache.Key("fake-model", "prompt"))
	assert.True(t, errors.Is(err, common.ErrCacheMiss))
}
