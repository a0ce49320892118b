package service

import (
	"context"
	"errors"
	"time"

	"recipe-assistant/internal/core/ai/cache"
	"recipe-assistant/internal/core/ai/provider"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/infrastructure/metrics"
	"recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// Response AI 回應結構
type Response struct {
	Content  string
	Model    string
	CacheHit bool
	Usage    provider.Usage
}

// Service AI 服務：可選快取 + 單次模型呼叫
type Service struct {
	provider    provider.Provider
	cache       cache.Store
	maxTokens   int
	temperature float64
}

// NewService 創建 AI 服務，store 為 nil 時不使用快取
func NewService(cfg *config.GeminiConfig, p provider.Provider, store cache.Store) *Service {
	return &Service{
		provider:    p,
		cache:       store,
		maxTokens:   cfg.MaxOutputTokens,
		temperature: cfg.Temperature,
	}
}

// Model 目前使用的模型
func (s *Service) Model() string {
	return s.provider.GetModel()
}

// ProcessRequest 送出提示詞並取回原始文字
func (s *Service) ProcessRequest(ctx context.Context, prompt string) (*Response, error) {
	model := s.provider.GetModel()
	requestID := common.RequestIDFromContext(ctx)

	var key string
	if s.cache != nil {
		key = cache.Key(model, prompt)
		val, err := s.cache.Get(ctx, key)
		switch {
		case err == nil && val != "":
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return &Response{Content: val, Model: model, CacheHit: true}, nil
		case err != nil && !errors.Is(err, common.ErrCacheMiss):
			// 快取故障不影響生成
			common.LogWarn("快取讀取失敗", zap.Error(err), zap.String("request_id", requestID))
			metrics.CacheLookups.WithLabelValues("error").Inc()
		default:
			metrics.CacheLookups.WithLabelValues("miss").Inc()
		}
	}

	start := time.Now()
	resp, err := s.provider.Generate(ctx, &provider.Request{
		Prompt:      prompt,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	duration := time.Since(start)
	common.LogAICall(model, duration, err, requestID)
	metrics.ModelCallDuration.WithLabelValues(model).Observe(duration.Seconds())
	if err != nil {
		metrics.ModelCalls.WithLabelValues(model, "error").Inc()
		return nil, err
	}
	metrics.ModelCalls.WithLabelValues(model, "ok").Inc()

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp.Content); err != nil {
			common.LogWarn("快取寫入失敗", zap.Error(err), zap.String("request_id", requestID))
		}
	}

	return &Response{Content: resp.Content, Model: model, Usage: resp.Usage}, nil
}

// Close 釋放資源
func (s *Service) Close() error {
	var errs []error
	if s.cache != nil {
		errs = append(errs, s.cache.Close())
	}
	errs = append(errs, s.provider.Close())
	return errors.Join(errs...)
}
