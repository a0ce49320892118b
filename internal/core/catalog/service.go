package catalog

import (
	"context"
	"fmt"

	"recipe-assistant/internal/infrastructure/config"
)

// Service 熱門食譜目錄
type Service struct {
	repo         Repo
	defaultLimit int
	maxLimit     int
}

// NewService 創建目錄服務
func NewService(repo Repo, cfg *config.CatalogConfig) *Service {
	return &Service{
		repo:         repo,
		defaultLimit: cfg.DefaultLimit,
		maxLimit:     cfg.MaxLimit,
	}
}

// Top 取出最新的食譜，limit <= 0 用預設值，超過上限時截斷
func (s *Service) Top(ctx context.Context, limit int) ([]Recipe, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	recipes, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list catalog recipes: %w", err)
	}
	return recipes, nil
}
