package recipe

import (
	"context"
	"fmt"
)

// TitleSource 取得使用者收藏的標題
type TitleSource interface {
	Titles(ctx context.Context, userID string) ([]string, error)
}

// Service 食譜服務：生成與依收藏推薦
type Service struct {
	generator *Generator
	favorites TitleSource
}

// NewService 創建新的食譜服務
func NewService(generator *Generator, favorites TitleSource) *Service {
	return &Service{
		generator: generator,
		favorites: favorites,
	}
}

// Generate 依食材生成食譜
func (s *Service) Generate(ctx context.Context, req GenerationRequest) (*Result, error) {
	return s.generator.FromIngredients(ctx, req)
}

// Recommend 讀取使用者收藏後生成推薦，沒有收藏時回傳驗證錯誤且不呼叫模型
func (s *Service) Recommend(ctx context.Context, userID string) (*Result, error) {
	titles, err := s.favorites.Titles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	return s.generator.FromFavorites(ctx, titles)
}
