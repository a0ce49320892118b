package favorites

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipe-assistant/internal/core/recipe"
	"recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// RecommendationTitleLimit 推薦時最多帶入的收藏標題數
const RecommendationTitleLimit = 50

// Service 收藏服務
type Service struct {
	repo Repo
	now  func() time.Time
}

// NewService 創建收藏服務
func NewService(repo Repo) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Save 將生成的食譜存為收藏，標題空白時使用預設標題
func (s *Service) Save(ctx context.Context, userID string, r recipe.Recipe) (Favorite, error) {
	if strings.TrimSpace(userID) == "" {
		return Favorite{}, ErrMissingOwner
	}

	title := strings.TrimSpace(r.Title)
	if title == "" {
		title = recipe.PlaceholderTitle
	}

	favorite := Favorite{
		ID:          common.GenerateUUID(),
		UserID:      userID,
		Title:       title,
		Ingredients: nonNil(r.Ingredients),
		Steps:       nonNil(r.Steps),
		Difficulty:  strings.TrimSpace(r.Difficulty),
		Calories:    r.Calories,
		Protein:     r.Protein,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.repo.Create(ctx, favorite); err != nil {
		common.LogError("儲存收藏失敗",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("request_id", common.RequestIDFromContext(ctx)),
		)
		return Favorite{}, fmt.Errorf("save favorite: %w", err)
	}

	common.LogInfo("收藏已儲存",
		zap.String("favorite_id", favorite.ID),
		zap.String("user_id", userID),
	)
	return favorite, nil
}

// List 列出使用者的收藏
func (s *Service) List(ctx context.Context, userID string, limit int) ([]Favorite, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingOwner
	}
	favorites, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favorites, nil
}

// Titles 取出使用者最近的收藏標題，供推薦使用
func (s *Service) Titles(ctx context.Context, userID string) ([]string, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrMissingOwner
	}
	titles, err := s.repo.ListTitles(ctx, userID, RecommendationTitleLimit)
	if err != nil {
		return nil, fmt.Errorf("list favorite titles: %w", err)
	}
	return titles, nil
}
