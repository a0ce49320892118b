package image

import (
	"net/url"
	"strings"

	"recipe-assistant/internal/infrastructure/config"
)

// 取前幾個食材作為圖庫關鍵字
const keywordIngredients = 3

// FallbackImages 圖庫查不到時依序輪替的固定圖片
var FallbackImages = []string{
	"https://images.unsplash.com/photo-1504674900247-0877df9cc836?q=80&w=800&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1512621776951-a57141f2eefd?q=80&w=800&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1523986371872-9d3ba2e2f642?q=80&w=800&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1496412705862-e0088f16f791?q=80&w=800&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1512058564366-18510be2db19?q=80&w=800&auto=format&fit=crop",
}

// Service 以關鍵字組出圖庫圖片連結，不下載也不保存圖片
type Service struct {
	searchURL string
	size      string
	fallbacks []string
}

// NewService 創建圖片連結服務
func NewService(cfg *config.ImageConfig) *Service {
	return &Service{
		searchURL: strings.TrimRight(cfg.SearchURL, "/"),
		size:      cfg.Size,
		fallbacks: FallbackImages,
	}
}

// Link 回傳食譜的圖庫查詢連結與備用圖片
func (s *Service) Link(title string, ingredients []string, index int) (string, string) {
	return s.SearchURL(title, ingredients), s.Fallback(index)
}

// SearchURL 以標題與前三項食材組出查詢連結
func (s *Service) SearchURL(title string, ingredients []string) string {
	name := strings.ToLower(strings.TrimSpace(title))
	if name == "" {
		name = "recipe"
	}

	top := ingredients
	if len(top) > keywordIngredients {
		top = top[:keywordIngredients]
	}

	query := name + ", " + strings.Join(top, ", ") + ", plated dish, food photography, high detail"
	return s.searchURL + "/" + s.size + "?" + encodeComponent(query)
}

// Fallback 依位置輪替備用圖片
func (s *Service) Fallback(index int) string {
	if len(s.fallbacks) == 0 {
		return ""
	}
	if index < 0 {
		index = -index
	}
	return s.fallbacks[index%len(s.fallbacks)]
}

// encodeComponent 空白編成 %20 而不是 +
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
