package favorites

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo 記憶體版收藏儲存，未設定 DATABASE_URL 時使用
type MemoryRepo struct {
	mu     sync.RWMutex
	byUser map[string][]Favorite
}

// NewMemoryRepo 創建記憶體儲存
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: make(map[string][]Favorite)}
}

// Create 新增收藏
func (r *MemoryRepo) Create(ctx context.Context, favorite Favorite) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	favorite.Ingredients = append([]string{}, favorite.Ingredients...)
	favorite.Steps = append([]string{}, favorite.Steps...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser[favorite.UserID] = append(r.byUser[favorite.UserID], favorite)
	return nil
}

// ListByUser 由新到舊列出收藏
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Favorite, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	stored := r.byUser[userID]
	out := make([]Favorite, len(stored))
	copy(out, stored)
	r.mu.RUnlock()

	// 同一時間建立的依新增順序倒序
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit = clampLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListTitles 由新到舊列出標題
func (r *MemoryRepo) ListTitles(ctx context.Context, userID string, limit int) ([]string, error) {
	favorites, err := r.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(favorites))
	for _, f := range favorites {
		titles = append(titles, f.Title)
	}
	return titles, nil
}

var _ Repo = (*MemoryRepo)(nil)
