package catalog

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo 記憶體版目錄
type MemoryRepo struct {
	mu      sync.RWMutex
	recipes []Recipe
}

// NewMemoryRepo 以初始資料創建目錄
func NewMemoryRepo(seed ...Recipe) *MemoryRepo {
	return &MemoryRepo{recipes: append([]Recipe{}, seed...)}
}

// Add 加入一筆食譜
func (r *MemoryRepo) Add(rec Recipe) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipes = append(r.recipes, rec)
}

// Recent 依建立時間由新到舊取出最多 limit 筆
func (r *MemoryRepo) Recent(ctx context.Context, limit int) ([]Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]Recipe, len(r.recipes))
	copy(out, r.recipes)
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
