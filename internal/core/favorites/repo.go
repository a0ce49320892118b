package favorites

import "context"

// Repo 收藏的持久化操作，只新增不修改
type Repo interface {
	Create(ctx context.Context, favorite Favorite) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Favorite, error)
	ListTitles(ctx context.Context, userID string, limit int) ([]string, error)
}
