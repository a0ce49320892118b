package catalog

import "context"

// Repo 唯讀的食譜目錄
type Repo interface {
	Recent(ctx context.Context, limit int) ([]Recipe, error)
}
