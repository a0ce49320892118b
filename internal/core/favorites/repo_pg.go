package favorites

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PGRepo 以 Postgres 實作 Repo，清單欄位存為 JSONB
type PGRepo struct {
	DB *sql.DB
}

// Create 新增一筆收藏
func (r *PGRepo) Create(ctx context.Context, favorite Favorite) error {
	ingredients, err := json.Marshal(nonNil(favorite.Ingredients))
	if err != nil {
		return fmt.Errorf("encode ingredients: %w", err)
	}
	steps, err := json.Marshal(nonNil(favorite.Steps))
	if err != nil {
		return fmt.Errorf("encode steps: %w", err)
	}

	const query = `
INSERT INTO favorites (
    id, user_id, title, ingredients, steps, difficulty, calories, protein, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.DB.ExecContext(ctx, query,
		favorite.ID,
		favorite.UserID,
		favorite.Title,
		ingredients,
		steps,
		favorite.Difficulty,
		favorite.Calories,
		favorite.Protein,
		favorite.CreatedAt,
	)
	return err
}

// ListByUser 依建立時間由新到舊列出收藏
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Favorite, error) {
	const query = `
SELECT id, user_id, title, ingredients, steps, difficulty, calories, protein, created_at
FROM favorites
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, userID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Favorite{}
	for rows.Next() {
		var (
			favorite    Favorite
			ingredients []byte
			steps       []byte
		)
		if err := rows.Scan(
			&favorite.ID,
			&favorite.UserID,
			&favorite.Title,
			&ingredients,
			&steps,
			&favorite.Difficulty,
			&favorite.Calories,
			&favorite.Protein,
			&favorite.CreatedAt,
		); err != nil {
			return nil, err
		}
		if favorite.Ingredients, err = decodeList(ingredients); err != nil {
			return nil, fmt.Errorf("decode ingredients for %s: %w", favorite.ID, err)
		}
		if favorite.Steps, err = decodeList(steps); err != nil {
			return nil, fmt.Errorf("decode steps for %s: %w", favorite.ID, err)
		}
		out = append(out, favorite)
	}
	return out, rows.Err()
}

// ListTitles 依建立時間由新到舊列出收藏標題
func (r *PGRepo) ListTitles(ctx context.Context, userID string, limit int) ([]string, error) {
	const query = `
SELECT title
FROM favorites
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, userID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, err
		}
		out = append(out, title)
	}
	return out, rows.Err()
}

func decodeList(raw []byte) ([]string, error) {
	out := []string{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

var _ Repo = (*PGRepo)(nil)
