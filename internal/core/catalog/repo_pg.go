package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PGRepo 讀取 recipes 資料表
type PGRepo struct {
	DB *sql.DB
}

// Recent 依建立時間由新到舊取出最多 limit 筆
func (r *PGRepo) Recent(ctx context.Context, limit int) ([]Recipe, error) {
	const query = `
SELECT id, title, ingredients, steps, calories, difficulty, created_at
FROM recipes
ORDER BY created_at DESC
LIMIT $1`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Recipe{}
	for rows.Next() {
		var (
			rec         Recipe
			ingredients []byte
			steps       []byte
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.Title,
			&ingredients,
			&steps,
			&rec.Calories,
			&rec.Difficulty,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		if rec.Ingredients, err = decodeList(ingredients); err != nil {
			return nil, fmt.Errorf("decode ingredients for %s: %w", rec.ID, err)
		}
		if rec.Steps, err = decodeList(steps); err != nil {
			return nil, fmt.Errorf("decode steps for %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func decodeList(raw []byte) ([]string, error) {
	var out []string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, err
		}
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

var _ Repo = (*PGRepo)(nil)
