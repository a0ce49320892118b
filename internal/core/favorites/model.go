package favorites

import (
	"errors"
	"time"
)

// 列表筆數限制
const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// ErrMissingOwner 儲存收藏必須有登入使用者
var ErrMissingOwner = errors.New("favorite owner is required")

// Favorite 使用者收藏的食譜
type Favorite struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Ingredients []string  `json:"ingredients"`
	Steps       []string  `json:"steps"`
	Difficulty  string    `json:"difficulty,omitempty"`
	Calories    float64   `json:"calories"`
	Protein     float64   `json:"protein"`
	CreatedAt   time.Time `json:"created_at"`
}
