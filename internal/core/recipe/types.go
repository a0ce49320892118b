package recipe

// 每次生成要求的食譜數量
const (
	IngredientRecipeCount     = 3
	RecommendationRecipeCount = 5
)

// PlaceholderTitle 模型沒給標題時使用
const PlaceholderTitle = "Untitled Recipe"

// 使用者可見的驗證訊息
const (
	MsgEmptyIngredients = "Please enter some ingredients!"
	MsgNoFavorites      = "You have no favorite recipes to base recommendations on!"
)

// Mode 生成模式
type Mode string

const (
	ModeIngredients Mode = "ingredients"
	ModeFavorites   Mode = "favorites"
)

// Recipe 生成或收藏的食譜
type Recipe struct {
	Title            string   `json:"title"`
	Ingredients      []string `json:"ingredients"`
	Steps            []string `json:"steps"`
	Difficulty       string   `json:"difficulty"`
	Calories         float64  `json:"calories"`
	Protein          float64  `json:"protein"`
	ImageURL         string   `json:"image_url,omitempty"`
	FallbackImageURL string   `json:"fallback_image_url,omitempty"`
}

// GenerationRequest 依食材生成的請求，每次請求建立一次即丟棄
type GenerationRequest struct {
	Ingredients    string `json:"ingredients"`
	Diet           string `json:"diet,omitempty" binding:"omitempty,oneof=vegetarian vegan gluten-free keto"`
	Difficulty     string `json:"difficulty,omitempty" binding:"omitempty,oneof=easy medium hard"`
	MaxCookingTime int    `json:"max_cooking_time,omitempty" binding:"omitempty,gt=0"`
	Servings       int    `json:"servings,omitempty" binding:"omitempty,gt=0"`
}

// EffectiveServings 未指定時為 1 人份
func (r GenerationRequest) EffectiveServings() int {
	if r.Servings <= 0 {
		return 1
	}
	return r.Servings
}
