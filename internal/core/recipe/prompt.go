package recipe

import (
	"fmt"
	"strconv"
	"strings"

	"recipe-assistant/internal/pkg/common"
)

// 模型輸出格式範例，兩種模式共用
const jsonShapeExample = `[
  {
    "title": "Recipe Title",
    "ingredients": ["2 eggs", "1 cup rice"],
    "steps": ["Step one", "Step two"],
    "difficulty": "easy",
    "calories": 250,
    "protein": 12
  }
]`

const outputRules = `Return ONLY a strict JSON array of recipe objects, with no markdown, comments, or extra text.
Use exactly these field names: "title", "ingredients", "steps", "difficulty", "calories", "protein".
"ingredients" and "steps" must be arrays of strings. "calories" (kcal) and "protein" (grams) must be numbers.
Example:
`

// BuildIngredientPrompt 依食材與篩選條件組出提示詞，食材為空時回傳驗證錯誤
func BuildIngredientPrompt(req GenerationRequest) (string, error) {
	ingredients := strings.TrimSpace(req.Ingredients)
	if ingredients == "" {
		return "", common.NewValidationError(MsgEmptyIngredients)
	}

	servings := req.EffectiveServings()

	var b strings.Builder
	b.WriteString("You are a recipe assistant.\n")
	fmt.Fprintf(&b, "Based on the ingredients: [%s]\n", ingredients)
	fmt.Fprintf(&b, "and dietary preference: [%s],\n", orDefault(req.Diet, "none"))
	fmt.Fprintf(&b, "generate **%d recipes**.\n\n", IngredientRecipeCount)

	b.WriteString("Filters:\n")
	fmt.Fprintf(&b, "- Difficulty: %s\n", orDefault(req.Difficulty, "any"))
	fmt.Fprintf(&b, "- Max Cooking Time: %s\n", cookingTime(req.MaxCookingTime))
	fmt.Fprintf(&b, "- Serving Size: %d\n\n", servings)

	b.WriteString("Each recipe must include:\n")
	b.WriteString("- title\n")
	fmt.Fprintf(&b, "- ingredients (quantities adjusted for %d servings)\n", servings)
	b.WriteString("- steps (detailed instructions)\n")
	b.WriteString("- difficulty (easy, medium, hard)\n")
	b.WriteString("- calories (kcal per serving)\n")
	b.WriteString("- protein (grams per serving)\n\n")

	b.WriteString(outputRules)
	b.WriteString(jsonShapeExample)
	b.WriteString("\n")

	return b.String(), nil
}

// BuildFavoritesPrompt 依收藏食譜標題組出推薦提示詞，沒有收藏時回傳驗證錯誤
func BuildFavoritesPrompt(favorites []string) (string, error) {
	titles := make([]string, 0, len(favorites))
	for _, f := range favorites {
		if t := strings.TrimSpace(f); t != "" {
			titles = append(titles, t)
		}
	}
	if len(titles) == 0 {
		return "", common.NewValidationError(MsgNoFavorites)
	}

	var b strings.Builder
	b.WriteString("You are an expert chef AI.\n")
	b.WriteString("Given the following favorite recipes:\n")
	for i, t := range titles {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Generate **%d new recipe ideas** that are similar in flavor, cuisine, or ingredients to these favorites.\n", RecommendationRecipeCount)
	b.WriteString("Do not repeat any of the favorites.\n\n")

	b.WriteString("Each recipe must include:\n")
	b.WriteString("- title\n")
	b.WriteString("- ingredients (quantities for 1 serving)\n")
	b.WriteString("- steps (detailed instructions)\n")
	b.WriteString("- difficulty (easy, medium, hard)\n")
	b.WriteString("- calories (approximate kcal)\n")
	b.WriteString("- protein (grams)\n\n")

	b.WriteString(outputRules)
	b.WriteString(jsonShapeExample)
	b.WriteString("\n")

	return b.String(), nil
}

func orDefault(v, fallback string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return fallback
}

func cookingTime(minutes int) string {
	if minutes <= 0 {
		return "any"
	}
	return strconv.Itoa(minutes) + " minutes"
}
