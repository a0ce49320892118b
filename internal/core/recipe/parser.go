package recipe

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"recipe-assistant/internal/pkg/common"
)

var (
	fencePattern  = regexp.MustCompile("(?i)```(?:json)?")
	numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
)

// 物件型清單項目中可作為文字的欄位，依序嘗試
var (
	itemTextKeys     = []string{"text", "instruction", "description", "step", "name", "item", "ingredient"}
	itemQuantityKeys = []string{"quantity", "amount"}
)

// ErrNotRecipeList 解析結果不是陣列或物件
var ErrNotRecipeList = errors.New("model response is not a JSON array of recipes")

// ParseRecipes 將模型原始輸出轉成食譜清單
//
// 只有 JSON 解碼失敗會回傳 MalformedResponse，單一元素格式不對時一律正規化。
func ParseRecipes(raw string) ([]Recipe, error) {
	value, err := decodeResponse(StripFences(raw))
	if err != nil {
		return nil, common.NewMalformedResponse(err)
	}

	items, err := recipeItems(value)
	if err != nil {
		return nil, common.NewMalformedResponse(err)
	}

	recipes := make([]Recipe, 0, len(items))
	for _, item := range items {
		recipes = append(recipes, normalizeRecipe(item))
	}
	return recipes, nil
}

// StripFences 移除 ``` 與 ```json 標記並去除前後空白
func StripFences(raw string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(raw, ""))
}

// decodeResponse 解碼 JSON，失敗時改用第一個 [ 到最後一個 ] 之間的內容再試一次。
// 這次重試刻意放寬：模型在陣列前後多講幾句話時仍能取得食譜，兩次都失敗才算格式錯誤。
func decodeResponse(text string) (interface{}, error) {
	var value interface{}
	err := common.ParseJSON(text, &value)
	if err == nil {
		return value, nil
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	var inner interface{}
	if innerErr := common.ParseJSON(text[start:end+1], &inner); innerErr != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return inner, nil
}

// recipeItems 取出食譜元素：陣列、{"recipes": [...]}、或單一物件
func recipeItems(value interface{}) ([]interface{}, error) {
	switch v := value.(type) {
	case []interface{}:
		return v, nil
	case map[string]interface{}:
		if list, ok := v["recipes"].([]interface{}); ok {
			return list, nil
		}
		return []interface{}{v}, nil
	default:
		return nil, ErrNotRecipeList
	}
}

func normalizeRecipe(item interface{}) Recipe {
	r := Recipe{
		Title:       PlaceholderTitle,
		Ingredients: []string{},
		Steps:       []string{},
	}

	switch v := item.(type) {
	case map[string]interface{}:
		if title := textValue(v["title"]); title != "" {
			r.Title = title
		}
		r.Ingredients = stringList(v["ingredients"])
		r.Steps = stringList(v["steps"])
		r.Difficulty = textValue(v["difficulty"])
		r.Calories = numberValue(v["calories"])
		r.Protein = numberValue(v["protein"])
	case string:
		if title := strings.TrimSpace(v); title != "" {
			r.Title = title
		}
	}

	return r
}

// stringList 將任意值轉為字串清單，null 或缺少時為空清單
func stringList(value interface{}) []string {
	out := []string{}
	switch v := value.(type) {
	case nil:
	case []interface{}:
		for _, item := range v {
			if s := itemText(item); s != "" {
				out = append(out, s)
			}
		}
	default:
		if s := itemText(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func itemText(value interface{}) string {
	switch v := value.(type) {
	case map[string]interface{}:
		return objectText(v)
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s := itemText(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		return textValue(v)
	}
}

// objectText 像 {"quantity":"2","unit":"cups","name":"rice"} 這類項目轉成 "2 cups rice"
func objectText(m map[string]interface{}) string {
	var text string
	for _, key := range itemTextKeys {
		if s := textValue(m[key]); s != "" {
			text = s
			break
		}
	}
	if text == "" {
		encoded, err := common.ToJSON(m)
		if err != nil {
			return ""
		}
		return encoded
	}

	parts := make([]string, 0, 3)
	for _, key := range itemQuantityKeys {
		if s := textValue(m[key]); s != "" {
			parts = append(parts, s)
			break
		}
	}
	if unit := textValue(m["unit"]); unit != "" {
		parts = append(parts, unit)
	}
	parts = append(parts, text)
	return strings.Join(parts, " ")
}

// textValue 純量轉字串，物件與陣列回傳空字串
func textValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// numberValue 數字直接使用，字串取第一段數字（"250 kcal" → 250），其他為 0
func numberValue(value interface{}) float64 {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case float64:
		return v
	case string:
		match := numberPattern.FindString(v)
		if match == "" {
			return 0
		}
		f, err := strconv.ParseFloat(match, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
