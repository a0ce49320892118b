package recipe

import (
	"context"
	"net/http"

	"recipe-assistant/internal/api/handlers"
	"recipe-assistant/internal/api/middleware"
	"recipe-assistant/internal/api/respond"
	"recipe-assistant/internal/core/catalog"
	"recipe-assistant/internal/core/recipe"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Generator 食譜生成與推薦
type Generator interface {
	Generate(ctx context.Context, req recipe.GenerationRequest) (*recipe.Result, error)
	Recommend(ctx context.Context, userID string) (*recipe.Result, error)
}

// Catalog 熱門食譜來源
type Catalog interface {
	Top(ctx context.Context, limit int) ([]catalog.Recipe, error)
}

// TopResponse 熱門食譜列表
type TopResponse struct {
	Recipes []catalog.Recipe `json:"recipes"`
}

// HandleGenerate 依食材生成食譜；用戶端斷線不會中斷進行中的模型呼叫
func HandleGenerate(svc Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req recipe.GenerationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			common.LogWarn("Invalid request format",
				zap.Error(err),
				zap.String("request_id", common.RequestIDFromContext(c.Request.Context())))
			respond.Error(c, http.StatusBadRequest, common.ErrCodeInvalidRequest,
				common.ErrInvalidRequest.Message, err.Error())
			return
		}

		result, err := svc.Generate(context.WithoutCancel(c.Request.Context()), req)
		if err != nil {
			respond.Err(c, err)
			return
		}

		common.LogInfo("Successfully generated recipes",
			zap.String("request_id", common.RequestIDFromContext(c.Request.Context())),
			zap.String("origin", middleware.Origin(c)),
			zap.Int("recipe_count", len(result.Recipes)),
			zap.Bool("cache_hit", result.CacheHit))
		respond.OK(c, result)
	}
}

// HandleRecommend 依登入使用者的收藏推薦新食譜
func HandleRecommend(svc Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)
		if userID == "" {
			respond.Err(c, common.ErrUnauthorized)
			return
		}

		result, err := svc.Recommend(context.WithoutCancel(c.Request.Context()), userID)
		if err != nil {
			respond.Err(c, err)
			return
		}

		common.LogInfo("Successfully recommended recipes",
			zap.String("request_id", common.RequestIDFromContext(c.Request.Context())),
			zap.String("user_id", userID),
			zap.Int("recipe_count", len(result.Recipes)))
		respond.OK(c, result)
	}
}

// HandleTop 回傳最新的共享食譜
func HandleTop(svc Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := handlers.QueryLimit(c)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, common.ErrCodeInvalidRequest,
				"limit must be a positive integer", "")
			return
		}

		recipes, err := svc.Top(c.Request.Context(), limit)
		if err != nil {
			respond.Err(c, err)
			return
		}
		respond.OK(c, TopResponse{Recipes: recipes})
	}
}
