package favorites

import (
	"context"
	"net/http"

	"recipe-assistant/internal/api/handlers"
	"recipe-assistant/internal/api/middleware"
	"recipe-assistant/internal/api/respond"
	"recipe-assistant/internal/core/favorites"
	coreRecipe "recipe-assistant/internal/core/recipe"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Store 收藏的讀寫
type Store interface {
	Save(ctx context.Context, userID string, r coreRecipe.Recipe) (favorites.Favorite, error)
	List(ctx context.Context, userID string, limit int) ([]favorites.Favorite, error)
}

// ListResponse 收藏列表
type ListResponse struct {
	Favorites []favorites.Favorite `json:"favorites"`
}

// HandleSave 把一道食譜加入登入使用者的收藏
func HandleSave(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body coreRecipe.Recipe
		if err := c.ShouldBindJSON(&body); err != nil {
			respond.Error(c, http.StatusBadRequest, common.ErrCodeInvalidRequest,
				common.ErrInvalidRequest.Message, err.Error())
			return
		}

		fav, err := store.Save(c.Request.Context(), middleware.UserID(c), body)
		if err != nil {
			respond.Err(c, err)
			return
		}

		respond.JSON(c, http.StatusCreated, fav)
	}
}

// HandleList 依時間由新到舊列出收藏
func HandleList(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := handlers.QueryLimit(c)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, common.ErrCodeInvalidRequest,
				"limit must be a positive integer", "")
			return
		}

		list, err := store.List(c.Request.Context(), middleware.UserID(c), limit)
		if err != nil {
			respond.Err(c, err)
			return
		}
		respond.OK(c, ListResponse{Favorites: list})
	}
}
