package api

import (
	"time"

	favoritesHandler "recipe-assistant/internal/api/handlers/favorites"
	"recipe-assistant/internal/api/handlers/health"
	recipeHandler "recipe-assistant/internal/api/handlers/recipe"
	"recipe-assistant/internal/api/middleware"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies 路由需要的服務
type Dependencies struct {
	Recipes   recipeHandler.Generator
	Catalog   recipeHandler.Catalog
	Favorites favoritesHandler.Store
	Health    *health.Handler
	Auth      *middleware.Authenticator
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 來源 IP 用於併發與限流，只接受可信任代理帶來的 X-Forwarded-For
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		common.LogError("Invalid trusted proxies, ignoring forwarded headers",
			zap.Strings("trusted_proxies", cfg.Server.TrustedProxies),
			zap.Error(err),
		)
		_ = router.SetTrustedProxies(nil)
	}

	// 基礎中間件
	router.Use(requestid.New())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	router.Use(middleware.RequestContext(cfg.Server.RequestTimeout))

	// 健康檢查與指標
	router.GET("/health", deps.Health.HealthCheck)
	router.GET("/ready", deps.Health.ReadinessCheck)
	router.GET("/live", deps.Health.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 生成路由：同一來源同時只能有一個生成請求
	guard := middleware.NewInFlightGuard()
	generation := []gin.HandlerFunc{}
	if cfg.RateLimit.Enabled {
		generation = append(generation, middleware.RateLimit(
			middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)))
	}
	generation = append(generation, middleware.SingleFlight(guard))

	api := router.Group("/api/v1")
	{
		recipes := api.Group("/recipes")
		{
			recipes.POST("/generate", chain(deps.Auth.OptionalAuth(), generation,
				recipeHandler.HandleGenerate(deps.Recipes))...)
			recipes.POST("/recommend", chain(deps.Auth.RequireAuth(), generation,
				recipeHandler.HandleRecommend(deps.Recipes))...)
			recipes.GET("/top", recipeHandler.HandleTop(deps.Catalog))
		}

		favorites := api.Group("/favorites", deps.Auth.RequireAuth())
		{
			favorites.GET("", favoritesHandler.HandleList(deps.Favorites))
			favorites.POST("", favoritesHandler.HandleSave(deps.Favorites))
		}
	}

	common.LogInfo("Router setup completed",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router
}

func chain(auth gin.HandlerFunc, mid []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(mid)+2)
	out = append(out, auth)
	out = append(out, mid...)
	return append(out, handler)
}
