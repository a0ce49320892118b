package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-assistant/internal/api"
	"recipe-assistant/internal/api/handlers/health"
	"recipe-assistant/internal/api/middleware"
	"recipe-assistant/internal/core/ai/cache"
	"recipe-assistant/internal/core/ai/gemini"
	aiService "recipe-assistant/internal/core/ai/service"
	"recipe-assistant/internal/core/catalog"
	"recipe-assistant/internal/core/favorites"
	"recipe-assistant/internal/core/image"
	"recipe-assistant/internal/core/recipe"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/infrastructure/database"
	"recipe-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	// API key 只記錄是否設定
	common.LogInfo("載入設定",
		zap.Bool("api_key_set", cfg.Gemini.APIKey != ""),
		zap.String("model", cfg.Gemini.Model),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("database_configured", cfg.Database.URL != ""),
	)

	ctx := context.Background()

	// 儲存：有 DATABASE_URL 時使用 Postgres，否則使用記憶體
	var (
		db          *sql.DB
		favRepo     favorites.Repo
		catalogRepo catalog.Repo
	)
	if cfg.Database.URL != "" {
		db, err = database.Connect(ctx, &cfg.Database)
		if err != nil {
			common.LogFatal("Failed to connect database", zap.Error(err))
		}
		defer db.Close()

		if cfg.Database.AutoMigrate {
			if err := database.RunMigrations(ctx, db); err != nil {
				common.LogFatal("Failed to run migrations", zap.Error(err))
			}
		}
		favRepo = &favorites.PGRepo{DB: db}
		catalogRepo = &catalog.PGRepo{DB: db}
	} else {
		common.LogWarn("DATABASE_URL not set, using in-memory storage")
		favRepo = favorites.NewMemoryRepo()
		catalogRepo = catalog.NewMemoryRepo()
	}

	// 初始化快取，關閉時回傳 nil
	store, err := cache.New(&cfg.Cache, &cfg.Redis)
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}

	// 模型服務與生成流程
	ai := aiService.NewService(&cfg.Gemini, gemini.NewClient(&cfg.Gemini), store)
	defer ai.Close()

	favoriteSvc := favorites.NewService(favRepo)
	generator := recipe.NewGenerator(ai, image.NewService(&cfg.Image))

	var pinger health.Pinger
	if db != nil {
		pinger = db
	}
	healthHandler := health.NewHandler(cfg.App.Version, ai.Model(), pinger)
	if redisStore, ok := store.(*cache.RedisStore); ok {
		healthHandler.WithCache(redisStore)
	}

	auth := middleware.NewAuthenticator(&cfg.Supabase)
	if !auth.Enabled() {
		common.LogWarn("SUPABASE_JWT_SECRET not set, authenticated routes will reject every request")
	}

	router := api.SetupRouter(cfg, api.Dependencies{
		Recipes:   recipe.NewService(generator, favoriteSvc),
		Catalog:   catalog.NewService(catalogRepo, &cfg.Catalog),
		Favorites: favoriteSvc,
		Health:    healthHandler,
		Auth:      auth,
	})

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo("Server exited")
}
