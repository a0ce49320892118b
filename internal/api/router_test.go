package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"recipe-assistant/internal/api/handlers/health"
	"recipe-assistant/internal/api/middleware"
	"recipe-assistant/internal/core/ai/gemini"
	aiService "recipe-assistant/internal/core/ai/service"
	"recipe-assistant/internal/core/catalog"
	"recipe-assistant/internal/core/favorites"
	"recipe-assistant/internal/core/image"
	"recipe-assistant/internal/core/recipe"
	"recipe-assistant/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "router-test-secret"
	testSupabase = "https://demo.supabase.co"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const modelReply = `{"candidates":[{"content":{"parts":[{"text":"` +
	"```json\\n[{\\\"title\\\":\\\"Tomato Omelette\\\",\\\"ingredients\\\":[\\\"2 eggs\\\",\\\"1 tomato\\\"],\\\"steps\\\":[\\\"Whisk\\\",\\\"Cook\\\"],\\\"difficulty\\\":\\\"easy\\\",\\\"calories\\\":250,\\\"protein\\\":14}]\\n```" +
	`"}]},"finishReason":"STOP"}]}`

func replyRecipes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(modelReply))
}

func newTestRouter(t *testing.T) (*gin.Engine, *atomic.Int32) {
	return newTestRouterWithModel(t, replyRecipes)
}

func newTestRouterWithModel(t *testing.T, reply http.HandlerFunc) (*gin.Engine, *atomic.Int32) {
	t.Helper()
	calls := &atomic.Int32{}
	model := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		reply(w, r)
	}))
	t.Cleanup(model.Close)

	cfg := &config.Config{
		App:       config.AppConfig{Debug: true, Version: "test"},
		Server:    config.ServerConfig{RequestTimeout: 5 * time.Second, MaxBodyBytes: 1 << 20},
		Gemini:    config.GeminiConfig{APIKey: "k", Model: "gemini-2.5-flash", BaseURL: model.URL, Timeout: 5 * time.Second},
		Supabase:  config.SupabaseConfig{URL: testSupabase, JWTSecret: testSecret},
		RateLimit: config.RateLimitConfig{Enabled: true, Requests: 10, Window: time.Minute},
		Image:     config.ImageConfig{SearchURL: "https://source.unsplash.com/featured", Size: "800x800"},
		Catalog:   config.CatalogConfig{DefaultLimit: 20, MaxLimit: 100},
	}

	ai := aiService.NewService(&cfg.Gemini, gemini.NewClient(&cfg.Gemini), nil)
	favSvc := favorites.NewService(favorites.NewMemoryRepo())
	generator := recipe.NewGenerator(ai, image.NewService(&cfg.Image))

	router := SetupRouter(cfg, Dependencies{
		Recipes:   recipe.NewService(generator, favSvc),
		Catalog:   catalog.NewService(catalog.NewMemoryRepo(catalog.Recipe{ID: "r-1", Title: "Pancakes"}), &cfg.Catalog),
		Favorites: favSvc,
		Health:    health.NewHandler(cfg.App.Version, cfg.Gemini.Model, nil),
		Auth:      middleware.NewAuthenticator(&cfg.Supabase),
	})
	return router, calls
}

func bearer(t *testing.T, sub string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		Issuer:    testSupabase + "/auth/v1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func request(r http.Handler, method, path, body, auth string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateEndToEnd(t *testing.T) {
	r, calls := newTestRouter(t)

	w := request(r, http.MethodPost, "/api/v1/recipes/generate", `{"ingredients":"eggs, tomato"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, calls.Load())
	assert.Contains(t, w.Body.String(), `"title":"Tomato Omelette"`)
	assert.Contains(t, w.Body.String(), `"steps":["Whisk","Cook"]`)
	assert.Contains(t, w.Body.String(), `"image_url":"https://source.unsplash.com/featured/800x800?tomato%20omelette`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestGenerate_EmptyIngredientsNeverCallsModel(t *testing.T) {
	r, calls := newTestRouter(t)

	w := request(r, http.MethodPost, "/api/v1/recipes/generate", `{"ingredients":"   "}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), recipe.MsgEmptyIngredients)
	assert.EqualValues(t, 0, calls.Load())
}

func TestFavoritesAndRecommend(t *testing.T) {
	r, calls := newTestRouter(t)
	auth := bearer(t, "user-1")

	assert.Equal(t, http.StatusUnauthorized, request(r, http.MethodGet, "/api/v1/favorites", "", "").Code)

	w := request(r, http.MethodPost, "/api/v1/recipes/recommend", "", auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), recipe.MsgNoFavorites)
	assert.EqualValues(t, 0, calls.Load())

	w = request(r, http.MethodPost, "/api/v1/favorites", `{"title":"Pad Thai","ingredients":["noodles"]}`, auth)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = request(r, http.MethodGet, "/api/v1/favorites", "", auth)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pad Thai")

	w = request(r, http.MethodPost, "/api/v1/recipes/recommend", "", auth)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"mode":"favorites"`)
	assert.EqualValues(t, 1, calls.Load())
}

func TestTopHealthAndMetrics(t *testing.T) {
	r, _ := newTestRouter(t)

	w := request(r, http.MethodGet, "/api/v1/recipes/top", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pancakes")

	for _, path := range []string{"/health", "/ready", "/live"} {
		assert.Equal(t, http.StatusOK, request(r, http.MethodGet, path, "", "").Code, path)
	}

	w = request(r, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "recipe_assistant_http_requests_total")
}

func TestGenerate_ForwardedForDoesNotSplitOrigin(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	r, _ := newTestRouterWithModel(t, func(w http.ResponseWriter, req *http.Request) {
		entered <- struct{}{}
		<-release
		replyRecipes(w, req)
	})

	send := func(forwardedFor string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes/generate", strings.NewReader(`{"ingredients":"rice"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", forwardedFor)
		req.RemoteAddr = "10.0.0.5:40000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := make(chan int, 1)
	go func() { first <- send("1.1.1.1").Code }()
	<-entered

	w := send("2.2.2.2")
	assert.Equal(t, http.StatusConflict, w.Code)

	close(release)
	assert.Equal(t, http.StatusOK, <-first)
}
