package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"recipe-assistant/internal/api/respond"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 就緒檢查時資料庫 ping 的逾時
const readyTimeout = 2 * time.Second

// Pinger 可被就緒檢查 ping 的依賴
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Model     string                 `json:"model"`
	Storage   string                 `json:"storage"`
	Cache     string                 `json:"cache"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// Handler 健康檢查處理器
type Handler struct {
	version string
	model   string
	db      Pinger
	cache   Pinger
}

// NewHandler db 為 nil 表示使用記憶體儲存
func NewHandler(version, model string, db Pinger) *Handler {
	return &Handler{version: version, model: model, db: db}
}

// WithCache 加入外部快取的就緒檢查
func (h *Handler) WithCache(cache Pinger) *Handler {
	h.cache = cache
	return h
}

func (h *Handler) cacheBackend() string {
	if h.cache == nil {
		return "none"
	}
	return "redis"
}

func (h *Handler) storage() string {
	if h.db == nil {
		return "memory"
	}
	return "postgres"
}

// HealthCheck 回傳版本與執行期資訊
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	respond.OK(c, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   h.version,
		Model:     h.model,
		Storage:   h.storage(),
		Cache:     h.cacheBackend(),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	})
}

// ReadinessCheck 設定了資料庫或 redis 快取時必須 ping 得到
func (h *Handler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	checks := []struct {
		name   string
		pinger Pinger
	}{
		{"database", h.db},
		{"cache", h.cache},
	}
	for _, check := range checks {
		if check.pinger == nil {
			continue
		}
		if err := check.pinger.PingContext(ctx); err != nil {
			common.LogWarn("Readiness check failed", zap.String("dependency", check.name), zap.Error(err))
			respond.Error(c, http.StatusServiceUnavailable, common.ErrCodeServiceUnavailable,
				common.ErrServiceUnavailable.Message, check.name+" unreachable")
			return
		}
	}
	respond.OK(c, gin.H{"status": "ready", "storage": h.storage(), "cache": h.cacheBackend()})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	respond.OK(c, gin.H{"status": "alive"})
}
