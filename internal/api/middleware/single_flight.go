package middleware

import (
	"sync"

	"recipe-assistant/internal/api/respond"
	"recipe-assistant/internal/infrastructure/metrics"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InFlightGuard 同一來源同時只允許一個生成請求
type InFlightGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// NewInFlightGuard 創建新的併發守門員
func NewInFlightGuard() *InFlightGuard {
	return &InFlightGuard{active: make(map[string]struct{})}
}

// TryAcquire 佔用來源，已被佔用時回傳 false
func (g *InFlightGuard) TryAcquire(origin string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.active[origin]; busy {
		return false
	}
	g.active[origin] = struct{}{}
	return true
}

// Release 釋放來源
func (g *InFlightGuard) Release(origin string) {
	g.mu.Lock()
	delete(g.active, origin)
	g.mu.Unlock()
}

// Active 目前進行中的請求數
func (g *InFlightGuard) Active() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.active)
}

// SingleFlight 來源已有生成中的請求時直接回 409，不排隊也不合併
func SingleFlight(g *InFlightGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := Origin(c)
		if !g.TryAcquire(origin) {
			metrics.RejectedRequests.WithLabelValues("in_flight").Inc()
			common.LogWarn("重複的生成請求",
				zap.String("origin", origin),
				zap.String("path", c.Request.URL.Path),
			)
			respond.Err(c, common.ErrConflict)
			return
		}
		defer g.Release(origin)

		c.Next()
	}
}

// Origin 已登入時以使用者區分，否則以用戶端 IP 區分
func Origin(c *gin.Context) string {
	if id := UserID(c); id != "" {
		return "user:" + id
	}
	return "ip:" + c.ClientIP()
}
