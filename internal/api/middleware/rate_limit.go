package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"recipe-assistant/internal/api/respond"
	"recipe-assistant/internal/infrastructure/metrics"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 以來源區分的令牌桶限流器
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter 每個來源在 window 內最多 requests 次，可一次用完
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(requests)),
		burst:    requests,
		idle:     window * 2,
		now:      time.Now,
	}
}

// Allow 檢查來源是否還有額度，沒有時一併回傳需要等待的時間
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	r := v.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// sweep 移除閒置過久的來源
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.idle {
		return
	}
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idle {
			delete(rl.visitors, key)
		}
	}
	rl.lastSweep = now
}

// RateLimit 限流中間件
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := Origin(c)
		ok, wait := rl.Allow(origin)
		if !ok {
			metrics.RejectedRequests.WithLabelValues("rate_limited").Inc()
			common.LogWarn("請求頻率超限",
				zap.String("origin", origin),
				zap.String("path", c.Request.URL.Path),
				zap.Duration("retry_after", wait),
			)
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			respond.Err(c, common.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
