package middleware

import (
	"net/http"
	"strconv"

	"recipe-assistant/internal/api/respond"
	"recipe-assistant/internal/infrastructure/metrics"
	"recipe-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BodySizeLimit 限制請求體大小的中間件
func BodySizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxSize <= 0 {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxSize {
			metrics.RejectedRequests.WithLabelValues("body_too_large").Inc()
			common.LogWarn("Request body too large",
				zap.Int64("content_length", c.Request.ContentLength),
				zap.Int64("max_size", maxSize),
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			respond.Error(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
				"Request body too large", "max_size="+strconv.FormatInt(maxSize, 10))
			return
		}

		// 沒有 Content-Length 的請求由 MaxBytesReader 在讀取時擋下
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)

		c.Next()
	}
}
