package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// QueryLimit 讀取 ?limit=，未提供時回傳 0 交由服務套用預設值
func QueryLimit(c *gin.Context) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}
