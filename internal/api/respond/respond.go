package respond

import (
	"net/http"

	"recipe-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JSON 寫出任意狀態碼的 JSON 響應
func JSON(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// OK 寫出 200 響應
func OK(c *gin.Context, body any) {
	JSON(c, http.StatusOK, body)
}

// Error 寫出錯誤響應並中止後續處理
func Error(c *gin.Context, status int, code, message, details string) {
	c.AbortWithStatusJSON(status, common.ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// Err 依錯誤鏈中的 CustomError 決定狀態碼與訊息；
// 非預期錯誤一律回 500，原始訊息只在 debug 模式放進 details
func Err(c *gin.Context, err error) {
	ce := common.AsCustomError(err)

	details := ""
	if gin.IsDebugging() && ce.Status >= http.StatusInternalServerError {
		details = err.Error()
	}
	if ce.Status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗",
			zap.String("code", ce.Code),
			zap.String("path", c.FullPath()),
			zap.String("request_id", common.RequestIDFromContext(c.Request.Context())),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	Error(c, ce.Status, ce.Code, ce.Message, details)
}
