package handlers

import (
	"net/http"

	"smart-fridge/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError 把錯誤鏈中的 CustomError 映射成對應的 HTTP 回應。
// 未分類的錯誤一律回 500，不洩漏內部細節。
func RespondError(c *gin.Context, err error) {
	if ce, ok := common.AsCustomError(err); ok {
		details := ""
		if ce.Err != nil {
			details = ce.Err.Error()
		}
		c.JSON(ce.Status, common.ErrorResponse{
			Code:    ce.Code,
			Message: ce.Message,
			Details: details,
		})
		return
	}

	common.LogError("未分類錯誤",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
	)
	c.JSON(http.StatusInternalServerError, common.ErrorResponse{
		Code:    common.ErrCodeInternalError,
		Message: "服務器內部錯誤",
	})
}
