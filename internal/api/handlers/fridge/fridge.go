package fridge

import (
	"net/http"

	"smart-fridge/internal/api/handlers"
	"smart-fridge/internal/core/chef"
	"smart-fridge/internal/core/scanner"
	"smart-fridge/internal/pkg/common"
	"smart-fridge/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 庫存與收據掃描處理器
type Handler struct {
	scanService *scanner.Service
	chefService *chef.Service
}

// NewHandler 創建庫存處理器
func NewHandler(scanService *scanner.Service, chefService *chef.Service) *Handler {
	return &Handler{
		scanService: scanService,
		chefService: chefService,
	}
}

// ScanReceiptRequest 收據掃描請求。圖片以 base64 或 data URL 傳入。
type ScanReceiptRequest struct {
	Image string `json:"image" binding:"required"`
}

// HandleFridgeItems 回傳過濾後的可烹飪庫存，最快到期的排最前。
// 供冰箱總覽畫面使用，非食品項目（押金、購物袋）不會出現。
func (h *Handler) HandleFridgeItems(c *gin.Context) {
	items, err := h.chefService.FetchFoodItems(c.Request.Context())
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

// HandleScanReceipt 收據攝取端點：辨識、對帳、寫入
func (h *Handler) HandleScanReceipt(c *gin.Context) {
	var req ScanReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.ReceiptScansTotal.WithLabelValues("invalid_request").Inc()
		handlers.RespondError(c, common.WrapError(common.ErrInvalidRequest, err))
		return
	}

	result, err := h.scanService.ScanReceipt(c.Request.Context(), req.Image)
	if err != nil {
		metrics.ReceiptScansTotal.WithLabelValues("error").Inc()
		common.LogError("收據掃描失敗",
			zap.Error(err),
		)
		handlers.RespondError(c, err)
		return
	}

	metrics.ReceiptScansTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, result)
}
