package chefapi

import (
	"net/http"

	"smart-fridge/internal/api/handlers"
	"smart-fridge/internal/core/chef"
	"smart-fridge/internal/pkg/common"
	"smart-fridge/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 個人廚師處理器
type Handler struct {
	service *chef.Service
}

// NewHandler 創建廚師處理器
func NewHandler(service *chef.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// GenerateRecipeRequest 食譜生成請求
type GenerateRecipeRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Prompt string `json:"prompt" binding:"required"`
	Guests int    `json:"guests" binding:"omitempty,min=1,max=20"`
}

// ReviseRecipeRequest 食譜修改請求
type ReviseRecipeRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Feedback string `json:"feedback" binding:"required"`
}

// ConfirmRecipeRequest 食譜確認請求
type ConfirmRecipeRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// FeedbackRequest 自由回饋請求，由意圖分類決定後續動作
type FeedbackRequest struct {
	UserID  string `json:"user_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// HandleGenerateRecipe 依料理心情生成食譜並開啟對話。
// 同一用戶再次呼叫會取代既有對話。
func (h *Handler) HandleGenerateRecipe(c *gin.Context) {
	var req GenerateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondError(c, common.WrapError(common.ErrInvalidRequest, err))
		return
	}
	if req.Guests == 0 {
		req.Guests = 1
	}

	common.LogInfo("食譜生成請求",
		zap.String("用戶", req.UserID),
		zap.String("心情", req.Prompt),
		zap.Int("人數", req.Guests),
	)

	resp, err := h.service.GenerateRecipe(c.Request.Context(), req.UserID, req.Prompt, req.Guests)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	metrics.RecipesGeneratedTotal.Inc()
	c.JSON(http.StatusOK, resp)
}

// HandleReviseRecipe 把自由回饋送進既有對話，回傳修改後的食譜
func (h *Handler) HandleReviseRecipe(c *gin.Context) {
	var req ReviseRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondError(c, common.WrapError(common.ErrInvalidRequest, err))
		return
	}

	resp, err := h.service.ReviseRecipe(c.Request.Context(), req.UserID, req.Feedback)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleConfirmRecipe 執行庫存扣除並結束對話
func (h *Handler) HandleConfirmRecipe(c *gin.Context) {
	var req ConfirmRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondError(c, common.WrapError(common.ErrInvalidRequest, err))
		return
	}

	resp, err := h.service.ConfirmRecipe(c.Request.Context(), req.UserID)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	metrics.ItemsDeductedTotal.Add(float64(len(resp.DeductedItems)))
	metrics.ShoppingListAdditionsTotal.Add(float64(len(resp.ShoppingListAdditions)))
	c.JSON(http.StatusOK, resp)
}

// HandleFeedback 對自由回饋分類意圖並分流到確認、取消或修改
func (h *Handler) HandleFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.RespondError(c, common.WrapError(common.ErrInvalidRequest, err))
		return
	}

	resp, err := h.service.HandleFeedback(c.Request.Context(), req.UserID, req.Message)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	metrics.IntentsTotal.WithLabelValues(string(resp.Intent)).Inc()
	if resp.Confirmation != nil {
		metrics.ItemsDeductedTotal.Add(float64(len(resp.Confirmation.DeductedItems)))
		metrics.ShoppingListAdditionsTotal.Add(float64(len(resp.Confirmation.ShoppingListAdditions)))
	}
	c.JSON(http.StatusOK, resp)
}
