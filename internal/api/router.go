package api

import (
	"context"
	"net/http"
	"time"

	"smart-fridge/internal/api/handlers/chefapi"
	"smart-fridge/internal/api/handlers/fridge"
	"smart-fridge/internal/api/handlers/health"
	"smart-fridge/internal/api/middleware"
	"smart-fridge/internal/core/ai"
	"smart-fridge/internal/core/ai/cache"
	"smart-fridge/internal/core/chef"
	"smart-fridge/internal/core/scanner"
	"smart-fridge/internal/core/session"
	"smart-fridge/internal/infrastructure/config"
	"smart-fridge/internal/infrastructure/storage"
	"smart-fridge/internal/pkg/common"
	"smart-fridge/internal/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置。食譜生成要等兩輪模型呼叫（生成＋縮放），留足餘裕。
	timeoutDuration = 120 * time.Second
)

// SetupRouter 設置路由並組裝所有服務
func SetupRouter(cfg *config.Config, cacheManager *cache.Manager, sessionStore session.Store) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(metrics.Middleware())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制（收據圖片以 base64 走 JSON）
	router.Use(middleware.BodySizeLimit(cfg.Image.MaxSizeBytes))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("model", cfg.OpenRouter.Model),
		zap.String("vision_model", cfg.OpenRouter.VisionModel),
		zap.Bool("session_redis", cfg.Session.RedisEnabled),
	)

	// 組裝服務：遠端庫存 → AI 客戶端 → 掃描／廚師
	store := storage.NewSupabaseStore(&cfg.Supabase)
	aiClient := ai.NewClient(cfg, cacheManager)
	scanService := scanner.NewService(store, aiClient, cfg)
	chefService := chef.NewService(store, aiClient, sessionStore, cfg)

	// 請求超時
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
			})
			c.Abort()
		}
	})

	// 健康檢查與指標路由
	healthHandler := health.NewHandler(cfg, cacheManager)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)
	router.GET("/metrics", metrics.Handler())

	// API 路由組
	apiGroup := router.Group("/api/v1")
	{
		fridgeHandler := fridge.NewHandler(scanService, chefService)
		chefHandler := chefapi.NewHandler(chefService)

		// 庫存與收據掃描
		apiGroup.GET("/fridge_items", fridgeHandler.HandleFridgeItems)
		apiGroup.POST("/scan_receipt", fridgeHandler.HandleScanReceipt)

		// 個人廚師對話
		apiGroup.POST("/generate_recipe", chefHandler.HandleGenerateRecipe)
		apiGroup.POST("/revise_recipe", chefHandler.HandleReviseRecipe)
		apiGroup.POST("/confirm_recipe", chefHandler.HandleConfirmRecipe)
		apiGroup.POST("/recipe_feedback", chefHandler.HandleFeedback)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", cfg.Image.MaxSizeBytes),
	)

	return router, nil
}
