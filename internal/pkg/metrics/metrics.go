package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 服務級指標。HTTP 指標由中間件收集，
// 業務指標由各處理器在成功路徑上累加。
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smart_fridge_http_requests_total",
			Help: "HTTP 請求總數",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smart_fridge_http_request_duration_seconds",
			Help:    "HTTP 請求耗時",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ReceiptScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smart_fridge_receipt_scans_total",
			Help: "收據掃描次數",
		},
		[]string{"result"},
	)

	RecipesGeneratedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "smart_fridge_recipes_generated_total",
			Help: "成功生成的食譜數",
		},
	)

	IntentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smart_fridge_feedback_intents_total",
			Help: "用戶回饋意圖分類結果",
		},
		[]string{"intent"},
	)

	ItemsDeductedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "smart_fridge_items_deducted_total",
			Help: "確認食譜後扣除的庫存項目數",
		},
	)

	ShoppingListAdditionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "smart_fridge_shopping_list_additions_total",
			Help: "加入智慧購物清單的項目數",
		},
	)
)

// Middleware 收集每個請求的計數與耗時
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
		).Observe(time.Since(start).Seconds())
	}
}

// Handler 暴露 /metrics 端點
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
