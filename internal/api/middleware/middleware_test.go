package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"smart-fridge/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiterTokenBucket(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)

	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	// 令牌用完，時間窗內不再放行
	assert.False(t, limiter.Allow())
}

func TestRateLimitResponseShape(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(1, time.Minute))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	var resp common.ErrorResponse
	require.NoError(t, common.ParseJSON(second.Body.String(), &resp))
	assert.Equal(t, common.ErrCodeTooManyRequests, resp.Code)
}

func TestBodySizeLimitRejectsOversized(t *testing.T) {
	router := gin.New()
	router.Use(BodySizeLimit(16))
	router.POST("/scan", func(c *gin.Context) { c.Status(http.StatusOK) })

	small := httptest.NewRecorder()
	router.ServeHTTP(small, httptest.NewRequest(http.MethodPost, "/scan", strings.NewReader("ok")))
	assert.Equal(t, http.StatusOK, small.Code)

	big := httptest.NewRecorder()
	router.ServeHTTP(big, httptest.NewRequest(http.MethodPost, "/scan", strings.NewReader(strings.Repeat("x", 64))))
	require.Equal(t, http.StatusRequestEntityTooLarge, big.Code)

	var resp common.ErrorResponse
	require.NoError(t, common.ParseJSON(big.Body.String(), &resp))
	assert.Equal(t, common.ErrCodeRequestTooLarge, resp.Code)
}

func TestLoggerSkipsQuietPaths(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	common.Logger = zap.New(core)
	defer func() { common.Logger = nil }()

	router := gin.New()
	router.Use(Logger())
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	router.GET("/metrics", ok)
	router.GET("/api/v1/fridge_items", ok)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/fridge_items", nil))

	// 指標抓取不產生請求日誌，業務路由照常記錄
	entries := logs.FilterMessage("請求完成").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/api/v1/fridge_items", entries[0].ContextMap()["path"])
}
