package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"smart-fridge/internal/core/ai/cache"
	"smart-fridge/internal/infrastructure/config"
	"smart-fridge/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client OpenRouter 客戶端。無狀態：對話歷史由 Session 持有，
// 每次呼叫時完整傳入，客戶端本身不記任何對話。
type Client struct {
	config *config.Config
	client *resty.Client
	cache  *cache.Manager
}

// NewClient 創建 OpenRouter 客戶端
func NewClient(cfg *config.Config, cacheManager *cache.Manager) *Client {
	client := resty.New().
		SetBaseURL("https://openrouter.ai/api/v1").
		SetTimeout(cfg.OpenRouter.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.OpenRouter.APIKey)).
		SetHeader("HTTP-Referer", "https://smart-fridge.app").
		SetHeader("X-Title", "Smart Fridge")

	return &Client{
		config: cfg,
		client: client,
		cache:  cacheManager,
	}
}

// chatResponse OpenRouter 回應結構
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Chat 發送完整對話歷史，回傳助手的下一則訊息。
// 對話不走快取：同一句話在不同歷史脈絡下應得到不同回應。
func (c *Client) Chat(ctx context.Context, messages []common.ChatMessage) (string, error) {
	start := time.Now()

	payload := make([]map[string]interface{}, 0, len(messages))
	for _, msg := range messages {
		payload = append(payload, map[string]interface{}{
			"role":    msg.Role,
			"content": msg.Content,
		})
	}

	req := map[string]interface{}{
		"model":      c.config.OpenRouter.Model,
		"messages":   payload,
		"max_tokens": c.config.OpenRouter.MaxTokens,
	}

	content, err := c.send(ctx, req)
	common.LogAICall("chat", time.Since(start), err)
	if err != nil {
		return "", common.WrapError(common.ErrAIService, err)
	}
	return content, nil
}

// RecognizeReceipt 把收據圖片送給視覺模型辨識。
// 暫時性失敗（過載、503）以指數退避重試；其餘錯誤立即回報。
// 同一張圖片在快取 TTL 內重複上傳時直接回傳先前結果。
func (c *Client) RecognizeReceipt(ctx context.Context, prompt, imageData string) (string, error) {
	if cached, err := c.cache.Get(ctx, prompt, imageData); err == nil {
		return cached, nil
	}

	imageURL := imageData
	if !strings.HasPrefix(imageData, "data:image/") {
		imageURL = fmt.Sprintf("data:image/jpeg;base64,%s", imageData)
	}

	req := map[string]interface{}{
		"model": c.config.OpenRouter.VisionModel,
		"messages": []map[string]interface{}{
			{
				"role": common.RoleUser,
				"content": []map[string]interface{}{
					{
						"type": "text",
						"text": prompt,
					},
					{
						"type": "image_url",
						"image_url": map[string]string{
							"url": imageURL,
						},
					},
				},
			},
		},
		"max_tokens": c.config.OpenRouter.MaxTokens,
	}

	var lastErr error
	backoff := c.config.Recognition.InitialBackoff

	for attempt := 1; attempt <= c.config.Recognition.MaxRetries; attempt++ {
		start := time.Now()
		content, err := c.send(ctx, req)
		common.LogAICall("receipt_recognition", time.Since(start), err)

		if err == nil {
			if setErr := c.cache.Set(ctx, prompt, imageData, content); setErr != nil {
				common.LogWarn("辨識結果寫入快取失敗",
					zap.Error(setErr),
				)
			}
			return content, nil
		}

		lastErr = err
		if !isTransient(err) || attempt == c.config.Recognition.MaxRetries {
			break
		}

		common.LogWarn("視覺模型暫時不可用，準備重試",
			zap.Int("嘗試次數", attempt),
			zap.Int("最大次數", c.config.Recognition.MaxRetries),
			zap.Duration("等待時間", backoff),
		)

		select {
		case <-ctx.Done():
			return "", common.WrapError(common.ErrAIService, ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return "", common.WrapError(common.ErrAIService, lastErr)
}

// send 發送請求並取出第一個 choice 的內容
func (c *Client) send(ctx context.Context, body map[string]interface{}) (string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")

	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("OpenRouter API returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var result chatResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse OpenRouter response: %w", err)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenRouter response")
	}

	return result.Choices[0].Message.Content, nil
}

// isTransient 判斷錯誤是否值得重試（模型過載或服務暫時不可用）
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "503") ||
		strings.Contains(msg, "UNAVAILABLE") ||
		strings.Contains(msg, "429") ||
		strings.Contains(msg, "overloaded")
}
