package storage

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"smart-fridge/internal/infrastructure/config"
	"smart-fridge/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// SupabaseStore 遠端資料庫客戶端（Supabase REST API）。
// 庫存列由遠端擁有，這裡只做列導向的讀取、插入與修補，
// 每個呼叫各自回報失敗，不做批次級的全有或全無。
type SupabaseStore struct {
	client *resty.Client
}

// NewSupabaseStore 創建遠端資料庫客戶端
func NewSupabaseStore(cfg *config.SupabaseConfig) *SupabaseStore {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")+"/rest/v1").
		SetTimeout(cfg.Timeout).
		SetHeader("apikey", cfg.Key).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Key))

	return &SupabaseStore{
		client: client,
	}
}

// FetchActive 取得所有 active 狀態的庫存列
func (s *SupabaseStore) FetchActive(ctx context.Context) ([]common.InventoryItem, error) {
	var items []common.InventoryItem

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("select", "id,item_name,category,quantity,purchase_date,expiry_date,status").
		SetQueryParam("status", "eq.active").
		SetResult(&items).
		Get("/fridge_items")

	if err != nil {
		return nil, common.WrapError(common.ErrStore, fmt.Errorf("fetch active items: %w", err))
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, common.WrapError(common.ErrStore, fmt.Errorf("fetch active items: status %d: %s", resp.StatusCode(), resp.String()))
	}

	return items, nil
}

// LatestInsertTimestamp 回傳最近一次插入的 active 項目的 created_at。
// 查詢失敗或欄位缺失時回傳 nil（靜默失敗），呼叫方會退回標準閾值。
func (s *SupabaseStore) LatestInsertTimestamp(ctx context.Context) *time.Time {
	var rows []struct {
		CreatedAt string `json:"created_at"`
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("select", "created_at").
		SetQueryParam("status", "eq.active").
		SetQueryParam("order", "created_at.desc").
		SetQueryParam("limit", "1").
		SetResult(&rows).
		Get("/fridge_items")

	if err != nil || resp.StatusCode() != http.StatusOK || len(rows) == 0 || rows[0].CreatedAt == "" {
		return nil
	}

	ts, err := time.Parse(time.RFC3339, strings.Replace(rows[0].CreatedAt, "Z", "+00:00", 1))
	if err != nil {
		// Supabase 的 timestamptz 也可能不帶時區後綴
		ts, err = time.Parse("2006-01-02T15:04:05", rows[0].CreatedAt)
		if err != nil {
			common.LogWarn("無法解析最近插入時間戳",
				zap.String("created_at", rows[0].CreatedAt),
			)
			return nil
		}
	}

	return &ts
}

// InsertItems 批次插入新的庫存列
func (s *SupabaseStore) InsertItems(ctx context.Context, rows []common.InsertRow) error {
	if len(rows) == 0 {
		return nil
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=minimal").
		SetBody(rows).
		Post("/fridge_items")

	if err != nil {
		return common.WrapError(common.ErrStore, fmt.Errorf("insert items: %w", err))
	}
	if resp.StatusCode() >= http.StatusMultipleChoices {
		return common.WrapError(common.ErrStore, fmt.Errorf("insert items: status %d: %s", resp.StatusCode(), resp.String()))
	}

	return nil
}

// RetireItems 軟刪除：把一批庫存列標記為 consumed。
// consumed 狀態必須伴隨數量歸零，維持庫存不變量。
func (s *SupabaseStore) RetireItems(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = fmt.Sprintf("%d", id)
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("id", fmt.Sprintf("in.(%s)", strings.Join(idStrings, ","))).
		SetBody(map[string]interface{}{
			"status":   common.StatusConsumed,
			"quantity": 0,
		}).
		Patch("/fridge_items")

	if err != nil {
		return common.WrapError(common.ErrStore, fmt.Errorf("retire items: %w", err))
	}
	if resp.StatusCode() >= http.StatusMultipleChoices {
		return common.WrapError(common.ErrStore, fmt.Errorf("retire items: status %d: %s", resp.StatusCode(), resp.String()))
	}

	return nil
}

// PatchItem 修補單一庫存列的指定欄位
func (s *SupabaseStore) PatchItem(ctx context.Context, id int64, fields map[string]interface{}) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("id", fmt.Sprintf("eq.%d", id)).
		SetBody(fields).
		Patch("/fridge_items")

	if err != nil {
		return common.WrapError(common.ErrStore, fmt.Errorf("patch item %d: %w", id, err))
	}
	if resp.StatusCode() >= http.StatusMultipleChoices {
		return common.WrapError(common.ErrStore, fmt.Errorf("patch item %d: status %d: %s", id, resp.StatusCode(), resp.String()))
	}

	return nil
}

// AddShoppingListEntry 把用完的食材加入智慧購物清單
func (s *SupabaseStore) AddShoppingListEntry(ctx context.Context, name string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=minimal").
		SetBody(common.ShoppingListEntry{
			Name:   name,
			Status: "pending",
		}).
		Post("/smart_shopping_list")

	if err != nil {
		return common.WrapError(common.ErrStore, fmt.Errorf("add shopping list entry: %w", err))
	}
	if resp.StatusCode() >= http.StatusMultipleChoices {
		return common.WrapError(common.ErrStore, fmt.Errorf("add shopping list entry: status %d: %s", resp.StatusCode(), resp.String()))
	}

	common.LogInfo("已加入購物清單",
		zap.String("item_name", name),
	)

	return nil
}
