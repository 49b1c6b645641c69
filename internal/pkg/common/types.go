package common

import "time"

// 庫存狀態
const (
	StatusActive   = "active"   // 仍在冰箱裡
	StatusConsumed = "consumed" // 已用完或已被新批次取代
)

// DateLayout 日期欄位統一格式（Supabase date 欄位）
const DateLayout = "2006-01-02"

// InventoryItem 冰箱庫存項目，由遠端資料庫擁有，本服務只讀取與修補。
// 不變量：Quantity >= 0；Status 為 consumed 時 Quantity 必為 0。
type InventoryItem struct {
	ID           int64   `json:"id"`
	Name         string  `json:"item_name"`
	Category     string  `json:"category"`
	Quantity     float64 `json:"quantity"`
	PurchaseDate string  `json:"purchase_date"` // YYYY-MM-DD
	ExpiryDate   string  `json:"expiry_date"`   // YYYY-MM-DD
	Status       string  `json:"status"`
}

// CandidateItem 辨識服務回傳的暫時性項目，轉換或丟棄後即失效。
// 日期一律由本服務計算，辨識服務只負責名稱、分類、數量與保存天數。
type CandidateItem struct {
	Name          string  `json:"item_name"`
	Category      string  `json:"category"`
	Quantity      float64 `json:"quantity"`
	ShelfLifeDays int     `json:"estimated_expiry_days"`
}

// InsertRow 準備寫入 fridge_items 的新列
type InsertRow struct {
	Name         string  `json:"item_name"`
	Category     string  `json:"category"`
	Quantity     float64 `json:"quantity"`
	PurchaseDate string  `json:"purchase_date"`
	ExpiryDate   string  `json:"expiry_date"`
	Status       string  `json:"status"`
}

// ShoppingListEntry 智慧購物清單項目。
// 只有烹飪把某項食材用到歸零時才會產生，補貨淘汰舊列不會產生。
type ShoppingListEntry struct {
	Name      string `json:"item_name"`
	Status    string `json:"status"` // pending
	CreatedAt string `json:"created_at,omitempty"`
}

// UsedItem 食譜宣告使用的食材與用量
type UsedItem struct {
	Name         string  `json:"item_name"`
	QuantityUsed float64 `json:"quantity_used"`
}

// ExcludedItem 廚師基於料理考量排除的食材
type ExcludedItem struct {
	Name   string `json:"item_name"`
	Reason string `json:"reason"`
}

// ParsedRecipe 結構化的食譜草稿（AI 回傳的 JSON 解析結果）
type ParsedRecipe struct {
	ChefMessage   string         `json:"chef_message"`
	RecipeName    string         `json:"recipe_name"`
	Tagline       string         `json:"tagline"`
	UsedItems     []UsedItem     `json:"used_fridge_items"`
	ExcludedItems []ExcludedItem `json:"excluded_items"`
	PantryStaples []string       `json:"pantry_staples_needed"`
	Instructions  []string       `json:"instructions"`
}

// RecipeDraft 一個版本的食譜草稿。Parsed 與 Raw 互斥：
// 解析成功時 Parsed 非空，解析失敗時只留原始文字（fallback 變體），
// 下游不可能把未解析內容誤當成結構化資料使用。
type RecipeDraft struct {
	Parsed *ParsedRecipe `json:"parsed,omitempty"`
	Raw    string        `json:"raw,omitempty"`
}

// IsFallback 草稿是否為無法解析的 fallback 變體
func (d RecipeDraft) IsFallback() bool {
	return d.Parsed == nil
}

// DeductionResult 單項食材的扣除結果
type DeductionResult struct {
	Name             string  `json:"item_name"`
	QuantityBefore   float64 `json:"quantity_before"`
	QuantityDeducted float64 `json:"quantity_deducted"`
	QuantityAfter    float64 `json:"quantity_after"`
	FullyConsumed    bool    `json:"fully_consumed"`
}

// ChatMessage 對話訊息（完整歷史由 Session 持有，AI 客戶端無狀態）
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// 對話角色
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// FormatDate 將時間格式化為日期字串
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
