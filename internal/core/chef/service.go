package chef

import (
	"context"
	"time"

	"smart-fridge/internal/core/session"
	"smart-fridge/internal/infrastructure/config"
	"smart-fridge/internal/pkg/common"

	"go.uber.org/zap"
)

// ChatClient 對話模型客戶端。無狀態：每次呼叫都傳入完整歷史。
type ChatClient interface {
	Chat(ctx context.Context, messages []common.ChatMessage) (string, error)
}

// Service 個人廚師服務：食譜生成、修改、確認扣除的完整對話流程。
// 每個用戶同時只有一段對話，Session 儲存負責按用戶序列化操作。
type Service struct {
	store    InventoryStore
	chat     ChatClient
	sessions session.Store
	config   *config.Config
	now      func() time.Time
}

// NewService 創建廚師服務
func NewService(store InventoryStore, chat ChatClient, sessions session.Store, cfg *config.Config) *Service {
	return &Service{
		store:    store,
		chat:     chat,
		sessions: sessions,
		config:   cfg,
		now:      time.Now,
	}
}

// RecipeResponse 生成或修改後回傳的食譜與庫存快照
type RecipeResponse struct {
	Recipe      *common.ParsedRecipe   `json:"recipe"`
	ActiveItems []common.InventoryItem `json:"active_items"`
	Guests      int                    `json:"guests"`
}

// ConfirmResponse 確認扣除的結果摘要
type ConfirmResponse struct {
	Status                string                   `json:"status"`
	DeductedItems         []common.DeductionResult `json:"deducted_items"`
	ShoppingListAdditions []string                 `json:"shopping_list_additions"`
}

// FeedbackResponse 自由回饋的分流結果，依意圖只填其中一個欄位
type FeedbackResponse struct {
	Intent       Intent           `json:"intent"`
	Recipe       *RecipeResponse  `json:"recipe,omitempty"`
	Confirmation *ConfirmResponse `json:"confirmation,omitempty"`
}

// FetchFoodItems 取得過濾、排序後的可烹飪庫存
func (s *Service) FetchFoodItems(ctx context.Context) ([]common.InventoryItem, error) {
	items, err := s.store.FetchActive(ctx)
	if err != nil {
		return nil, err
	}

	food := FilterFoodItems(items)
	if filtered := len(items) - len(food); filtered > 0 {
		common.LogInfo("已過濾非食品項目",
			zap.Int("數量", filtered),
		)
	}
	return food, nil
}

// sendAndParse 把一則訊息接到歷史後送出，回傳更新後的歷史與解析結果
func (s *Service) sendAndParse(ctx context.Context, history []common.ChatMessage, message string) ([]common.ChatMessage, common.RecipeDraft, error) {
	history = append(history, common.ChatMessage{Role: common.RoleUser, Content: message})

	reply, err := s.chat.Chat(ctx, history)
	if err != nil {
		return nil, common.RecipeDraft{}, err
	}

	history = append(history, common.ChatMessage{Role: common.RoleAssistant, Content: reply})
	return history, ParseDraft(reply), nil
}

// GenerateRecipe 依用戶的料理心情生成食譜並開啟新對話。
//
// 流程：
//  1. 取得過濾後的庫存，空庫存直接回報。
//  2. 以廚師人設開新對話，生成一人份基礎食譜。
//  3. 解析失敗（fallback 草稿）不建立 Session，直接回報。
//  4. guests > 1 時追加縮放訊息；縮放失敗不致命，保留一人份。
//  5. 存入 Session（同用戶既有對話整個被取代）。
func (s *Service) GenerateRecipe(ctx context.Context, userID, prompt string, guests int) (*RecipeResponse, error) {
	if guests < 1 {
		guests = 1
	}

	var resp *RecipeResponse
	err := s.sessions.WithLock(ctx, userID, func() error {
		items, err := s.FetchFoodItems(ctx)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return common.ErrEmptyInventory
		}

		history := []common.ChatMessage{
			{Role: common.RoleSystem, Content: systemInstruction},
		}

		history, draft, err := s.sendAndParse(ctx, history, BuildInitialPrompt(items, prompt))
		if err != nil {
			return err
		}
		if draft.IsFallback() {
			return common.WrapError(common.ErrMalformedDraft, nil)
		}

		// 縮放失敗不致命：保留一人份食譜
		if guests > 1 {
			scaledHistory, scaled, err := s.sendAndParse(ctx, history, BuildScalingPrompt(guests))
			if err != nil {
				common.LogWarn("食譜縮放失敗，保留一人份",
					zap.Int("人數", guests),
					zap.Error(err),
				)
			} else if scaled.IsFallback() {
				common.LogWarn("縮放回傳無法解析，保留一人份",
					zap.Int("人數", guests),
				)
			} else {
				history = scaledHistory
				draft = scaled
			}
		}

		sess := &session.Session{
			UserID:      userID,
			History:     history,
			ActiveItems: items,
			Recipe:      draft,
			Revisions:   0,
			CreatedAt:   s.now(),
		}
		if err := s.sessions.Put(ctx, userID, sess); err != nil {
			return err
		}

		common.LogInfo("食譜已生成",
			zap.String("用戶", userID),
			zap.String("食譜", draft.Parsed.RecipeName),
			zap.Int("人數", guests),
		)

		resp = &RecipeResponse{
			Recipe:      draft.Parsed,
			ActiveItems: items,
			Guests:      guests,
		}
		return nil
	})
	return resp, err
}

// ReviseRecipe 把自由回饋送進既有對話，取得修改後的食譜。
// 修改次數達到上限時刪除 Session 並回報，用戶需重新生成。
// 修改失敗（AI 錯誤或解析失敗）不動既有 Session。
func (s *Service) ReviseRecipe(ctx context.Context, userID, feedback string) (*RecipeResponse, error) {
	var resp *RecipeResponse
	err := s.sessions.WithLock(ctx, userID, func() error {
		sess, err := s.sessions.Get(ctx, userID)
		if err != nil {
			return err
		}
		if sess == nil {
			return common.ErrNoSession
		}

		if sess.Revisions >= s.config.Session.MaxRevisions {
			if err := s.sessions.Delete(ctx, userID); err != nil {
				return err
			}
			common.LogInfo("修改次數達上限，對話已結束",
				zap.String("用戶", userID),
				zap.Int("上限", s.config.Session.MaxRevisions),
			)
			return common.ErrSessionExpired
		}

		history, draft, err := s.sendAndParse(ctx, sess.History, BuildRevisionPrompt(feedback))
		if err != nil {
			return err
		}
		if draft.IsFallback() {
			return common.WrapError(common.ErrMalformedDraft, nil)
		}

		sess.History = history
		sess.Recipe = draft
		sess.Revisions++
		if err := s.sessions.Put(ctx, userID, sess); err != nil {
			return err
		}

		common.LogInfo("食譜已修改",
			zap.String("用戶", userID),
			zap.Int("修改次數", sess.Revisions),
		)

		resp = &RecipeResponse{
			Recipe:      draft.Parsed,
			ActiveItems: sess.ActiveItems,
			Guests:      1,
		}
		return nil
	})
	return resp, err
}

// ConfirmRecipe 執行確認扣除並銷毀 Session。
// 以生成當下的庫存快照為扣除依據，單項失敗記錄後繼續。
func (s *Service) ConfirmRecipe(ctx context.Context, userID string) (*ConfirmResponse, error) {
	var resp *ConfirmResponse
	err := s.sessions.WithLock(ctx, userID, func() error {
		sess, err := s.sessions.Get(ctx, userID)
		if err != nil {
			return err
		}
		if sess == nil {
			return common.ErrNoSession
		}

		// 生成與修改都擋下 fallback 草稿，這裡理論上碰不到
		if sess.Recipe.IsFallback() {
			return common.WrapError(common.ErrMalformedDraft, nil)
		}

		usedItems := sess.Recipe.Parsed.UsedItems
		if len(usedItems) == 0 {
			return common.ErrNoUsedItems
		}

		summary := Deduct(ctx, s.store, usedItems, sess.ActiveItems, s.config.Matching.ConsumeThreshold)

		if err := s.sessions.Delete(ctx, userID); err != nil {
			return err
		}

		common.LogInfo("食譜已確認，對話結束",
			zap.String("用戶", userID),
			zap.Int("扣除項目", len(summary.Deducted)),
			zap.Int("購物清單新增", len(summary.ShoppingAdded)),
		)

		resp = &ConfirmResponse{
			Status:                "success",
			DeductedItems:         summary.Deducted,
			ShoppingListAdditions: summary.ShoppingAdded,
		}
		return nil
	})
	return resp, err
}

// CancelRecipe 放棄目前的對話，不做任何庫存變更
func (s *Service) CancelRecipe(ctx context.Context, userID string) error {
	return s.sessions.WithLock(ctx, userID, func() error {
		sess, err := s.sessions.Get(ctx, userID)
		if err != nil {
			return err
		}
		if sess == nil {
			return common.ErrNoSession
		}

		if err := s.sessions.Delete(ctx, userID); err != nil {
			return err
		}

		common.LogInfo("對話已取消",
			zap.String("用戶", userID),
		)
		return nil
	})
}

// HandleFeedback 對自由回饋分類意圖並分流：
// 確認 → 扣除庫存；取消 → 結束對話；其餘 → 當成修改請求。
func (s *Service) HandleFeedback(ctx context.Context, userID, message string) (*FeedbackResponse, error) {
	intent := ClassifyIntent(message, &s.config.Intent)

	common.LogInfo("用戶回饋已分類",
		zap.String("用戶", userID),
		zap.String("意圖", string(intent)),
	)

	switch intent {
	case IntentConfirm:
		confirmation, err := s.ConfirmRecipe(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &FeedbackResponse{Intent: intent, Confirmation: confirmation}, nil

	case IntentCancel:
		if err := s.CancelRecipe(ctx, userID); err != nil {
			return nil, err
		}
		return &FeedbackResponse{Intent: intent}, nil

	default:
		recipe, err := s.ReviseRecipe(ctx, userID, message)
		if err != nil {
			return nil, err
		}
		return &FeedbackResponse{Intent: intent, Recipe: recipe}, nil
	}
}
