package scanner

import (
	"context"
	"time"

	"smart-fridge/internal/infrastructure/config"
	"smart-fridge/internal/pkg/common"

	"go.uber.org/zap"
)

// Recognizer 收據辨識服務
type Recognizer interface {
	RecognizeReceipt(ctx context.Context, prompt, imageData string) (string, error)
}

// InventoryStore 掃描端需要的庫存操作
type InventoryStore interface {
	FetchActive(ctx context.Context) ([]common.InventoryItem, error)
	LatestInsertTimestamp(ctx context.Context) *time.Time
	InsertItems(ctx context.Context, rows []common.InsertRow) error
	RetireItems(ctx context.Context, ids []int64) error
}

// Service 收據掃描服務：辨識、對帳、寫入一條龍
type Service struct {
	store      InventoryStore
	recognizer Recognizer
	config     *config.Config
	now        func() time.Time
}

// NewService 創建收據掃描服務
func NewService(store InventoryStore, recognizer Recognizer, cfg *config.Config) *Service {
	return &Service{
		store:      store,
		recognizer: recognizer,
		config:     cfg,
		now:        time.Now,
	}
}

// ScanResult 一次掃描的結果摘要
type ScanResult struct {
	ScanID            string   `json:"scan_id"`
	Inserted          int      `json:"inserted"`
	Retired           int      `json:"retired"`
	DuplicatesSkipped int      `json:"duplicates_skipped"`
	SkippedNoExpiry   []string `json:"skipped_no_expiry"`
	Threshold         float64  `json:"threshold"`
}

// recognitionPayload 視覺模型回傳的 JSON 結構
type recognitionPayload struct {
	Items []common.CandidateItem `json:"items"`
}

// ScanReceipt 完整的收據攝取流程：
//  1. 視覺模型辨識收據（暫時性失敗由客戶端重試）。
//  2. 解析辨識結果，失敗視為格式錯誤，不重試。
//  3. 探測最近插入時間戳，選擇自適應閾值（探測失敗退回標準閾值）。
//  4. 對現有庫存做模糊對帳，產生插入/淘汰/跳過計畫。
//  5. 先批次淘汰舊列，再批次插入新列。
func (s *Service) ScanReceipt(ctx context.Context, imageData string) (*ScanResult, error) {
	scanID := common.GenerateUUID()

	raw, err := s.recognizer.RecognizeReceipt(ctx, receiptPrompt, imageData)
	if err != nil {
		return nil, err
	}

	extracted, err := common.ExtractJSONObject(raw)
	if err != nil {
		common.LogError("辨識結果不含 JSON 物件",
			zap.Error(err),
		)
		return nil, common.WrapError(common.ErrMalformedScan, err)
	}

	var payload recognitionPayload
	if err := common.ParseJSON(extracted, &payload); err != nil {
		common.LogError("辨識結果解析失敗",
			zap.Error(err),
		)
		return nil, common.WrapError(common.ErrMalformedScan, err)
	}

	purchaseDate := s.now()

	// 探測失敗回傳 nil，閾值退回標準值
	latestTS := s.store.LatestInsertTimestamp(ctx)
	threshold := AdaptiveThreshold(latestTS, purchaseDate.UTC(), &s.config.Matching)

	active, err := s.store.FetchActive(ctx)
	if err != nil {
		return nil, err
	}

	plan := Reconcile(payload.Items, active, threshold, purchaseDate)

	if len(plan.RetireIDs) > 0 {
		if err := s.store.RetireItems(ctx, plan.RetireIDs); err != nil {
			return nil, err
		}
		common.LogInfo("已淘汰補貨前的舊項目",
			zap.Int("數量", len(plan.RetireIDs)),
		)
	}

	if len(plan.Inserts) > 0 {
		if err := s.store.InsertItems(ctx, plan.Inserts); err != nil {
			return nil, err
		}
	}

	common.LogInfo("收據掃描完成",
		zap.String("scan_id", scanID),
		zap.Int("插入", len(plan.Inserts)),
		zap.Int("淘汰", len(plan.RetireIDs)),
		zap.Int("重複跳過", plan.DuplicatesSkipped),
		zap.Strings("無效期跳過", plan.SkippedNoExpiry),
		zap.Float64("閾值", threshold),
	)

	return &ScanResult{
		ScanID:            scanID,
		Inserted:          len(plan.Inserts),
		Retired:           len(plan.RetireIDs),
		DuplicatesSkipped: plan.DuplicatesSkipped,
		SkippedNoExpiry:   plan.SkippedNoExpiry,
		Threshold:         threshold,
	}, nil
}
