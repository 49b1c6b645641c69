package scanner

import (
	"time"

	"smart-fridge/internal/infrastructure/config"
	"smart-fridge/internal/pkg/common"

	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"
)

// Similarity 計算兩個名稱的相似度（0.0 到 1.0）。
// 以字元序列跑 SequenceMatcher，與掃描引擎原本的比對行為一致。
func Similarity(a, b string) float64 {
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

// splitRunes 把字串切成單一字元的序列，讓比對以字元為單位
func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// FindBestMatch 在現有庫存中模糊搜尋最接近的項目。
// 比對前先對目標與所有候選鍵做正規化，勝出的正規化鍵
// 再對應回原始庫存列，確保「תפוחים」能比中既有的「תפוח」。
// 相似度達不到閾值時回傳 false。
func FindBestMatch(targetName string, activeItems map[string]common.InventoryItem, threshold float64) (common.InventoryItem, bool) {
	normalizedTarget := Normalize(targetName)

	var (
		bestItem  common.InventoryItem
		bestRatio float64
		found     bool
	)

	for originalKey, item := range activeItems {
		ratio := Similarity(normalizedTarget, Normalize(originalKey))
		if ratio >= threshold && ratio > bestRatio {
			bestItem = item
			bestRatio = ratio
			found = true
		}
	}

	return bestItem, found
}

// AdaptiveThreshold 依最近掃描時間選擇比對閾值。
//
// 問題：幾分鐘內重掃同一張收據，會產生帶 OCR 雜訊的近似名稱
// （例如「מלפפון」與「מלפפון 」）。在標準閾值下這些被當成新項目，
// 造成重複列。
//
// 解法：最近一筆插入在時間窗內時，降到低閾值積極合併雜訊變體。
func AdaptiveThreshold(latestTS *time.Time, now time.Time, cfg *config.MatchingConfig) float64 {
	if latestTS == nil {
		return cfg.HighThreshold
	}

	age := now.Sub(latestTS.UTC())
	if age <= cfg.RecencyWindow {
		common.LogInfo("偵測到近期掃描，切換到積極去重閾值",
			zap.Duration("距離上次插入", age),
			zap.Float64("閾值", cfg.LowThreshold),
		)
		return cfg.LowThreshold
	}

	return cfg.HighThreshold
}
