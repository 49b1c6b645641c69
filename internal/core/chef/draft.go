package chef

import (
	"smart-fridge/internal/pkg/common"

	"go.uber.org/zap"
)

// ParseDraft 把模型回應解析成食譜草稿。
// 抽取或解析失敗時不報錯，改回傳只含原始文字的 fallback 草稿，
// 讓呼叫方決定是顯示原文重試還是直接回報。fallback 草稿的
// Parsed 為 nil，結構上就不可能被拿去扣庫存。
func ParseDraft(raw string) common.RecipeDraft {
	extracted, err := common.ExtractJSONObject(raw)
	if err != nil {
		common.LogWarn("模型回應不含 JSON 物件，保留原文",
			zap.Error(err),
		)
		return common.RecipeDraft{Raw: raw}
	}

	var parsed common.ParsedRecipe
	if err := common.ParseJSON(extracted, &parsed); err != nil {
		common.LogWarn("食譜 JSON 解析失敗，保留原文",
			zap.Error(err),
		)
		return common.RecipeDraft{Raw: raw}
	}

	return common.RecipeDraft{Parsed: &parsed}
}
