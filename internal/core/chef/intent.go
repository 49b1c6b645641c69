package chef

import (
	"strings"

	"smart-fridge/internal/infrastructure/config"
)

// Intent 用戶回覆的意圖
type Intent string

const (
	IntentConfirm Intent = "confirm"
	IntentCancel  Intent = "cancel"
	IntentRevise  Intent = "revise"
)

// ClassifyIntent 把自由輸入的希伯來語／英語回覆分成三種意圖。
//
// 為什麼用子字串而不是完全比對？用戶自然會打多詞肯定句：
// 「כן תודה」、「יאללה בוא נעשה」。完全比對會全部漏接，
// 掉進修改路徑，把回答當成食譜回饋送給模型。
//
// 判斷順序不可調換，每一步都能短路後面的：
//  1. 取消（完全比對）— 單詞取消：「לא」、「ביי」、「no」。
//  2. 取消（片語）— 明確取消片語：「לא צריך」、「תודה רבה」。
//  3. 確認 — 含肯定關鍵詞且不含任何修改／否定關鍵詞。
//     修改關鍵詞是確認路徑的守門員：
//     「כן אבל תעשה יותר קליל」同時含「כן」（肯定）與
//     「אבל」+「יותר」（修改），守門員擋下確認 → 正確路由到修改。
//  4. 修改（預設）— 其餘一切，包括混合訊號與開放式修改請求。
func ClassifyIntent(answer string, cfg *config.IntentConfig) Intent {
	normalized := strings.ToLower(strings.TrimSpace(answer))

	// 第一步：單詞取消，完全比對
	for _, exact := range cfg.CancelExact {
		if normalized == exact {
			return IntentCancel
		}
	}

	// 第二步：取消片語，子字串搜尋
	for _, phrase := range cfg.CancelPhrases {
		if strings.Contains(normalized, phrase) {
			return IntentCancel
		}
	}

	// 第三步：肯定，但修改關鍵詞可以否決
	hasAffirm := containsAny(normalized, cfg.AffirmKeywords)
	hasChange := containsAny(normalized, cfg.ChangeKeywords)

	if hasAffirm && !hasChange {
		return IntentConfirm
	}

	// 第四步：預設當成修改請求
	return IntentRevise
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
