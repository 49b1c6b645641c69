package chef

import (
	"testing"

	"smart-fridge/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
)

func intentConfig() *config.IntentConfig {
	return &config.IntentConfig{
		CancelExact: []string{"לא", "no", "n", "0", "ביי", "bye"},
		CancelPhrases: []string{
			"לא צריך", "לא תודה", "לא, תודה", "תודה רבה",
			"ביי", "bye", "cancel", "exit", "quit",
		},
		AffirmKeywords: []string{
			"כן", "יאללה", "סבבה", "אני מכין", "מעולה", "מצוין",
			"אחלה", "בסדר", "הולך", "קדימה", "נעשה", "יאה", "טוב",
			"תודה", "ok", "sure", "yes", "y",
		},
		ChangeKeywords: []string{
			"לא", "אבל", "לשנות", "בלי", "שנה", "פחות",
			"יותר", "במקום", "אחרת", "רק",
		},
	}
}

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Intent
	}{
		// 第一層：單詞取消（完全比對）
		{"單詞取消希伯來語", "לא", IntentCancel},
		{"單詞取消英語", "no", IntentCancel},
		{"單詞取消帶空白", "  ביי  ", IntentCancel},

		// 第二層：取消片語（子字串）
		{"取消片語", "לא צריך, אולי מחר", IntentCancel},
		{"感謝式取消", "תודה רבה לך", IntentCancel},
		{"英語取消", "ok cancel that", IntentCancel},

		// 第三層：肯定且無修改訊號
		{"多詞肯定", "כן תודה", IntentConfirm},
		{"口語肯定", "יאללה בוא נעשה", IntentConfirm},
		{"現在就做", "אני מכין את זה עכשיו", IntentConfirm},
		{"英語肯定", "yes please", IntentConfirm},
		{"大寫英語肯定", "OK", IntentConfirm},

		// 混合訊號：修改關鍵詞否決肯定
		{"肯定但要求修改", "כן אבל תעשה יותר קליל", IntentRevise},
		{"肯定但去掉食材", "כן בלי בצל", IntentRevise},

		// 第四層：預設修改
		{"開放修改請求", "תעשה את זה חריף", IntentRevise},
		{"空輸入", "", IntentRevise},
	}

	cfg := intentConfig()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyIntent(tt.input, cfg))
		})
	}
}

func TestClassifyIntentCancelBeatsAffirm(t *testing.T) {
	// 取消片語優先於肯定關鍵詞：「לא תודה」含「תודה」（肯定）
	// 但取消片語先被比中
	assert.Equal(t, IntentCancel, ClassifyIntent("לא תודה", intentConfig()))
}
