package scanner

import (
	"strings"
	"unicode/utf8"
)

// 希伯來語複數後綴，由長到短排列。
// 順序不可變：「יות」必須先於「ות」嘗試，否則會被部分剝除。
var pluralSuffixes = []string{"יות", "ים", "ות"}

// Normalize 比對用的輕量希伯來語正規化，結果不落地儲存。
// 剝除常見複數後綴，讓近似型能互相比中：
//
//	'תפוחים'  →  'תפוח'
//	'עגבניות' →  'עגבני'
//	'ביצים'   →  'ביצ'
//
// 剝除後剩餘字元不足兩個時不剝除，避免短字被削成空殼。
// 每次呼叫最多剝除一個後綴：巢狀後綴只剝最外層，
// 結果可能仍以另一個後綴結尾，不再處理。
func Normalize(name string) string {
	name = strings.TrimSpace(name)
	for _, suffix := range pluralSuffixes {
		if strings.HasSuffix(name, suffix) &&
			utf8.RuneCountInString(name) > utf8.RuneCountInString(suffix)+1 {
			name = strings.TrimSuffix(name, suffix)
			break
		}
	}
	return name
}
