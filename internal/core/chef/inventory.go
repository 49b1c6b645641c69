package chef

import (
	"sort"
	"strings"

	"smart-fridge/internal/pkg/common"
)

// 非食品過濾規則：押金、購物袋、包裝費與「אחר」分類的項目
// 一律不進入食譜生成，模型根本不該看到它們。
var (
	nonFoodCategories = map[string]bool{"אחר": true}
	nonFoodNameTokens = []string{"פיקדון", "שקית", "קרטון", "אריזה"}
)

// IsFoodItem 純粹的守門函式，非食品項目回傳 false
func IsFoodItem(item common.InventoryItem) bool {
	if nonFoodCategories[item.Category] {
		return false
	}
	for _, token := range nonFoodNameTokens {
		if strings.Contains(item.Name, token) {
			return false
		}
	}
	return true
}

// FilterFoodItems 去掉非食品項目並按到期日升冪排序。
// 最快到期的排最前，模型在提示詞裡自然會優先採用，
// 不需要任何「過期／緊急」語彙。
func FilterFoodItems(items []common.InventoryItem) []common.InventoryItem {
	food := make([]common.InventoryItem, 0, len(items))
	for _, item := range items {
		if IsFoodItem(item) {
			food = append(food, item)
		}
	}

	// 日期為 YYYY-MM-DD，字典序即時間序
	sort.SliceStable(food, func(i, j int) bool {
		return food[i].ExpiryDate < food[j].ExpiryDate
	})

	return food
}
