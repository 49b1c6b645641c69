package chef

import (
	"testing"

	"smart-fridge/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFoodItem(t *testing.T) {
	assert.True(t, IsFoodItem(common.InventoryItem{Name: "חלב", Category: "מוצרי חלב וביצים"}))

	// 「אחר」分類與押金／袋子類名稱都不是食品
	assert.False(t, IsFoodItem(common.InventoryItem{Name: "משהו", Category: "אחר"}))
	assert.False(t, IsFoodItem(common.InventoryItem{Name: "פיקדון בקבוק", Category: "משקאות"}))
	assert.False(t, IsFoodItem(common.InventoryItem{Name: "שקית קניות", Category: "מזווה"}))
}

func TestFilterFoodItemsSortsByExpiry(t *testing.T) {
	items := []common.InventoryItem{
		{ID: 1, Name: "פסטה", Category: "מזווה", ExpiryDate: "2027-01-01"},
		{ID: 2, Name: "חלב", Category: "מוצרי חלב וביצים", ExpiryDate: "2026-09-01"},
		{ID: 3, Name: "פיקדון", Category: "אחר", ExpiryDate: "2026-08-28"},
		{ID: 4, Name: "עוף", Category: "בשר ודגים", ExpiryDate: "2026-11-15"},
	}

	food := FilterFoodItems(items)
	require.Len(t, food, 3)

	// 最快到期的排最前，非食品被剔除
	assert.Equal(t, int64(2), food[0].ID)
	assert.Equal(t, int64(4), food[1].ID)
	assert.Equal(t, int64(1), food[2].ID)
}
