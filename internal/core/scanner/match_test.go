package scanner

import (
	"testing"
	"time"

	"smart-fridge/internal/infrastructure/config"
	"smart-fridge/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matchingConfig() *config.MatchingConfig {
	return &config.MatchingConfig{
		HighThreshold:    0.80,
		LowThreshold:     0.55,
		ConsumeThreshold: 0.70,
		RecencyWindow:    15 * time.Minute,
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("חלב", "חלב"))
	assert.Equal(t, 0.0, Similarity("חלב", "xyz"))

	// 近似名稱的相似度應落在中間
	ratio := Similarity("מלפפון", "מלפפונים")
	assert.Greater(t, ratio, 0.5)
	assert.Less(t, ratio, 1.0)
}

func TestFindBestMatchNormalizesBothSides(t *testing.T) {
	active := map[string]common.InventoryItem{
		"תפוח": {ID: 1, Name: "תפוח"},
		"חלב":  {ID: 2, Name: "חלב"},
	}

	// 複數目標應比中單數庫存項目
	item, found := FindBestMatch("תפוחים", active, 0.80)
	require.True(t, found)
	assert.Equal(t, int64(1), item.ID)
}

func TestFindBestMatchBelowThreshold(t *testing.T) {
	active := map[string]common.InventoryItem{
		"חלב": {ID: 2, Name: "חלב"},
	}

	_, found := FindBestMatch("עגבניה", active, 0.80)
	assert.False(t, found)
}

func TestFindBestMatchThresholdMonotonic(t *testing.T) {
	active := map[string]common.InventoryItem{
		"מלפפון": {ID: 3, Name: "מלפפון"},
	}

	// 高閾值沒比中的，低閾值可能比中；反向不成立
	_, foundHigh := FindBestMatch("מלפפוני", active, 0.99)
	_, foundLow := FindBestMatch("מלפפוני", active, 0.55)
	assert.False(t, foundHigh)
	assert.True(t, foundLow)
}

func TestFindBestMatchEmptyInventory(t *testing.T) {
	_, found := FindBestMatch("חלב", map[string]common.InventoryItem{}, 0.55)
	assert.False(t, found)
}

func TestAdaptiveThresholdNoTimestamp(t *testing.T) {
	now := time.Now().UTC()
	assert.Equal(t, 0.80, AdaptiveThreshold(nil, now, matchingConfig()))
}

func TestAdaptiveThresholdWithinWindow(t *testing.T) {
	now := time.Now().UTC()
	recent := now.Add(-5 * time.Minute)
	assert.Equal(t, 0.55, AdaptiveThreshold(&recent, now, matchingConfig()))
}

func TestAdaptiveThresholdOutsideWindow(t *testing.T) {
	now := time.Now().UTC()
	old := now.Add(-16 * time.Minute)
	assert.Equal(t, 0.80, AdaptiveThreshold(&old, now, matchingConfig()))
}

func TestAdaptiveThresholdExactBoundary(t *testing.T) {
	// 剛好在時間窗邊界上仍算近期
	now := time.Now().UTC()
	boundary := now.Add(-15 * time.Minute)
	assert.Equal(t, 0.55, AdaptiveThreshold(&boundary, now, matchingConfig()))
}
