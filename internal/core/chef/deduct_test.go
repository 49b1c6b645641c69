package chef

import (
	"context"
	"errors"
	"testing"

	"smart-fridge/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInventoryStore struct {
	active      []common.InventoryItem
	patches     map[int64][]map[string]interface{}
	shopping    []string
	patchErrFor int64
	shoppingErr error
	fetchErr    error
}

func newFakeInventoryStore(active []common.InventoryItem) *fakeInventoryStore {
	return &fakeInventoryStore{
		active:  active,
		patches: make(map[int64][]map[string]interface{}),
	}
}

func (f *fakeInventoryStore) FetchActive(ctx context.Context) ([]common.InventoryItem, error) {
	return f.active, f.fetchErr
}

func (f *fakeInventoryStore) PatchItem(ctx context.Context, id int64, fields map[string]interface{}) error {
	if f.patchErrFor == id {
		return errors.New("patch failed")
	}
	f.patches[id] = append(f.patches[id], fields)
	return nil
}

func (f *fakeInventoryStore) AddShoppingListEntry(ctx context.Context, name string) error {
	if f.shoppingErr != nil {
		return f.shoppingErr
	}
	f.shopping = append(f.shopping, name)
	return nil
}

func snapshot() []common.InventoryItem {
	return []common.InventoryItem{
		{ID: 1, Name: "ביצים", Quantity: 6, Status: common.StatusActive},
		{ID: 2, Name: "חלב", Quantity: 1, Status: common.StatusActive},
		{ID: 3, Name: "עוף", Quantity: 2.674, Status: common.StatusActive},
	}
}

func TestDeductPartialConsumption(t *testing.T) {
	store := newFakeInventoryStore(snapshot())
	used := []common.UsedItem{{Name: "ביצים", QuantityUsed: 2}}

	summary := Deduct(context.Background(), store, used, snapshot(), 0.70)

	require.Len(t, summary.Deducted, 1)
	d := summary.Deducted[0]
	assert.Equal(t, 6.0, d.QuantityBefore)
	assert.Equal(t, 2.0, d.QuantityDeducted)
	assert.Equal(t, 4.0, d.QuantityAfter)
	assert.False(t, d.FullyConsumed)
	assert.Empty(t, summary.ShoppingAdded)

	// 部分扣除只更新數量
	require.Len(t, store.patches[1], 1)
	assert.Equal(t, map[string]interface{}{"quantity": 4.0}, store.patches[1][0])
}

func TestDeductFullConsumptionAddsToShoppingList(t *testing.T) {
	store := newFakeInventoryStore(snapshot())
	used := []common.UsedItem{{Name: "חלב", QuantityUsed: 1}}

	summary := Deduct(context.Background(), store, used, snapshot(), 0.70)

	require.Len(t, summary.Deducted, 1)
	d := summary.Deducted[0]
	assert.True(t, d.FullyConsumed)
	assert.Equal(t, 0.0, d.QuantityAfter)
	assert.Equal(t, []string{"חלב"}, summary.ShoppingAdded)

	// 用完：狀態 consumed 且數量歸零
	require.Len(t, store.patches[2], 1)
	assert.Equal(t, common.StatusConsumed, store.patches[2][0]["status"])
	assert.Equal(t, 0, store.patches[2][0]["quantity"])
}

func TestDeductClampsQuantityUsed(t *testing.T) {
	// 用量下限 1.0：模型回傳 0.2 仍按 1.0 扣
	store := newFakeInventoryStore(snapshot())
	used := []common.UsedItem{{Name: "ביצים", QuantityUsed: 0.2}}

	summary := Deduct(context.Background(), store, used, snapshot(), 0.70)

	require.Len(t, summary.Deducted, 1)
	assert.Equal(t, 1.0, summary.Deducted[0].QuantityDeducted)
	assert.Equal(t, 5.0, summary.Deducted[0].QuantityAfter)
}

func TestDeductRoundsFloatingPointNoise(t *testing.T) {
	store := newFakeInventoryStore(snapshot())
	used := []common.UsedItem{{Name: "עוף", QuantityUsed: 1.0}}

	summary := Deduct(context.Background(), store, used, snapshot(), 0.70)

	require.Len(t, summary.Deducted, 1)
	assert.Equal(t, 1.674, summary.Deducted[0].QuantityAfter)
}

func TestDeductFuzzyNameDrift(t *testing.T) {
	// 模型名稱輕微漂移（多一個字元）仍比中庫存
	store := newFakeInventoryStore(snapshot())
	used := []common.UsedItem{{Name: "ביציםם", QuantityUsed: 2}}

	summary := Deduct(context.Background(), store, used, snapshot(), 0.70)
	require.Len(t, summary.Deducted, 1)
	assert.Equal(t, "ביצים", summary.Deducted[0].Name)
}

func TestDeductSkipsUnmatchedItem(t *testing.T) {
	store := newFakeInventoryStore(snapshot())
	used := []common.UsedItem{
		{Name: "אננס", QuantityUsed: 1},
		{Name: "חלב", QuantityUsed: 1},
	}

	summary := Deduct(context.Background(), store, used, snapshot(), 0.70)

	// 沒比中的跳過，其他照常處理
	require.Len(t, summary.Deducted, 1)
	assert.Equal(t, "חלב", summary.Deducted[0].Name)
}

func TestDeductContinuesAfterStoreError(t *testing.T) {
	store := newFakeInventoryStore(snapshot())
	store.patchErrFor = 2
	used := []common.UsedItem{
		{Name: "חלב", QuantityUsed: 1},
		{Name: "ביצים", QuantityUsed: 2},
	}

	summary := Deduct(context.Background(), store, used, snapshot(), 0.70)

	// 單項失敗不中斷其他項目
	require.Len(t, summary.Deducted, 1)
	assert.Equal(t, "ביצים", summary.Deducted[0].Name)
	assert.Empty(t, summary.ShoppingAdded)
}
