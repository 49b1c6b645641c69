package chef

import (
	"context"
	"math"
	"strings"

	"smart-fridge/internal/core/scanner"
	"smart-fridge/internal/pkg/common"

	"go.uber.org/zap"
)

// InventoryStore 廚師端需要的庫存操作
type InventoryStore interface {
	FetchActive(ctx context.Context) ([]common.InventoryItem, error)
	PatchItem(ctx context.Context, id int64, fields map[string]interface{}) error
	AddShoppingListEntry(ctx context.Context, name string) error
}

// DeductionSummary 一次確認扣除的完整結果
type DeductionSummary struct {
	Deducted      []common.DeductionResult
	ShoppingAdded []string
}

// resolveItem 先完全比對，失敗時退回模糊比對。
// 扣除路徑的模糊比對不做複數正規化，固定閾值，
// 只處理模型輕微的名稱漂移。
func resolveItem(name string, byName map[string]common.InventoryItem, threshold float64) (common.InventoryItem, bool) {
	if item, ok := byName[name]; ok {
		return item, true
	}

	var (
		best      common.InventoryItem
		bestRatio float64
		found     bool
	)
	for key, item := range byName {
		ratio := scanner.Similarity(name, key)
		if ratio >= threshold && ratio > bestRatio {
			best = item
			bestRatio = ratio
			found = true
		}
	}

	if found {
		common.LogInfo("扣除比中近似名稱",
			zap.String("食譜名稱", name),
			zap.String("庫存名稱", best.Name),
			zap.Float64("相似度", bestRatio),
		)
	}
	return best, found
}

// Deduct 依確認的食譜更新庫存數量。
//
// 對 used_fridge_items 的每一項：
//   - 名稱先完全比對再模糊比對；沒比中就記錄並跳過。
//   - 用量下限為 1.0（數量可以是小數，例如 0.25 公斤的肉）。
//   - 剩餘量四捨五入到小數點後三位，消除浮點雜訊。
//   - 剩餘 <= 0：標記 consumed、數量歸零、加入購物清單。
//   - 剩餘 > 0：只更新數量欄位。
//
// 以生成當下的庫存快照為準，不再重新讀取資料庫。
// 單項資料庫失敗記錄後繼續，不中斷其他項目。
func Deduct(ctx context.Context, store InventoryStore, usedItems []common.UsedItem, snapshot []common.InventoryItem, threshold float64) DeductionSummary {
	byName := make(map[string]common.InventoryItem, len(snapshot))
	for _, item := range snapshot {
		byName[item.Name] = item
	}

	summary := DeductionSummary{
		Deducted:      make([]common.DeductionResult, 0, len(usedItems)),
		ShoppingAdded: make([]string, 0),
	}

	for _, used := range usedItems {
		name := strings.TrimSpace(used.Name)
		qtyUsed := math.Max(1.0, used.QuantityUsed)

		dbItem, found := resolveItem(name, byName, threshold)
		if !found {
			common.LogWarn("食譜食材在庫存中找不到，跳過",
				zap.String("名稱", name),
			)
			continue
		}

		currentQty := dbItem.Quantity
		remaining := round3(currentQty - qtyUsed)

		if remaining <= 0 {
			if err := store.PatchItem(ctx, dbItem.ID, map[string]interface{}{
				"status":   common.StatusConsumed,
				"quantity": 0,
			}); err != nil {
				common.LogError("庫存更新失敗，繼續處理其他項目",
					zap.String("名稱", dbItem.Name),
					zap.Error(err),
				)
				continue
			}

			if err := store.AddShoppingListEntry(ctx, dbItem.Name); err != nil {
				common.LogError("加入購物清單失敗",
					zap.String("名稱", dbItem.Name),
					zap.Error(err),
				)
			} else {
				summary.ShoppingAdded = append(summary.ShoppingAdded, dbItem.Name)
			}

			summary.Deducted = append(summary.Deducted, common.DeductionResult{
				Name:             dbItem.Name,
				QuantityBefore:   currentQty,
				QuantityDeducted: qtyUsed,
				QuantityAfter:    0,
				FullyConsumed:    true,
			})
		} else {
			if err := store.PatchItem(ctx, dbItem.ID, map[string]interface{}{
				"quantity": remaining,
			}); err != nil {
				common.LogError("庫存更新失敗，繼續處理其他項目",
					zap.String("名稱", dbItem.Name),
					zap.Error(err),
				)
				continue
			}

			summary.Deducted = append(summary.Deducted, common.DeductionResult{
				Name:             dbItem.Name,
				QuantityBefore:   currentQty,
				QuantityDeducted: qtyUsed,
				QuantityAfter:    remaining,
				FullyConsumed:    false,
			})
		}

		common.LogInfo("庫存已扣除",
			zap.String("名稱", dbItem.Name),
			zap.Float64("扣除前", currentQty),
			zap.Float64("扣除後", math.Max(0, remaining)),
		)
	}

	return summary
}

// round3 四捨五入到小數點後三位
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
