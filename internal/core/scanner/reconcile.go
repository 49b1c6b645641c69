package scanner

import (
	"time"

	"smart-fridge/internal/pkg/common"
)

// Plan 一次掃描的對帳計畫：先算好要做什麼，再一次執行。
// RetireIDs 與 Inserts 分開批次送出，購買日期一律由本服務決定，
// 辨識服務永遠不碰日期。
type Plan struct {
	Inserts           []common.InsertRow
	RetireIDs         []int64
	DuplicatesSkipped int
	SkippedNoExpiry   []string
}

// BuildRows 把辨識出的候選項目轉成可寫入的庫存列。
// 日期規則在這裡強制執行，不委派給辨識服務：
//   - purchase_date = 呼叫方傳入的當下時間
//   - expiry_date   = purchase_date + 保存天數
//
// 沒有有效保存天數估計的項目會被跳過並記錄名稱。
func BuildRows(candidates []common.CandidateItem, purchaseDate time.Time) ([]common.InsertRow, []string) {
	purchaseDateStr := common.FormatDate(purchaseDate)
	rows := make([]common.InsertRow, 0, len(candidates))
	skipped := make([]string, 0)

	for _, item := range candidates {
		if item.ShelfLifeDays <= 0 {
			name := item.Name
			if name == "" {
				name = "unknown"
			}
			skipped = append(skipped, name)
			continue
		}

		expiryDate := purchaseDate.AddDate(0, 0, item.ShelfLifeDays)

		rows = append(rows, common.InsertRow{
			Name:         item.Name,
			Category:     item.Category,
			Quantity:     item.Quantity,
			PurchaseDate: purchaseDateStr,
			ExpiryDate:   common.FormatDate(expiryDate),
			Status:       common.StatusActive,
		})
	}

	return rows, skipped
}

// Reconcile 對每個候選列以自適應閾值做模糊比對，產生對帳計畫：
//   - 同日比中：同一張收據重掃，靜默跳過。
//   - 較舊比中：補貨，淘汰舊列並插入新列。
//   - 沒有比中：全新項目，直接插入。
//
// 同日檢查先於補貨檢查，日期為 YYYY-MM-DD 字串，可直接字典序比較。
// 已排入插入的列也加入比對字典，同一批內的重複候選
// （辨識服務聚合漏掉的）最多只產生一筆插入。
func Reconcile(candidates []common.CandidateItem, active []common.InventoryItem, threshold float64, purchaseDate time.Time) Plan {
	purchaseDateStr := common.FormatDate(purchaseDate)

	activeDict := make(map[string]common.InventoryItem, len(active))
	for _, item := range active {
		activeDict[item.Name] = item
	}

	rows, skippedNoExpiry := BuildRows(candidates, purchaseDate)

	plan := Plan{
		Inserts:         make([]common.InsertRow, 0, len(rows)),
		RetireIDs:       make([]int64, 0),
		SkippedNoExpiry: skippedNoExpiry,
	}

	for _, row := range rows {
		matched, found := FindBestMatch(row.Name, activeDict, threshold)
		if found {
			if matched.PurchaseDate == purchaseDateStr {
				plan.DuplicatesSkipped++
				continue
			}
			if purchaseDateStr > matched.PurchaseDate {
				plan.RetireIDs = append(plan.RetireIDs, matched.ID)
			}
		}
		plan.Inserts = append(plan.Inserts, row)

		// 批內去重：剛排入的列以掃描日期加入字典，
		// 後續的重複候選會落入同日跳過分支
		activeDict[row.Name] = common.InventoryItem{
			Name:         row.Name,
			PurchaseDate: purchaseDateStr,
			Status:       common.StatusActive,
		}
	}

	return plan
}
