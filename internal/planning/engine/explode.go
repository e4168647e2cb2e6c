package engine

import "time"

// Explode 把订单行展开为毛需求。不做聚合，保留行级来源供追溯；
// 没有BOM的变体记一条警告后跳过，不中断整个运行
func Explode(catalog Catalog, lines []OrderLine) ([]GrossDemand, []Warning) {
	var gross []GrossDemand
	var warnings []Warning
	warned := make(map[string]bool)

	for _, line := range lines {
		entries, err := ResolveBOM(catalog, line.ProductVariantID)
		if err != nil {
			if !warned[line.ProductVariantID] {
				warned[line.ProductVariantID] = true
				warnings = append(warnings, Warning{
					Kind:    WarnBOMNotFound,
					RefID:   line.ProductVariantID,
					Message: err.Error(),
				})
			}
			continue
		}

		for _, entry := range entries {
			gross = append(gross, GrossDemand{
				MaterialID:        entry.MaterialID,
				Unit:              entry.Unit,
				Quantity:          line.Quantity.Mul(entry.QtyPerUnit),
				NeedByDate:        dayOf(line.DeliveryDate),
				SourceOrderLineID: line.ID,
			})
		}
	}

	return gross, warnings
}

// dayOf 需求日按自然日分桶
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
