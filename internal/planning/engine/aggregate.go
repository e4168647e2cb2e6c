package engine

import (
	"sort"
)

// Aggregate 把取整后的需求按供应商聚合为建议草案，一个供应商一条建议，
// 每个物料一条明细：数量跨需求日累加，需求日取最早，交期风险按位或
func Aggregate(catalog Catalog, sized []SizedRequirement) []DraftSuggestion {
	bySupplier := make(map[string]map[string]*DraftLine)
	for _, req := range sized {
		lines, ok := bySupplier[req.SupplierID]
		if !ok {
			lines = make(map[string]*DraftLine)
			bySupplier[req.SupplierID] = lines
		}

		line, ok := lines[req.MaterialID]
		if !ok {
			info := catalog.Materials[req.MaterialID]
			lines[req.MaterialID] = &DraftLine{
				MaterialID:   req.MaterialID,
				MaterialCode: info.Code,
				MaterialName: info.Name,
				Unit:         req.Unit,
				Quantity:     req.Quantity,
				UnitPrice:    req.UnitPrice,
				NeedByDate:   req.NeedByDate,
				LeadTimeRisk: req.LeadTimeRisk,
			}
			continue
		}

		line.Quantity = line.Quantity.Add(req.Quantity)
		if req.NeedByDate.Before(line.NeedByDate) {
			line.NeedByDate = req.NeedByDate
		}
		line.LeadTimeRisk = line.LeadTimeRisk || req.LeadTimeRisk
	}

	supplierIDs := make([]string, 0, len(bySupplier))
	for id := range bySupplier {
		supplierIDs = append(supplierIDs, id)
	}
	sort.Strings(supplierIDs)

	suggestions := make([]DraftSuggestion, 0, len(supplierIDs))
	for _, supplierID := range supplierIDs {
		lineMap := bySupplier[supplierID]
		materialIDs := make([]string, 0, len(lineMap))
		for id := range lineMap {
			materialIDs = append(materialIDs, id)
		}
		sort.Strings(materialIDs)

		lines := make([]DraftLine, 0, len(materialIDs))
		for _, id := range materialIDs {
			lines = append(lines, *lineMap[id])
		}
		suggestions = append(suggestions, DraftSuggestion{SupplierID: supplierID, Lines: lines})
	}

	return suggestions
}
