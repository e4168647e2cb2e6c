package engine

// ResolveBOM 解析变体的完整物料清单：产品级条目打底，变体级条目
// 按物料替换（而非累加）。两级都没有条目时返回BOMNotFoundError
func ResolveBOM(catalog Catalog, variantID string) ([]BOMEntry, error) {
	variant, ok := catalog.Variants[variantID]
	if !ok {
		return nil, &BOMNotFoundError{ProductVariantID: variantID}
	}

	common := catalog.CommonBOM[variant.ProductID]
	variation := catalog.VariationBOM[variantID]
	if len(common) == 0 && len(variation) == 0 {
		return nil, &BOMNotFoundError{ProductVariantID: variantID}
	}

	override := make(map[string]BOMEntry, len(variation))
	for _, entry := range variation {
		override[entry.MaterialID] = entry
	}

	merged := make([]BOMEntry, 0, len(common)+len(variation))
	seen := make(map[string]bool, len(common))
	for _, entry := range common {
		if repl, ok := override[entry.MaterialID]; ok {
			merged = append(merged, repl)
		} else {
			merged = append(merged, entry)
		}
		seen[entry.MaterialID] = true
	}
	// 变体特有的物料追加在产品级条目之后，保持输入顺序
	for _, entry := range variation {
		if !seen[entry.MaterialID] {
			merged = append(merged, entry)
		}
	}

	return merged, nil
}
