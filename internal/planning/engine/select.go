package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SelectAndSize 为每条净需求选定供应商并按最小起订量取整。
// 供应商选择：唯一preferred优先于最低单价；多条preferred视为数据完整性
// 问题，记警告并跳过该物料，不做猜测。无供货关系的物料同样记警告跳过
func SelectAndSize(catalog Catalog, today time.Time, requirements []NetRequirement) ([]SizedRequirement, []Warning) {
	var sized []SizedRequirement
	var warnings []Warning
	warned := make(map[string]bool)

	for _, req := range requirements {
		rel, warn := chooseRelationship(catalog.Relationships[req.MaterialID], req.MaterialID)
		if warn != nil {
			if !warned[req.MaterialID] {
				warned[req.MaterialID] = true
				warnings = append(warnings, *warn)
			}
			continue
		}

		sized = append(sized, SizedRequirement{
			MaterialID:   req.MaterialID,
			Unit:         req.Unit,
			SupplierID:   rel.SupplierID,
			Quantity:     lotSize(req.Quantity, rel.MinOrderQty),
			UnitPrice:    rel.UnitPrice,
			NeedByDate:   req.NeedByDate,
			LeadTimeRisk: leadTimeRisk(today, req.NeedByDate, rel.LeadTimeDays),
		})
	}

	return sized, warnings
}

func chooseRelationship(rels []Relationship, materialID string) (Relationship, *Warning) {
	if len(rels) == 0 {
		err := &NoSupplierError{MaterialID: materialID}
		return Relationship{}, &Warning{Kind: WarnNoSupplier, RefID: materialID, Message: err.Error()}
	}

	var preferred []Relationship
	for _, rel := range rels {
		if rel.Preferred {
			preferred = append(preferred, rel)
		}
	}
	if len(preferred) == 1 {
		return preferred[0], nil
	}
	if len(preferred) > 1 {
		return Relationship{}, &Warning{
			Kind:    WarnMultiplePreferred,
			RefID:   materialID,
			Message: fmt.Sprintf("material %s has %d preferred suppliers, expected at most one", materialID, len(preferred)),
		}
	}

	// 无preferred时取最低单价，价格相同按供应商ID保证结果确定
	best := rels[0]
	for _, rel := range rels[1:] {
		if rel.UnitPrice.LessThan(best.UnitPrice) ||
			(rel.UnitPrice.Equal(best.UnitPrice) && rel.SupplierID < best.SupplierID) {
			best = rel
		}
	}
	return best, nil
}

// lotSize moq>0时向上取整到moq的整数倍
func lotSize(net, moq decimal.Decimal) decimal.Decimal {
	if !moq.IsPositive() {
		return net
	}
	lots := net.Div(moq).Ceil()
	return lots.Mul(moq)
}

// leadTimeRisk 需求日距今不足供应商交期时置位，仅做标注不阻断生成
func leadTimeRisk(today, needBy time.Time, leadTimeDays int) bool {
	return dayOf(needBy).Before(dayOf(today).AddDate(0, 0, leadTimeDays))
}
