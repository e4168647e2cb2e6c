package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Net 时间分桶净需求计算。同一物料的需求桶按日期升序消耗可用量，
// 先到期的需求先占用库存；可用量 = 期初库存 + 到期日不晚于桶日期的在途收货。
// 全部桶净需求为零的物料不出现在结果中
func Net(gross []GrossDemand, stock map[string]decimal.Decimal, receipts map[string][]ScheduledReceipt) []NetRequirement {
	type bucket struct {
		date  time.Time
		unit  string
		total decimal.Decimal
	}

	buckets := make(map[string]map[time.Time]*bucket)
	for _, g := range gross {
		day := dayOf(g.NeedByDate)
		if buckets[g.MaterialID] == nil {
			buckets[g.MaterialID] = make(map[time.Time]*bucket)
		}
		b, ok := buckets[g.MaterialID][day]
		if !ok {
			b = &bucket{date: day, unit: g.Unit, total: decimal.Zero}
			buckets[g.MaterialID][day] = b
		}
		b.total = b.total.Add(g.Quantity)
	}

	materialIDs := make([]string, 0, len(buckets))
	for id := range buckets {
		materialIDs = append(materialIDs, id)
	}
	sort.Strings(materialIDs)

	var result []NetRequirement
	for _, materialID := range materialIDs {
		ordered := make([]*bucket, 0, len(buckets[materialID]))
		for _, b := range buckets[materialID] {
			ordered = append(ordered, b)
		}
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].date.Before(ordered[j].date) })

		incoming := append([]ScheduledReceipt(nil), receipts[materialID]...)
		sort.Slice(incoming, func(i, j int) bool {
			return incoming[i].ExpectedDate.Before(incoming[j].ExpectedDate)
		})

		available := stock[materialID]
		next := 0
		for _, b := range ordered {
			// 在途收货并入可用量，每笔只计一次
			for next < len(incoming) && !dayOf(incoming[next].ExpectedDate).After(b.date) {
				available = available.Add(incoming[next].Quantity)
				next++
			}

			net := b.total.Sub(available)
			if net.IsNegative() {
				net = decimal.Zero
			}
			available = available.Sub(b.total)
			if available.IsNegative() {
				available = decimal.Zero
			}

			if net.IsPositive() {
				result = append(result, NetRequirement{
					MaterialID: materialID,
					Unit:       b.unit,
					NeedByDate: b.date,
					Quantity:   net,
				})
			}
		}
	}

	return result
}
