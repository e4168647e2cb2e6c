package repository

import (
	"time"

	"github.com/telaros/tela-erp/internal/planning/entity"
	"gorm.io/gorm"
)

type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// CurrentStock 读取物料现存量快照。库存字段由库存流水子系统维护
func (r *StockRepository) CurrentStock(materialIDs []string) (map[string]float64, error) {
	if len(materialIDs) == 0 {
		return map[string]float64{}, nil
	}
	type stockRow struct {
		ID           string
		CurrentStock float64
	}
	var rows []stockRow
	err := r.db.Model(&entity.Material{}).
		Select("id, current_stock").
		Where("id IN ? AND deleted_at IS NULL", materialIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	stock := make(map[string]float64, len(rows))
	for _, row := range rows {
		stock[row.ID] = row.CurrentStock
	}
	return stock, nil
}

// OpenReceipt 在途收货：未收完的PO行的剩余数量与预计到货日
type OpenReceipt struct {
	MaterialID   string
	Quantity     float64
	ExpectedDate time.Time
}

// OpenReceipts 从未关闭的采购订单行读取在途收货
func (r *StockRepository) OpenReceipts(materialIDs []string) (map[string][]OpenReceipt, error) {
	if len(materialIDs) == 0 {
		return map[string][]OpenReceipt{}, nil
	}
	type receiptRow struct {
		MaterialID   string
		Remaining    float64
		ExpectedDate *time.Time
	}
	var rows []receiptRow
	err := r.db.Table("purchase_order_items AS i").
		Select("i.material_id, i.quantity - i.received_qty AS remaining, po.expected_date").
		Joins("JOIN purchase_orders po ON po.id = i.po_id").
		Where("i.material_id IN ?", materialIDs).
		Where("i.status IN ?", []string{entity.POItemStatusOpen, entity.POItemStatusPartial}).
		Where("po.status NOT IN ?", []string{entity.POStatusCancelled}).
		Where("i.quantity > i.received_qty").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	receipts := make(map[string][]OpenReceipt)
	for _, row := range rows {
		if row.ExpectedDate == nil {
			// 无预计到货日的在途不可靠，不计入可用量
			continue
		}
		receipts[row.MaterialID] = append(receipts[row.MaterialID], OpenReceipt{
			MaterialID:   row.MaterialID,
			Quantity:     row.Remaining,
			ExpectedDate: *row.ExpectedDate,
		})
	}
	return receipts, nil
}
