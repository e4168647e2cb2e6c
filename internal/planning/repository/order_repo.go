package repository

import (
	"time"

	"github.com/telaros/tela-erp/internal/planning/entity"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// ListOpenOrders 查询交付日落在区间内、未进入终态的订单（含订单行）。
// COMPLETED/CANCELLED订单不参与计划
func (r *OrderRepository) ListOpenOrders(start, end time.Time) ([]entity.CustomerOrder, error) {
	var orders []entity.CustomerOrder
	err := r.db.Preload("Lines").
		Where("delivery_date >= ? AND delivery_date <= ?", start, end).
		Where("status NOT IN ?", entity.TerminalOrderStatuses).
		Where("deleted_at IS NULL").
		Order("delivery_date ASC").
		Find(&orders).Error
	return orders, err
}

// GetVariants 批量查询变体，BOM解析需要变体到产品的映射
func (r *OrderRepository) GetVariants(ids []string) ([]entity.ProductVariant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var variants []entity.ProductVariant
	err := r.db.Where("id IN ?", ids).Find(&variants).Error
	return variants, err
}
