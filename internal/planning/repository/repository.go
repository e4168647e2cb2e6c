package repository

import "gorm.io/gorm"

// Repositories 计划子系统仓库集合
type Repositories struct {
	Order    *OrderRepository
	Catalog  *CatalogRepository
	Stock    *StockRepository
	Planning *PlanningRepository
	Purchase *PurchaseRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Order:    NewOrderRepository(db),
		Catalog:  NewCatalogRepository(db),
		Stock:    NewStockRepository(db),
		Planning: NewPlanningRepository(db),
		Purchase: NewPurchaseRepository(db),
	}
}
