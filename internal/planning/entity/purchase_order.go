package entity

import (
	"time"
)

// PurchaseOrderStatus 采购订单状态。ISSUED之后归采购/收货子系统所有
const (
	POStatusIssued    = "ISSUED"
	POStatusSent      = "SENT"
	POStatusPartial   = "PARTIAL"
	POStatusReceived  = "RECEIVED"
	POStatusCancelled = "CANCELLED"
)

// PurchaseOrder 采购订单：审批通过的建议物化产物，每个建议对应一张PO
type PurchaseOrder struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	POCode       string     `json:"po_code" gorm:"size:50;not null;uniqueIndex"`
	SupplierID   string     `json:"supplier_id" gorm:"type:uuid;not null;index"`
	SuggestionID string     `json:"suggestion_id" gorm:"type:uuid;not null;uniqueIndex"` // 幂等：一个建议只物化一次
	RunID        string     `json:"run_id" gorm:"type:uuid;not null;index"`
	Status       string     `json:"status" gorm:"size:20;not null;default:ISSUED"`
	TotalAmount  float64    `json:"total_amount" gorm:"type:decimal(12,2);default:0"`
	Currency     string     `json:"currency" gorm:"size:10;not null;default:PEN"`
	OrderDate    *time.Time `json:"order_date"`
	ExpectedDate *time.Time `json:"expected_date"`
	CreatedBy    string     `json:"created_by" gorm:"size:64;not null"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Items    []POItem  `json:"items,omitempty" gorm:"foreignKey:POID"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// POItemStatus 采购订单行状态
const (
	POItemStatusOpen     = "OPEN"
	POItemStatusPartial  = "PARTIAL"
	POItemStatusReceived = "RECEIVED"
	POItemStatusClosed   = "CLOSED"
)

// POItem 采购订单明细，1:1来源于已审批的建议明细
type POItem struct {
	ID               string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	POID             string     `json:"po_id" gorm:"type:uuid;not null;index"`
	SuggestionLineID string     `json:"suggestion_line_id" gorm:"type:uuid;not null"`
	MaterialID       string     `json:"material_id" gorm:"size:32;not null"`
	MaterialCode     string     `json:"material_code" gorm:"size:64"`
	MaterialName     string     `json:"material_name" gorm:"size:128"`
	Quantity         float64    `json:"quantity" gorm:"type:decimal(12,4);not null"`
	Unit             string     `json:"unit" gorm:"size:20;not null;default:m"`
	UnitPrice        float64    `json:"unit_price" gorm:"type:decimal(12,4);not null"`
	Amount           float64    `json:"amount" gorm:"type:decimal(12,2);not null"`
	NeedByDate       *time.Time `json:"need_by_date"`
	ReceivedQty      float64    `json:"received_qty" gorm:"type:decimal(12,4);default:0"`
	Status           string     `json:"status" gorm:"size:20;not null;default:OPEN"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	PurchaseOrder *PurchaseOrder `json:"purchase_order,omitempty" gorm:"foreignKey:POID"`
}

func (POItem) TableName() string {
	return "purchase_order_items"
}
