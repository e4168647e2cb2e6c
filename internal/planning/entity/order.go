package entity

import (
	"time"
)

// CustomerOrderStatus 客户订单状态
const (
	OrderStatusPending      = "PENDING"
	OrderStatusConfirmed    = "CONFIRMED"
	OrderStatusInProduction = "IN_PRODUCTION"
	OrderStatusCompleted    = "COMPLETED"
	OrderStatusCancelled    = "CANCELLED"
)

// TerminalOrderStatuses 终态订单不参与计划运算
var TerminalOrderStatuses = []string{OrderStatusCompleted, OrderStatusCancelled}

// CustomerOrder 客户订单（订单录入子系统所有，这里只读）
type CustomerOrder struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderCode    string     `json:"order_code" gorm:"size:50;not null;uniqueIndex"`
	ClientID     string     `json:"client_id" gorm:"size:64;not null;index"`
	Status       string     `json:"status" gorm:"size:20;not null;default:PENDING"`
	DeliveryDate time.Time  `json:"delivery_date" gorm:"not null;index"`
	Notes        string     `json:"notes" gorm:"type:text"`
	CreatedBy    string     `json:"created_by" gorm:"size:64"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at" gorm:"index"`

	Lines []OrderLine `json:"lines,omitempty" gorm:"foreignKey:OrderID"`
}

func (CustomerOrder) TableName() string {
	return "orders"
}

// OrderLine 订单行：某个产品变体（尺码×颜色）的需求数量
type OrderLine struct {
	ID               string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderID          string    `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductVariantID string    `json:"product_variant_id" gorm:"size:32;not null;index"`
	Quantity         float64   `json:"quantity" gorm:"type:decimal(12,4);not null"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Order   *CustomerOrder  `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Variant *ProductVariant `json:"variant,omitempty" gorm:"foreignKey:ProductVariantID"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}

// ProductVariant 产品变体：产品 × 尺码 × 颜色
type ProductVariant struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	ProductID string    `json:"product_id" gorm:"size:32;not null;index"`
	SizeID    string    `json:"size_id" gorm:"size:32"`
	ColorID   string    `json:"color_id" gorm:"size:32"`
	SKU       string    `json:"sku" gorm:"size:64;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}
