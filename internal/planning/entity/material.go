package entity

import (
	"time"
)

// Material 物料实体。CurrentStock由库存流水子系统维护，计划引擎只读快照
type Material struct {
	ID           string     `json:"id" gorm:"primaryKey;size:32"`
	Code         string     `json:"code" gorm:"size:64;not null;uniqueIndex"`
	Name         string     `json:"name" gorm:"size:128;not null"`
	Unit         string     `json:"unit" gorm:"size:20;not null;default:m"`
	CurrentStock float64    `json:"current_stock" gorm:"type:decimal(12,4);default:0"`
	Status       string     `json:"status" gorm:"size:16;not null;default:active"`
	CreatedBy    string     `json:"created_by" gorm:"size:64"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at" gorm:"index"`

	Relationships []SupplierRelationship `json:"relationships,omitempty" gorm:"foreignKey:MaterialID"`
}

func (Material) TableName() string {
	return "materials"
}

// SupplierStatus 供应商状态
const (
	SupplierStatusActive   = "ACTIVE"
	SupplierStatusInactive = "INACTIVE"
)

// Supplier 供应商实体
type Supplier struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SupplierCode string     `json:"supplier_code" gorm:"size:50;not null;uniqueIndex"`
	Name         string     `json:"name" gorm:"size:200;not null"`
	ContactName  string     `json:"contact_name" gorm:"size:100"`
	Phone        string     `json:"phone" gorm:"size:20"`
	Email        string     `json:"email" gorm:"size:100"`
	Status       string     `json:"status" gorm:"size:20;not null;default:ACTIVE"`
	CreatedBy    string     `json:"created_by" gorm:"size:64"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at" gorm:"index"`
}

func (Supplier) TableName() string {
	return "suppliers"
}

// SupplierRelationship 物料-供应商供货关系。每个物料最多一条preferred=true
type SupplierRelationship struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	MaterialID   string    `json:"material_id" gorm:"size:32;not null;index:idx_rel_material"`
	SupplierID   string    `json:"supplier_id" gorm:"type:uuid;not null;index"`
	UnitPrice    float64   `json:"unit_price" gorm:"type:decimal(12,4);not null"`
	MinOrderQty  float64   `json:"min_order_qty" gorm:"type:decimal(12,4);default:0"`
	LeadTimeDays int       `json:"lead_time_days" gorm:"default:0"`
	Preferred    bool      `json:"preferred" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Material *Material `json:"material,omitempty" gorm:"foreignKey:MaterialID"`
}

func (SupplierRelationship) TableName() string {
	return "material_suppliers"
}
