package entity

import (
	"time"
)

// BOMCommonEntry 产品级BOM条目，适用于该产品的所有变体
type BOMCommonEntry struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProductID   string    `json:"product_id" gorm:"size:32;not null;index"`
	MaterialID  string    `json:"material_id" gorm:"size:32;not null;index"`
	Unit        string    `json:"unit" gorm:"size:20;not null;default:pcs"`
	QtyPerUnit  float64   `json:"qty_per_unit" gorm:"type:decimal(12,4);not null"`
	CreatedBy   string    `json:"created_by" gorm:"size:64"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Material *Material `json:"material,omitempty" gorm:"foreignKey:MaterialID"`
}

func (BOMCommonEntry) TableName() string {
	return "bom_common_entries"
}

// BOMVariationEntry 变体级BOM条目，同物料时替换（而非累加）产品级条目
type BOMVariationEntry struct {
	ID               string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProductVariantID string    `json:"product_variant_id" gorm:"size:32;not null;index"`
	MaterialID       string    `json:"material_id" gorm:"size:32;not null;index"`
	Unit             string    `json:"unit" gorm:"size:20;not null;default:pcs"`
	QtyPerUnit       float64   `json:"qty_per_unit" gorm:"type:decimal(12,4);not null"`
	CreatedBy        string    `json:"created_by" gorm:"size:64"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Material *Material `json:"material,omitempty" gorm:"foreignKey:MaterialID"`
}

func (BOMVariationEntry) TableName() string {
	return "bom_variation_entries"
}
