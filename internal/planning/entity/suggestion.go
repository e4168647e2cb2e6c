package entity

import (
	"time"
)

// SuggestionStatus 采购建议状态
const (
	SuggestionStatusPending  = "PENDING"
	SuggestionStatusEdited   = "EDITED"
	SuggestionStatusApproved = "APPROVED"
	SuggestionStatusRejected = "REJECTED"
)

// Suggestion 供应商维度的采购建议草案，等待人工审批
type Suggestion struct {
	ID              string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	RunID           string     `json:"run_id" gorm:"type:uuid;not null;index"`
	SupplierID      string     `json:"supplier_id" gorm:"type:uuid;not null;index"`
	Status          string     `json:"status" gorm:"size:20;not null;default:PENDING"`
	PurchaseOrderID *string    `json:"purchase_order_id" gorm:"type:uuid"` // 审批后关联的PO
	ApprovedBy      string     `json:"approved_by" gorm:"size:64"`
	ApprovedAt      *time.Time `json:"approved_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Supplier *Supplier        `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Lines    []SuggestionLine `json:"lines,omitempty" gorm:"foreignKey:SuggestionID"`
}

func (Suggestion) TableName() string {
	return "procurement_suggestions"
}

// SuggestionLine 建议明细。操作员可在审批前覆盖数量/单价，原值留存审计
type SuggestionLine struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SuggestionID  string    `json:"suggestion_id" gorm:"type:uuid;not null;index"`
	MaterialID    string    `json:"material_id" gorm:"size:32;not null"`
	MaterialCode  string    `json:"material_code" gorm:"size:64"`
	MaterialName  string    `json:"material_name" gorm:"size:128"`
	Quantity      float64   `json:"quantity" gorm:"type:decimal(12,4);not null"`
	UnitPrice     float64   `json:"unit_price" gorm:"type:decimal(12,4);not null"`
	OriginalQty   *float64  `json:"original_qty" gorm:"type:decimal(12,4)"` // 首次编辑时记录
	OriginalPrice *float64  `json:"original_price" gorm:"type:decimal(12,4)"`
	Unit          string    `json:"unit" gorm:"size:20;not null;default:m"`
	NeedByDate    time.Time `json:"need_by_date" gorm:"not null"`
	LeadTimeRisk  bool      `json:"lead_time_risk" gorm:"default:false"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Suggestion *Suggestion `json:"suggestion,omitempty" gorm:"foreignKey:SuggestionID"`
}

func (SuggestionLine) TableName() string {
	return "procurement_suggestion_lines"
}
