package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine 参与计划的订单行快照
type OrderLine struct {
	ID               string
	OrderID          string
	ProductVariantID string
	Quantity         decimal.Decimal
	DeliveryDate     time.Time
}

// Variant 变体到产品的映射
type Variant struct {
	ID        string
	ProductID string
}

// BOMEntry 单位产量对某物料的消耗
type BOMEntry struct {
	MaterialID string
	Unit       string
	QtyPerUnit decimal.Decimal
}

// MaterialInfo 物料基础信息，用于填充建议明细
type MaterialInfo struct {
	Code string
	Name string
	Unit string
}

// Relationship 物料-供应商供货关系快照
type Relationship struct {
	SupplierID   string
	UnitPrice    decimal.Decimal
	MinOrderQty  decimal.Decimal
	LeadTimeDays int
	Preferred    bool
}

// ScheduledReceipt 已排程的在途收货
type ScheduledReceipt struct {
	Quantity     decimal.Decimal
	ExpectedDate time.Time
}

// Catalog 运行开始时一次性读取的目录快照，计算过程中不再回读
type Catalog struct {
	Variants      map[string]Variant        // variant id -> variant
	CommonBOM     map[string][]BOMEntry     // product id -> entries
	VariationBOM  map[string][]BOMEntry     // variant id -> entries
	Materials     map[string]MaterialInfo   // material id -> info
	Relationships map[string][]Relationship // material id -> relationships
}

// PlanInput 一次计划运行的全部输入。纯值传递，引擎不持有共享状态
type PlanInput struct {
	Today      time.Time
	StartDate  time.Time
	EndDate    time.Time
	OrderLines []OrderLine
	Catalog    Catalog
	Stock      map[string]decimal.Decimal    // material id -> on-hand
	Receipts   map[string][]ScheduledReceipt // material id -> open receipts
}

// GrossDemand 毛需求，保留订单行来源便于追溯
type GrossDemand struct {
	MaterialID        string
	Unit              string
	Quantity          decimal.Decimal
	NeedByDate        time.Time
	SourceOrderLineID string
}

// NetRequirement 按（物料，需求日）分桶、扣减库存与在途后的净需求
type NetRequirement struct {
	MaterialID string
	Unit       string
	NeedByDate time.Time
	Quantity   decimal.Decimal
}

// SizedRequirement 选定供应商并按最小起订量取整后的需求
type SizedRequirement struct {
	MaterialID   string
	Unit         string
	SupplierID   string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	NeedByDate   time.Time
	LeadTimeRisk bool
}

// DraftLine 建议草案明细
type DraftLine struct {
	MaterialID   string
	MaterialCode string
	MaterialName string
	Unit         string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	NeedByDate   time.Time
	LeadTimeRisk bool
}

// DraftSuggestion 按供应商聚合的建议草案
type DraftSuggestion struct {
	SupplierID string
	Lines      []DraftLine
}

// WarningKind 非致命警告类型
const (
	WarnBOMNotFound       = "BOM_NOT_FOUND"
	WarnNoSupplier        = "NO_SUPPLIER"
	WarnMultiplePreferred = "MULTIPLE_PREFERRED"
)

// Warning 数据缺口警告，不中断运行
type Warning struct {
	Kind    string
	RefID   string // 变体ID或物料ID
	Message string
}

// PlanResult 一次运行的完整输出
type PlanResult struct {
	Suggestions []DraftSuggestion
	Warnings    []Warning
	Gross       []GrossDemand
	Net         []NetRequirement
}
