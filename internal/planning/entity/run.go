package entity

import (
	"time"
)

// PlanningRunStatus 计划运行状态
const (
	RunStatusExecuting = "EXECUTING"
	RunStatusCompleted = "COMPLETED"
	RunStatusFailed    = "FAILED"
)

// PlanningRun 一次MRP计划运行。完成后只追加不修改，重跑产生新的运行记录
type PlanningRun struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	RunCode      string     `json:"run_code" gorm:"size:50;not null;uniqueIndex"`
	Status       string     `json:"status" gorm:"size:20;not null;default:EXECUTING"`
	StartDate    time.Time  `json:"start_date" gorm:"not null"`
	EndDate      time.Time  `json:"end_date" gorm:"not null"`
	OrderIDs     []string   `json:"order_ids" gorm:"type:jsonb;serializer:json"`
	ErrorMessage string     `json:"error_message" gorm:"type:text"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	CreatedBy    string     `json:"created_by" gorm:"size:64;not null"`
	CreatedAt    time.Time  `json:"created_at"`

	Suggestions []Suggestion `json:"suggestions,omitempty" gorm:"foreignKey:RunID"`
	Warnings    []RunWarning `json:"warnings,omitempty" gorm:"foreignKey:RunID"`
}

func (PlanningRun) TableName() string {
	return "planning_runs"
}

// RunWarningKind 运行警告类型
const (
	WarningBOMNotFound       = "BOM_NOT_FOUND"
	WarningNoSupplier        = "NO_SUPPLIER"
	WarningMultiplePreferred = "MULTIPLE_PREFERRED"
)

// RunWarning 非致命的数据缺口警告，随运行记录一起保存供人工处理
type RunWarning struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	RunID     string    `json:"run_id" gorm:"type:uuid;not null;index"`
	Kind      string    `json:"kind" gorm:"size:32;not null"`
	RefID     string    `json:"ref_id" gorm:"size:64"` // 变体ID或物料ID
	Message   string    `json:"message" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

func (RunWarning) TableName() string {
	return "planning_run_warnings"
}
