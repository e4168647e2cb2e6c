package repository

import (
	"github.com/telaros/tela-erp/internal/planning/entity"
	"gorm.io/gorm"
)

type PlanningRepository struct {
	db *gorm.DB
}

func NewPlanningRepository(db *gorm.DB) *PlanningRepository {
	return &PlanningRepository{db: db}
}

func (r *PlanningRepository) CreateRun(run *entity.PlanningRun) error {
	return r.db.Create(run).Error
}

func (r *PlanningRepository) UpdateRun(run *entity.PlanningRun) error {
	return r.db.Save(run).Error
}

func (r *PlanningRepository) GetRunByID(id string) (*entity.PlanningRun, error) {
	var run entity.PlanningRun
	err := r.db.Preload("Warnings").Where("id = ?", id).First(&run).Error
	return &run, err
}

func (r *PlanningRepository) ListRuns(page, size int) ([]entity.PlanningRun, int64, error) {
	var total int64
	r.db.Model(&entity.PlanningRun{}).Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var runs []entity.PlanningRun
	err := r.db.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&runs).Error
	return runs, total, err
}

// BatchCreateSuggestions 一次运行生成的建议及明细整体入库
func (r *PlanningRepository) BatchCreateSuggestions(suggestions []entity.Suggestion) error {
	if len(suggestions) == 0 {
		return nil
	}
	return r.db.Create(&suggestions).Error
}

func (r *PlanningRepository) BatchCreateWarnings(warnings []entity.RunWarning) error {
	if len(warnings) == 0 {
		return nil
	}
	return r.db.Create(&warnings).Error
}

func (r *PlanningRepository) GetSuggestionsByRunID(runID string) ([]entity.Suggestion, error) {
	var suggestions []entity.Suggestion
	err := r.db.Preload("Lines").Preload("Supplier").
		Where("run_id = ?", runID).
		Order("supplier_id").
		Find(&suggestions).Error
	return suggestions, err
}

func (r *PlanningRepository) GetSuggestionByID(id string) (*entity.Suggestion, error) {
	var s entity.Suggestion
	err := r.db.Preload("Lines").Where("id = ?", id).First(&s).Error
	return &s, err
}

func (r *PlanningRepository) GetLineByID(id string) (*entity.SuggestionLine, error) {
	var line entity.SuggestionLine
	err := r.db.Where("id = ?", id).First(&line).Error
	return &line, err
}

func (r *PlanningRepository) DB() *gorm.DB {
	return r.db
}
