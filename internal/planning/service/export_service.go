package service

import (
	"fmt"

	"github.com/telaros/tela-erp/internal/planning/repository"
	"github.com/xuri/excelize/v2"
)

type ExportService struct {
	planningRepo *repository.PlanningRepository
}

func NewExportService(planningRepo *repository.PlanningRepository) *ExportService {
	return &ExportService{planningRepo: planningRepo}
}

// ExportSuggestions 把一次运行的建议导出为xlsx，供采购跟单使用
func (s *ExportService) ExportSuggestions(runID string) (*excelize.File, error) {
	run, err := s.planningRepo.GetRunByID(runID)
	if err != nil {
		return nil, fmt.Errorf("planning run not found: %w", err)
	}
	suggestions, err := s.planningRepo.GetSuggestionsByRunID(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load suggestions: %w", err)
	}

	f := excelize.NewFile()
	sheet := "Suggestions"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Run", "Supplier", "Status", "Material Code", "Material Name", "Quantity", "Unit", "Unit Price", "Amount", "Need By", "Lead Time Risk"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, suggestion := range suggestions {
		supplierName := suggestion.SupplierID
		if suggestion.Supplier != nil {
			supplierName = suggestion.Supplier.Name
		}
		for _, line := range suggestion.Lines {
			values := []interface{}{
				run.RunCode,
				supplierName,
				suggestion.Status,
				line.MaterialCode,
				line.MaterialName,
				line.Quantity,
				line.Unit,
				line.UnitPrice,
				line.Quantity * line.UnitPrice,
				line.NeedByDate.Format("2006-01-02"),
				line.LeadTimeRisk,
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}
	}

	return f, nil
}
