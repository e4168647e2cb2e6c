package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/telaros/tela-erp/internal/config"
	"github.com/telaros/tela-erp/internal/planning/engine"
	"github.com/telaros/tela-erp/internal/planning/entity"
	"github.com/telaros/tela-erp/internal/planning/repository"
	"github.com/telaros/tela-erp/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestServices(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	cfg := &config.Config{}
	cfg.Planning.SuggestionCacheTTL = 5 * time.Minute
	return NewServices(repos, nil, cfg, zap.NewNop()), db
}

type planningFixture struct {
	SupplierID string
	MaterialID string
	VariantID  string
	OrderID    string
}

// seedPlanningFixture 播种一条完整的计划链路：
// 订单(100件) → 变体VAR-1 → 产品级BOM(2m面料/件) → 首选供应商(MOQ 50, 12.5/m)
func seedPlanningFixture(t *testing.T, db *gorm.DB, stock float64) planningFixture {
	t.Helper()

	supplier := &entity.Supplier{
		ID:           uuid.New().String(),
		SupplierCode: "SUP-001",
		Name:         "Textiles San Juan",
		Status:       entity.SupplierStatusActive,
	}
	if err := db.Create(supplier).Error; err != nil {
		t.Fatalf("seed supplier: %v", err)
	}

	material := &entity.Material{
		ID:           "MAT-FAB",
		Code:         "FAB-COT-01",
		Name:         "Cotton fabric",
		Unit:         "m",
		CurrentStock: stock,
		Status:       "active",
	}
	if err := db.Create(material).Error; err != nil {
		t.Fatalf("seed material: %v", err)
	}

	rel := &entity.SupplierRelationship{
		ID:           uuid.New().String(),
		MaterialID:   material.ID,
		SupplierID:   supplier.ID,
		UnitPrice:    12.5,
		MinOrderQty:  50,
		LeadTimeDays: 7,
		Preferred:    true,
	}
	if err := db.Create(rel).Error; err != nil {
		t.Fatalf("seed relationship: %v", err)
	}

	variant := &entity.ProductVariant{
		ID:        "VAR-1",
		ProductID: "PROD-1",
		SizeID:    "M",
		ColorID:   "WHITE",
		SKU:       "SHIRT-M-WHITE",
	}
	if err := db.Create(variant).Error; err != nil {
		t.Fatalf("seed variant: %v", err)
	}

	bom := &entity.BOMCommonEntry{
		ID:         uuid.New().String(),
		ProductID:  "PROD-1",
		MaterialID: material.ID,
		Unit:       "m",
		QtyPerUnit: 2,
	}
	if err := db.Create(bom).Error; err != nil {
		t.Fatalf("seed bom: %v", err)
	}

	order := &entity.CustomerOrder{
		ID:           uuid.New().String(),
		OrderCode:    "ORD-001",
		ClientID:     "client-1",
		Status:       entity.OrderStatusConfirmed,
		DeliveryDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	line := &entity.OrderLine{
		ID:               uuid.New().String(),
		OrderID:          order.ID,
		ProductVariantID: variant.ID,
		Quantity:         100,
	}
	if err := db.Create(line).Error; err != nil {
		t.Fatalf("seed order line: %v", err)
	}

	return planningFixture{
		SupplierID: supplier.ID,
		MaterialID: material.ID,
		VariantID:  variant.ID,
		OrderID:    order.ID,
	}
}

func TestExecuteRunEndToEnd(t *testing.T) {
	services, db := newTestServices(t)
	fix := seedPlanningFixture(t, db, 0)

	result, err := services.Planning.Execute(ExecuteRunRequest{
		StartDate: "2026-09-01",
		EndDate:   "2026-09-30",
	}, "planner-1")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Run.Status != entity.RunStatusCompleted {
		t.Fatalf("run status = %s, want COMPLETED", result.Run.Status)
	}
	if len(result.Run.OrderIDs) != 1 || result.Run.OrderIDs[0] != fix.OrderID {
		t.Errorf("run order ids = %v, want [%s]", result.Run.OrderIDs, fix.OrderID)
	}
	if len(result.Suggestions) != 1 {
		t.Fatalf("got %d suggestions, want 1", len(result.Suggestions))
	}

	suggestion := result.Suggestions[0]
	if suggestion.SupplierID != fix.SupplierID {
		t.Errorf("supplier = %s, want %s", suggestion.SupplierID, fix.SupplierID)
	}
	if suggestion.Status != entity.SuggestionStatusPending {
		t.Errorf("suggestion status = %s, want PENDING", suggestion.Status)
	}
	if len(suggestion.Lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(suggestion.Lines))
	}
	// 100件 × 2m/件 = 200m，MOQ 50 整除无需上调
	if suggestion.Lines[0].Quantity != 200 {
		t.Errorf("line quantity = %v, want 200", suggestion.Lines[0].Quantity)
	}
	if suggestion.Lines[0].UnitPrice != 12.5 {
		t.Errorf("line unit price = %v, want 12.5", suggestion.Lines[0].UnitPrice)
	}

	var persisted entity.PlanningRun
	if err := db.Where("id = ?", result.Run.ID).First(&persisted).Error; err != nil {
		t.Fatalf("load persisted run: %v", err)
	}
	if persisted.Status != entity.RunStatusCompleted {
		t.Errorf("persisted run status = %s, want COMPLETED", persisted.Status)
	}
	if persisted.CompletedAt == nil {
		t.Error("persisted run has no completed_at")
	}
}

func TestExecuteRunStockCoversDemand(t *testing.T) {
	services, db := newTestServices(t)
	seedPlanningFixture(t, db, 500)

	result, err := services.Planning.Execute(ExecuteRunRequest{
		StartDate: "2026-09-01",
		EndDate:   "2026-09-30",
	}, "planner-1")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Run.Status != entity.RunStatusCompleted {
		t.Fatalf("run status = %s, want COMPLETED", result.Run.Status)
	}
	if len(result.Suggestions) != 0 {
		t.Errorf("got %d suggestions, want 0 when stock covers demand", len(result.Suggestions))
	}
}

func TestExecuteRunMalformedDates(t *testing.T) {
	services, db := newTestServices(t)

	_, err := services.Planning.Execute(ExecuteRunRequest{
		StartDate: "not-a-date",
		EndDate:   "2026-09-30",
	}, "planner-1")
	if err == nil {
		t.Fatal("expected error for malformed start date")
	}

	var failed entity.PlanningRun
	if err := db.Where("status = ?", entity.RunStatusFailed).First(&failed).Error; err != nil {
		t.Fatalf("failed run was not persisted: %v", err)
	}
	if failed.ErrorMessage == "" {
		t.Error("failed run has empty error message")
	}
}

func TestExecuteRunHorizonCap(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	cfg := &config.Config{}
	cfg.Planning.SuggestionCacheTTL = 5 * time.Minute
	cfg.Planning.MaxHorizonDays = 30
	services := NewServices(repos, nil, cfg, zap.NewNop())
	seedPlanningFixture(t, db, 0)

	_, err := services.Planning.Execute(ExecuteRunRequest{
		StartDate: "2026-09-01",
		EndDate:   "2026-12-31",
	}, "planner-1")
	if err == nil {
		t.Fatal("expected error for a window beyond the horizon cap")
	}
	var invalid *engine.InvalidRunParametersError
	if !errors.As(err, &invalid) {
		t.Fatalf("error type = %T, want InvalidRunParametersError", err)
	}

	var failed entity.PlanningRun
	if err := db.Where("status = ?", entity.RunStatusFailed).First(&failed).Error; err != nil {
		t.Fatalf("failed run was not persisted: %v", err)
	}

	// 上限以内照常执行
	result, err := services.Planning.Execute(ExecuteRunRequest{
		StartDate: "2026-09-01",
		EndDate:   "2026-09-30",
	}, "planner-1")
	if err != nil {
		t.Fatalf("Execute within horizon: %v", err)
	}
	if result.Run.Status != entity.RunStatusCompleted {
		t.Errorf("run status = %s, want COMPLETED", result.Run.Status)
	}
}

func TestExecuteRunEmptyWindowFails(t *testing.T) {
	services, db := newTestServices(t)
	// 无任何订单的窗口属于致命输入错误

	_, err := services.Planning.Execute(ExecuteRunRequest{
		StartDate: "2026-09-01",
		EndDate:   "2026-09-30",
	}, "planner-1")
	if err == nil {
		t.Fatal("expected error for empty order window")
	}

	var failed entity.PlanningRun
	if err := db.Where("status = ?", entity.RunStatusFailed).First(&failed).Error; err != nil {
		t.Fatalf("failed run was not persisted: %v", err)
	}
}

func TestEditLineKeepsOriginalValues(t *testing.T) {
	services, db := newTestServices(t)
	seedPlanningFixture(t, db, 0)

	result, err := services.Planning.Execute(ExecuteRunRequest{
		StartDate: "2026-09-01",
		EndDate:   "2026-09-30",
	}, "planner-1")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	lineID := result.Suggestions[0].Lines[0].ID

	qty := 250.0
	line, err := services.Planning.EditLine(context.Background(), lineID, EditLineRequest{Quantity: &qty}, "planner-1")
	if err != nil {
		t.Fatalf("EditLine: %v", err)
	}
	if line.Quantity != 250 {
		t.Errorf("quantity = %v, want 250", line.Quantity)
	}
	if line.OriginalQty == nil || *line.OriginalQty != 200 {
		t.Errorf("original qty = %v, want 200", line.OriginalQty)
	}

	var suggestion entity.Suggestion
	if err := db.Where("id = ?", line.SuggestionID).First(&suggestion).Error; err != nil {
		t.Fatalf("load suggestion: %v", err)
	}
	if suggestion.Status != entity.SuggestionStatusEdited {
		t.Errorf("suggestion status = %s, want EDITED", suggestion.Status)
	}

	// 二次编辑不覆盖首次留存的原值
	qty2 := 300.0
	line, err = services.Planning.EditLine(context.Background(), lineID, EditLineRequest{Quantity: &qty2}, "planner-1")
	if err != nil {
		t.Fatalf("second EditLine: %v", err)
	}
	if line.OriginalQty == nil || *line.OriginalQty != 200 {
		t.Errorf("original qty after second edit = %v, want 200", line.OriginalQty)
	}
}

func TestEditLineOnTerminalSuggestionFails(t *testing.T) {
	services, db := newTestServices(t)
	ctx := context.Background()

	approved := seedSuggestion(t, db)
	if _, err := services.Approval.Approve(ctx, []string{approved.ID}, "approver-1"); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	qty := 300.0
	if _, err := services.Planning.EditLine(ctx, approved.Lines[0].ID, EditLineRequest{Quantity: &qty}, "planner-1"); err == nil {
		t.Fatal("expected error editing a line of an approved suggestion")
	}
	var reloaded entity.Suggestion
	if err := db.Where("id = ?", approved.ID).First(&reloaded).Error; err != nil {
		t.Fatalf("reload suggestion: %v", err)
	}
	if reloaded.Status != entity.SuggestionStatusApproved {
		t.Errorf("suggestion status = %s, want APPROVED to stay terminal", reloaded.Status)
	}

	rejected := seedSuggestion(t, db)
	if err := services.Approval.Reject(ctx, []string{rejected.ID}, "approver-1"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if _, err := services.Planning.EditLine(ctx, rejected.Lines[0].ID, EditLineRequest{Quantity: &qty}, "planner-1"); err == nil {
		t.Fatal("expected error editing a line of a rejected suggestion")
	}
	if err := db.Where("id = ?", rejected.ID).First(&reloaded).Error; err != nil {
		t.Fatalf("reload suggestion: %v", err)
	}
	if reloaded.Status != entity.SuggestionStatusRejected {
		t.Errorf("suggestion status = %s, want REJECTED to stay terminal", reloaded.Status)
	}
}

func TestConcurrentEditAndApproval(t *testing.T) {
	services, db := newTestServices(t)
	suggestion := seedSuggestion(t, db)
	ctx := context.Background()

	// 编辑与审批并发竞争同一建议：编辑允许落败，审批必须胜出，
	// 终态不允许被编辑翻回
	var wg sync.WaitGroup
	var approveErr error
	qty := 300.0
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, approveErr = services.Approval.Approve(ctx, []string{suggestion.ID}, "approver-1")
	}()
	go func() {
		defer wg.Done()
		services.Planning.EditLine(ctx, suggestion.Lines[0].ID, EditLineRequest{Quantity: &qty}, "planner-1")
	}()
	wg.Wait()

	if approveErr != nil {
		t.Fatalf("Approve: %v", approveErr)
	}

	var reloaded entity.Suggestion
	if err := db.Where("id = ?", suggestion.ID).First(&reloaded).Error; err != nil {
		t.Fatalf("reload suggestion: %v", err)
	}
	if reloaded.Status != entity.SuggestionStatusApproved {
		t.Errorf("suggestion status = %s, want APPROVED after concurrent edit", reloaded.Status)
	}
	var count int64
	db.Model(&entity.PurchaseOrder{}).Where("suggestion_id = ?", suggestion.ID).Count(&count)
	if count != 1 {
		t.Errorf("got %d purchase orders, want exactly 1", count)
	}
}

func TestEditLineWithNothingToEdit(t *testing.T) {
	services, db := newTestServices(t)
	seedPlanningFixture(t, db, 0)

	result, err := services.Planning.Execute(ExecuteRunRequest{
		StartDate: "2026-09-01",
		EndDate:   "2026-09-30",
	}, "planner-1")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	lineID := result.Suggestions[0].Lines[0].ID

	if _, err := services.Planning.EditLine(context.Background(), lineID, EditLineRequest{}, "planner-1"); err == nil {
		t.Fatal("expected error when neither quantity nor price is given")
	}
}

func TestGetSuggestionsFromDatabase(t *testing.T) {
	services, db := newTestServices(t)
	seedPlanningFixture(t, db, 0)

	result, err := services.Planning.Execute(ExecuteRunRequest{
		StartDate: "2026-09-01",
		EndDate:   "2026-09-30",
	}, "planner-1")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	suggestions, err := services.Planning.GetSuggestions(context.Background(), result.Run.ID)
	if err != nil {
		t.Fatalf("GetSuggestions: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("got %d suggestions, want 1", len(suggestions))
	}
	if len(suggestions[0].Lines) != 1 {
		t.Errorf("got %d lines, want 1", len(suggestions[0].Lines))
	}
}
