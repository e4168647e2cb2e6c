package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/telaros/tela-erp/internal/config"
	"github.com/telaros/tela-erp/internal/planning/entity"
	"github.com/telaros/tela-erp/internal/planning/repository"
	"github.com/telaros/tela-erp/internal/planning/service"
	"github.com/telaros/tela-erp/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupPlanningTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	cfg := &config.Config{}
	cfg.Planning.SuggestionCacheTTL = 5 * time.Minute
	services := service.NewServices(repos, nil, cfg, zap.NewNop())
	handlers := NewHandlers(services)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1/planning")
	api.POST("/runs", handlers.Planning.Execute)
	api.GET("/runs/:id", handlers.Planning.GetRun)
	api.GET("/runs", handlers.Planning.ListRuns)
	api.GET("/runs/:id/suggestions", handlers.Planning.GetSuggestions)
	api.PUT("/lines/:id", handlers.Suggestion.EditLine)
	api.POST("/suggestions/approve", handlers.Suggestion.Approve)
	api.POST("/suggestions/reject", handlers.Suggestion.Reject)

	return router, db
}

func seedPlanningData(t *testing.T, db *gorm.DB) {
	t.Helper()

	supplier := &entity.Supplier{
		ID:           uuid.New().String(),
		SupplierCode: "SUP-H001",
		Name:         "Textiles Lima",
		Status:       entity.SupplierStatusActive,
	}
	if err := db.Create(supplier).Error; err != nil {
		t.Fatalf("Failed to seed supplier: %v", err)
	}

	material := &entity.Material{
		ID:           "MAT-FAB",
		Code:         "FAB-COT-01",
		Name:         "Cotton fabric",
		Unit:         "m",
		CurrentStock: 0,
		Status:       "active",
	}
	if err := db.Create(material).Error; err != nil {
		t.Fatalf("Failed to seed material: %v", err)
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
		t.Fatalf("Failed to seed relationship: %v", err)
	}

	variant := &entity.ProductVariant{
		ID:        "VAR-1",
		ProductID: "PROD-1",
		SizeID:    "M",
		ColorID:   "WHITE",
		SKU:       "SHIRT-M-WHITE",
	}
	if err := db.Create(variant).Error; err != nil {
		t.Fatalf("Failed to seed variant: %v", err)
	}

	bom := &entity.BOMCommonEntry{
		ID:         uuid.New().String(),
		ProductID:  "PROD-1",
		MaterialID: material.ID,
		Unit:       "m",
		QtyPerUnit: 2,
	}
	if err := db.Create(bom).Error; err != nil {
		t.Fatalf("Failed to seed bom: %v", err)
	}

	order := &entity.CustomerOrder{
		ID:           uuid.New().String(),
		OrderCode:    "ORD-H001",
		ClientID:     "client-1",
		Status:       entity.OrderStatusConfirmed,
		DeliveryDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}
	line := &entity.OrderLine{
		ID:               uuid.New().String(),
		OrderID:          order.ID,
		ProductVariantID: variant.ID,
		Quantity:         100,
	}
	if err := db.Create(line).Error; err != nil {
		t.Fatalf("Failed to seed order line: %v", err)
	}
}

// TestPlanningRunWorkflow exercises the full run -> review -> approve flow over HTTP
func TestPlanningRunWorkflow(t *testing.T) {
	router, db := setupPlanningTest(t)
	token := testutil.DefaultTestToken()
	seedPlanningData(t, db)

	// Execute a run
	body := map[string]interface{}{
		"start_date": "2026-09-01",
		"end_date":   "2026-09-30",
	}
	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/planning/runs", body, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	run := data["run"].(map[string]interface{})
	if run["status"].(string) != entity.RunStatusCompleted {
		t.Fatalf("expected COMPLETED run, got %v", run["status"])
	}
	runID := run["id"].(string)

	// Fetch the run
	w = testutil.DoRequest(router, http.MethodGet, "/api/v1/planning/runs/"+runID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching run, got %d: %s", w.Code, w.Body.String())
	}

	// Fetch suggestions
	w = testutil.DoRequest(router, http.MethodGet, "/api/v1/planning/runs/"+runID+"/suggestions", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching suggestions, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	suggestions := resp["data"].([]interface{})
	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
	}
	suggestion := suggestions[0].(map[string]interface{})
	suggestionID := suggestion["id"].(string)
	lines := suggestion["lines"].([]interface{})
	lineID := lines[0].(map[string]interface{})["id"].(string)

	// Edit a line before approval
	w = testutil.DoRequest(router, http.MethodPut, "/api/v1/planning/lines/"+lineID,
		map[string]interface{}{"quantity": 250}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 editing line, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	edited := resp["data"].(map[string]interface{})
	if edited["quantity"].(float64) != 250 {
		t.Errorf("expected quantity 250, got %v", edited["quantity"])
	}
	if edited["original_qty"].(float64) != 200 {
		t.Errorf("expected original_qty 200, got %v", edited["original_qty"])
	}

	// Approve the suggestion
	w = testutil.DoRequest(router, http.MethodPost, "/api/v1/planning/suggestions/approve",
		map[string]interface{}{"ids": []string{suggestionID}}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 approving, got %d: %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	orders := resp["data"].([]interface{})
	if len(orders) != 1 {
		t.Fatalf("expected 1 purchase order, got %d", len(orders))
	}
	po := orders[0].(map[string]interface{})
	if po["status"].(string) != entity.POStatusIssued {
		t.Errorf("expected ISSUED po, got %v", po["status"])
	}

	var count int64
	db.Model(&entity.PurchaseOrder{}).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly 1 persisted purchase order, got %d", count)
	}
}

func TestExecuteRunValidation(t *testing.T) {
	router, _ := setupPlanningTest(t)
	token := testutil.DefaultTestToken()

	// Missing end_date fails binding
	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/planning/runs",
		map[string]interface{}{"start_date": "2026-09-01"}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	// Malformed dates fail the run itself
	w = testutil.DoRequest(router, http.MethodPost, "/api/v1/planning/runs",
		map[string]interface{}{"start_date": "09/01/2026", "end_date": "2026-09-30"}, token)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPlanningRoutesRequireAuth(t *testing.T) {
	router, _ := setupPlanningTest(t)

	w := testutil.DoRequest(router, http.MethodPost, "/api/v1/planning/runs",
		map[string]interface{}{"start_date": "2026-09-01", "end_date": "2026-09-30"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}
