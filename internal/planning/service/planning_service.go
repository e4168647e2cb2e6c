package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/telaros/tela-erp/internal/config"
	"github.com/telaros/tela-erp/internal/planning/engine"
	"github.com/telaros/tela-erp/internal/planning/entity"
	"github.com/telaros/tela-erp/internal/planning/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PlanningService struct {
	orderRepo    *repository.OrderRepository
	catalogRepo  *repository.CatalogRepository
	stockRepo    *repository.StockRepository
	planningRepo *repository.PlanningRepository
	rdb          *redis.Client
	cfg          *config.Config
	logger       *zap.Logger
}

func NewPlanningService(
	orderRepo *repository.OrderRepository,
	catalogRepo *repository.CatalogRepository,
	stockRepo *repository.StockRepository,
	planningRepo *repository.PlanningRepository,
	rdb *redis.Client,
	cfg *config.Config,
	logger *zap.Logger,
) *PlanningService {
	return &PlanningService{
		orderRepo:    orderRepo,
		catalogRepo:  catalogRepo,
		stockRepo:    stockRepo,
		planningRepo: planningRepo,
		rdb:          rdb,
		cfg:          cfg,
		logger:       logger,
	}
}

type ExecuteRunRequest struct {
	StartDate string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate   string `json:"end_date" binding:"required"`
}

type ExecuteRunResult struct {
	Run         *entity.PlanningRun `json:"run"`
	Suggestions []entity.Suggestion `json:"suggestions"`
	Warnings    []entity.RunWarning `json:"warnings"`
}

// Execute 执行一次计划运行。快照在开始时一次性读取，运行期间不回读；
// 致命输入错误把运行置为FAILED，数据缺口降级为警告随结果返回
func (s *PlanningService) Execute(req ExecuteRunRequest, userID string) (*ExecuteRunResult, error) {
	now := time.Now()
	run := &entity.PlanningRun{
		ID:        uuid.New().String(),
		RunCode:   fmt.Sprintf("RUN-%s%04d", now.Format("20060102"), now.UnixNano()%10000),
		Status:    entity.RunStatusExecuting,
		StartedAt: now,
		CreatedBy: userID,
	}

	start, errStart := time.Parse("2006-01-02", req.StartDate)
	end, errEnd := time.Parse("2006-01-02", req.EndDate)
	if errStart != nil || errEnd != nil {
		run.StartDate = now
		run.EndDate = now
		return nil, s.failRun(run, &engine.InvalidRunParametersError{
			Reason: fmt.Sprintf("malformed date range [%s, %s]", req.StartDate, req.EndDate),
		})
	}
	run.StartDate = start
	run.EndDate = end

	if max := s.cfg.Planning.MaxHorizonDays; max > 0 {
		if days := int(end.Sub(start).Hours() / 24); days > max {
			return nil, s.failRun(run, &engine.InvalidRunParametersError{
				Reason: fmt.Sprintf("planning horizon of %d days exceeds the %d day limit", days, max),
			})
		}
	}

	if err := s.planningRepo.CreateRun(run); err != nil {
		return nil, fmt.Errorf("failed to create planning run: %w", err)
	}
	s.logger.Info("Planning run started",
		zap.String("run_id", run.ID),
		zap.String("run_code", run.RunCode),
		zap.String("operator", userID),
	)

	input, err := s.buildSnapshot(run, start, end)
	if err != nil {
		return nil, s.failRun(run, err)
	}

	result, err := engine.Plan(*input)
	if err != nil {
		return nil, s.failRun(run, err)
	}

	suggestions := s.materializeDrafts(run.ID, result.Suggestions)
	warnings := materializeWarnings(run.ID, result.Warnings)

	if err := s.planningRepo.BatchCreateSuggestions(suggestions); err != nil {
		return nil, s.failRun(run, fmt.Errorf("failed to persist suggestions: %w", err))
	}
	if err := s.planningRepo.BatchCreateWarnings(warnings); err != nil {
		return nil, s.failRun(run, fmt.Errorf("failed to persist warnings: %w", err))
	}

	completedAt := time.Now()
	run.Status = entity.RunStatusCompleted
	run.CompletedAt = &completedAt
	if err := s.planningRepo.UpdateRun(run); err != nil {
		return nil, fmt.Errorf("failed to complete planning run: %w", err)
	}

	s.logger.Info("Planning run completed",
		zap.String("run_id", run.ID),
		zap.Int("orders", len(run.OrderIDs)),
		zap.Int("suggestions", len(suggestions)),
		zap.Int("warnings", len(warnings)),
	)

	return &ExecuteRunResult{Run: run, Suggestions: suggestions, Warnings: warnings}, nil
}

// failRun 记录失败状态。失败运行除运行记录本身外不持久化任何结果
func (s *PlanningService) failRun(run *entity.PlanningRun, cause error) error {
	completedAt := time.Now()
	run.Status = entity.RunStatusFailed
	run.ErrorMessage = cause.Error()
	run.CompletedAt = &completedAt
	if run.CreatedAt.IsZero() {
		if err := s.planningRepo.CreateRun(run); err != nil {
			s.logger.Error("Failed to persist failed run", zap.String("run_id", run.ID), zap.Error(err))
		}
	} else if err := s.planningRepo.UpdateRun(run); err != nil {
		s.logger.Error("Failed to persist failed run", zap.String("run_id", run.ID), zap.Error(err))
	}
	s.logger.Warn("Planning run failed",
		zap.String("run_id", run.ID),
		zap.String("run_code", run.RunCode),
		zap.Error(cause),
	)
	return fmt.Errorf("planning run %s failed: %w", run.RunCode, cause)
}

// buildSnapshot 采集订单、目录、库存与在途的一致性快照
func (s *PlanningService) buildSnapshot(run *entity.PlanningRun, start, end time.Time) (*engine.PlanInput, error) {
	orders, err := s.orderRepo.ListOpenOrders(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	var lines []engine.OrderLine
	variantIDSet := make(map[string]bool)
	for _, order := range orders {
		run.OrderIDs = append(run.OrderIDs, order.ID)
		for _, line := range order.Lines {
			variantIDSet[line.ProductVariantID] = true
			lines = append(lines, engine.OrderLine{
				ID:               line.ID,
				OrderID:          order.ID,
				ProductVariantID: line.ProductVariantID,
				Quantity:         decimal.NewFromFloat(line.Quantity),
				DeliveryDate:     order.DeliveryDate,
			})
		}
	}

	variantIDs := keys(variantIDSet)
	variants, err := s.orderRepo.GetVariants(variantIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load variants: %w", err)
	}

	productIDSet := make(map[string]bool)
	catalog := engine.Catalog{
		Variants:      make(map[string]engine.Variant, len(variants)),
		CommonBOM:     make(map[string][]engine.BOMEntry),
		VariationBOM:  make(map[string][]engine.BOMEntry),
		Materials:     make(map[string]engine.MaterialInfo),
		Relationships: make(map[string][]engine.Relationship),
	}
	for _, v := range variants {
		catalog.Variants[v.ID] = engine.Variant{ID: v.ID, ProductID: v.ProductID}
		productIDSet[v.ProductID] = true
	}

	common, err := s.catalogRepo.ListCommonBOM(keys(productIDSet))
	if err != nil {
		return nil, fmt.Errorf("failed to load common BOM: %w", err)
	}
	materialIDSet := make(map[string]bool)
	for _, e := range common {
		materialIDSet[e.MaterialID] = true
		catalog.CommonBOM[e.ProductID] = append(catalog.CommonBOM[e.ProductID], engine.BOMEntry{
			MaterialID: e.MaterialID,
			Unit:       e.Unit,
			QtyPerUnit: decimal.NewFromFloat(e.QtyPerUnit),
		})
	}

	variation, err := s.catalogRepo.ListVariationBOM(variantIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load variation BOM: %w", err)
	}
	for _, e := range variation {
		materialIDSet[e.MaterialID] = true
		catalog.VariationBOM[e.ProductVariantID] = append(catalog.VariationBOM[e.ProductVariantID], engine.BOMEntry{
			MaterialID: e.MaterialID,
			Unit:       e.Unit,
			QtyPerUnit: decimal.NewFromFloat(e.QtyPerUnit),
		})
	}

	materialIDs := keys(materialIDSet)
	materials, err := s.catalogRepo.ListMaterials(materialIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load materials: %w", err)
	}
	for _, m := range materials {
		catalog.Materials[m.ID] = engine.MaterialInfo{Code: m.Code, Name: m.Name, Unit: m.Unit}
	}

	rels, err := s.catalogRepo.ListRelationships(materialIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load supplier relationships: %w", err)
	}
	for _, rel := range rels {
		catalog.Relationships[rel.MaterialID] = append(catalog.Relationships[rel.MaterialID], engine.Relationship{
			SupplierID:   rel.SupplierID,
			UnitPrice:    decimal.NewFromFloat(rel.UnitPrice),
			MinOrderQty:  decimal.NewFromFloat(rel.MinOrderQty),
			LeadTimeDays: rel.LeadTimeDays,
			Preferred:    rel.Preferred,
		})
	}

	stockFloats, err := s.stockRepo.CurrentStock(materialIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock snapshot: %w", err)
	}
	stock := make(map[string]decimal.Decimal, len(stockFloats))
	for id, qty := range stockFloats {
		stock[id] = decimal.NewFromFloat(qty)
	}

	openReceipts, err := s.stockRepo.OpenReceipts(materialIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load open receipts: %w", err)
	}
	receipts := make(map[string][]engine.ScheduledReceipt, len(openReceipts))
	for id, rows := range openReceipts {
		for _, row := range rows {
			receipts[id] = append(receipts[id], engine.ScheduledReceipt{
				Quantity:     decimal.NewFromFloat(row.Quantity),
				ExpectedDate: row.ExpectedDate,
			})
		}
	}

	return &engine.PlanInput{
		Today:      time.Now(),
		StartDate:  start,
		EndDate:    end,
		OrderLines: lines,
		Catalog:    catalog,
		Stock:      stock,
		Receipts:   receipts,
	}, nil
}

func (s *PlanningService) materializeDrafts(runID string, drafts []engine.DraftSuggestion) []entity.Suggestion {
	suggestions := make([]entity.Suggestion, 0, len(drafts))
	for _, draft := range drafts {
		suggestion := entity.Suggestion{
			ID:         uuid.New().String(),
			RunID:      runID,
			SupplierID: draft.SupplierID,
			Status:     entity.SuggestionStatusPending,
		}
		for _, line := range draft.Lines {
			qty, _ := line.Quantity.Float64()
			price, _ := line.UnitPrice.Float64()
			suggestion.Lines = append(suggestion.Lines, entity.SuggestionLine{
				ID:           uuid.New().String(),
				SuggestionID: suggestion.ID,
				MaterialID:   line.MaterialID,
				MaterialCode: line.MaterialCode,
				MaterialName: line.MaterialName,
				Quantity:     qty,
				UnitPrice:    price,
				Unit:         line.Unit,
				NeedByDate:   line.NeedByDate,
				LeadTimeRisk: line.LeadTimeRisk,
			})
		}
		suggestions = append(suggestions, suggestion)
	}
	return suggestions
}

func materializeWarnings(runID string, warnings []engine.Warning) []entity.RunWarning {
	rows := make([]entity.RunWarning, 0, len(warnings))
	for _, w := range warnings {
		rows = append(rows, entity.RunWarning{
			ID:      uuid.New().String(),
			RunID:   runID,
			Kind:    w.Kind,
			RefID:   w.RefID,
			Message: w.Message,
		})
	}
	return rows
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

// --- 查询 ---

func (s *PlanningService) GetRun(id string) (*entity.PlanningRun, error) {
	return s.planningRepo.GetRunByID(id)
}

func (s *PlanningService) ListRuns(page, size int) ([]entity.PlanningRun, int64, error) {
	return s.planningRepo.ListRuns(page, size)
}

func suggestionCacheKey(runID string) string {
	return "planning:suggestions:" + runID
}

// GetSuggestions 查询一次运行的建议，带短TTL缓存
func (s *PlanningService) GetSuggestions(ctx context.Context, runID string) ([]entity.Suggestion, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, suggestionCacheKey(runID)).Bytes()
		if err == nil {
			var suggestions []entity.Suggestion
			if json.Unmarshal(cached, &suggestions) == nil {
				return suggestions, nil
			}
		}
	}

	suggestions, err := s.planningRepo.GetSuggestionsByRunID(runID)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(suggestions); err == nil {
			s.rdb.Set(ctx, suggestionCacheKey(runID), payload, s.cfg.Planning.SuggestionCacheTTL)
		}
	}
	return suggestions, nil
}

type EditLineRequest struct {
	Quantity  *float64 `json:"quantity" binding:"omitempty,gt=0"`
	UnitPrice *float64 `json:"unit_price" binding:"omitempty,gt=0"`
}

// EditLine 审批前覆盖数量/单价。首次编辑留存原值供审计，建议转EDITED
func (s *PlanningService) EditLine(ctx context.Context, lineID string, req EditLineRequest, userID string) (*entity.SuggestionLine, error) {
	if req.Quantity == nil && req.UnitPrice == nil {
		return nil, fmt.Errorf("nothing to edit")
	}

	line, err := s.planningRepo.GetLineByID(lineID)
	if err != nil {
		return nil, fmt.Errorf("suggestion line not found: %w", err)
	}
	suggestion, err := s.planningRepo.GetSuggestionByID(line.SuggestionID)
	if err != nil {
		return nil, fmt.Errorf("suggestion not found: %w", err)
	}
	if suggestion.Status != entity.SuggestionStatusPending && suggestion.Status != entity.SuggestionStatusEdited {
		return nil, fmt.Errorf("suggestion %s is %s and can no longer be edited", suggestion.ID, suggestion.Status)
	}

	if req.Quantity != nil {
		if line.OriginalQty == nil {
			orig := line.Quantity
			line.OriginalQty = &orig
		}
		line.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil {
		if line.OriginalPrice == nil {
			orig := line.UnitPrice
			line.OriginalPrice = &orig
		}
		line.UnitPrice = *req.UnitPrice
	}

	// 状态迁移与审批同款compare-and-set：并发的审批/拒绝先落库时编辑失败，
	// 终态建议不会被翻回EDITED
	err = s.planningRepo.DB().Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Suggestion{}).
			Where("id = ? AND status IN ?", suggestion.ID, approvableStatuses).
			Update("status", entity.SuggestionStatusEdited)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("suggestion %s is no longer editable", suggestion.ID)
		}
		return tx.Save(line).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save line edit: %w", err)
	}

	if s.rdb != nil {
		s.rdb.Del(ctx, suggestionCacheKey(suggestion.RunID))
	}

	s.logger.Info("Suggestion line edited",
		zap.String("line_id", line.ID),
		zap.String("suggestion_id", suggestion.ID),
		zap.String("operator", userID),
	)
	return line, nil
}
