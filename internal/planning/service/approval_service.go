package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/telaros/tela-erp/internal/planning/entity"
	"github.com/telaros/tela-erp/internal/planning/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ApprovalConflictError 同一建议的两次审批竞争。第二个调用方拿到幂等结果，
// 只有状态与PO不一致的异常情况才会向外冒出
type ApprovalConflictError struct {
	SuggestionID string
}

func (e *ApprovalConflictError) Error() string {
	return fmt.Sprintf("concurrent approval conflict on suggestion %s", e.SuggestionID)
}

type ApprovalService struct {
	planningRepo *repository.PlanningRepository
	purchaseRepo *repository.PurchaseRepository
	rdb          *redis.Client
	logger       *zap.Logger
}

func NewApprovalService(
	planningRepo *repository.PlanningRepository,
	purchaseRepo *repository.PurchaseRepository,
	rdb *redis.Client,
	logger *zap.Logger,
) *ApprovalService {
	return &ApprovalService{
		planningRepo: planningRepo,
		purchaseRepo: purchaseRepo,
		rdb:          rdb,
		logger:       logger,
	}
}

var approvableStatuses = []string{entity.SuggestionStatusPending, entity.SuggestionStatusEdited}

// Approve 审批一批建议并物化为采购订单。整批在一个事务内提交，
// 任何一条失败则全部回滚，避免部分物化。对已审批的建议幂等：
// 返回已存在的PO而不是重复创建
func (s *ApprovalService) Approve(ctx context.Context, suggestionIDs []string, userID string) ([]entity.PurchaseOrder, error) {
	if len(suggestionIDs) == 0 {
		return nil, fmt.Errorf("no suggestion ids given")
	}

	var orders []entity.PurchaseOrder
	runIDs := make(map[string]bool)

	err := s.planningRepo.DB().Transaction(func(tx *gorm.DB) error {
		for _, id := range suggestionIDs {
			po, runID, err := s.approveOne(tx, id, userID)
			if err != nil {
				return err
			}
			orders = append(orders, *po)
			runIDs[runID] = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		for runID := range runIDs {
			s.rdb.Del(ctx, suggestionCacheKey(runID))
		}
	}

	s.logger.Info("Suggestions approved",
		zap.Int("count", len(suggestionIDs)),
		zap.String("operator", userID),
	)
	return orders, nil
}

// approveOne 单条建议的审批。状态迁移PENDING/EDITED→APPROVED以
// 原子compare-and-set实现，保证并发审批不会为同一建议开出两张PO
func (s *ApprovalService) approveOne(tx *gorm.DB, suggestionID, userID string) (*entity.PurchaseOrder, string, error) {
	now := time.Now()
	res := tx.Model(&entity.Suggestion{}).
		Where("id = ? AND status IN ?", suggestionID, approvableStatuses).
		Updates(map[string]interface{}{
			"status":      entity.SuggestionStatusApproved,
			"approved_by": userID,
			"approved_at": now,
		})
	if res.Error != nil {
		return nil, "", res.Error
	}

	if res.RowsAffected == 0 {
		// CAS落空：建议不存在、已拒绝，或已被并发审批拿下
		var current entity.Suggestion
		if err := tx.Where("id = ?", suggestionID).First(&current).Error; err != nil {
			return nil, "", fmt.Errorf("suggestion %s not found: %w", suggestionID, err)
		}
		switch current.Status {
		case entity.SuggestionStatusApproved:
			var existing entity.PurchaseOrder
			if err := tx.Preload("Items").Where("suggestion_id = ?", suggestionID).First(&existing).Error; err != nil {
				return nil, "", &ApprovalConflictError{SuggestionID: suggestionID}
			}
			return &existing, current.RunID, nil
		case entity.SuggestionStatusRejected:
			return nil, "", fmt.Errorf("suggestion %s is rejected and cannot be approved", suggestionID)
		default:
			return nil, "", &ApprovalConflictError{SuggestionID: suggestionID}
		}
	}

	var suggestion entity.Suggestion
	if err := tx.Preload("Lines").Where("id = ?", suggestionID).First(&suggestion).Error; err != nil {
		return nil, "", fmt.Errorf("failed to reload suggestion %s: %w", suggestionID, err)
	}

	po := buildPurchaseOrder(&suggestion, userID, now)
	if err := tx.Create(po).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create purchase order for suggestion %s: %w", suggestionID, err)
	}
	if err := tx.Model(&entity.Suggestion{}).
		Where("id = ?", suggestionID).
		Update("purchase_order_id", po.ID).Error; err != nil {
		return nil, "", err
	}

	return po, suggestion.RunID, nil
}

// buildPurchaseOrder 明细1:1来源于建议明细，使用操作员编辑后的数量与单价
func buildPurchaseOrder(suggestion *entity.Suggestion, userID string, now time.Time) *entity.PurchaseOrder {
	po := &entity.PurchaseOrder{
		ID:           uuid.New().String(),
		POCode:       fmt.Sprintf("PO-%s%04d", now.Format("20060102"), now.UnixNano()%10000),
		SupplierID:   suggestion.SupplierID,
		SuggestionID: suggestion.ID,
		RunID:        suggestion.RunID,
		Status:       entity.POStatusIssued,
		OrderDate:    &now,
		CreatedBy:    userID,
	}

	var total float64
	var earliest *time.Time
	for _, line := range suggestion.Lines {
		amount := line.Quantity * line.UnitPrice
		total += amount
		needBy := line.NeedByDate
		if earliest == nil || needBy.Before(*earliest) {
			earliest = &needBy
		}
		po.Items = append(po.Items, entity.POItem{
			ID:               uuid.New().String(),
			POID:             po.ID,
			SuggestionLineID: line.ID,
			MaterialID:       line.MaterialID,
			MaterialCode:     line.MaterialCode,
			MaterialName:     line.MaterialName,
			Quantity:         line.Quantity,
			Unit:             line.Unit,
			UnitPrice:        line.UnitPrice,
			Amount:           amount,
			NeedByDate:       &needBy,
			Status:           entity.POItemStatusOpen,
		})
	}
	po.TotalAmount = total
	po.ExpectedDate = earliest
	return po
}

// Reject 拒绝一批建议。REJECTED是终态，之后既不能审批也不会被物化；
// 重复拒绝是无害的no-op，拒绝已审批的建议视为错误
func (s *ApprovalService) Reject(ctx context.Context, suggestionIDs []string, userID string) error {
	if len(suggestionIDs) == 0 {
		return fmt.Errorf("no suggestion ids given")
	}

	runIDs := make(map[string]bool)
	err := s.planningRepo.DB().Transaction(func(tx *gorm.DB) error {
		for _, id := range suggestionIDs {
			res := tx.Model(&entity.Suggestion{}).
				Where("id = ? AND status IN ?", id, approvableStatuses).
				Update("status", entity.SuggestionStatusRejected)
			if res.Error != nil {
				return res.Error
			}
			var current entity.Suggestion
			if err := tx.Select("run_id", "status").Where("id = ?", id).First(&current).Error; err != nil {
				return fmt.Errorf("suggestion %s not found: %w", id, err)
			}
			if res.RowsAffected == 0 && current.Status == entity.SuggestionStatusApproved {
				return fmt.Errorf("suggestion %s is already approved and cannot be rejected", id)
			}
			runIDs[current.RunID] = true
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.rdb != nil {
		for runID := range runIDs {
			s.rdb.Del(ctx, suggestionCacheKey(runID))
		}
	}

	s.logger.Info("Suggestions rejected",
		zap.Int("count", len(suggestionIDs)),
		zap.String("operator", userID),
	)
	return nil
}

// ListPurchaseOrders 查询物化出的采购订单
func (s *ApprovalService) ListPurchaseOrders(params repository.POListParams) ([]entity.PurchaseOrder, int64, error) {
	return s.purchaseRepo.ListPOs(params)
}

func (s *ApprovalService) GetPurchaseOrder(id string) (*entity.PurchaseOrder, error) {
	return s.purchaseRepo.GetPOByID(id)
}
