package service

import (
	"github.com/redis/go-redis/v9"
	"github.com/telaros/tela-erp/internal/config"
	"github.com/telaros/tela-erp/internal/planning/repository"
	"go.uber.org/zap"
)

// Services 计划子系统服务集合
type Services struct {
	Planning *PlanningService
	Approval *ApprovalService
	Export   *ExportService
}

func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	planning := NewPlanningService(repos.Order, repos.Catalog, repos.Stock, repos.Planning, rdb, cfg, logger)
	return &Services{
		Planning: planning,
		Approval: NewApprovalService(repos.Planning, repos.Purchase, rdb, logger),
		Export:   NewExportService(repos.Planning),
	}
}
