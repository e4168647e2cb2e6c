package handler

import "github.com/telaros/tela-erp/internal/planning/service"

// Handlers 计划子系统HTTP处理器集合
type Handlers struct {
	Planning   *PlanningHandler
	Suggestion *SuggestionHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Planning:   NewPlanningHandler(services.Planning, services.Export),
		Suggestion: NewSuggestionHandler(services.Planning, services.Approval),
	}
}
