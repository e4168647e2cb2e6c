package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/telaros/tela-erp/internal/planning/service"
)

type PlanningHandler struct {
	svc    *service.PlanningService
	export *service.ExportService
}

func NewPlanningHandler(svc *service.PlanningService, export *service.ExportService) *PlanningHandler {
	return &PlanningHandler{svc: svc, export: export}
}

// Execute 执行一次计划运行
func (h *PlanningHandler) Execute(c *gin.Context) {
	var req service.ExecuteRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	userID, _ := c.Get("user_id")
	result, err := h.svc.Execute(req, userID.(string))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": result})
}

func (h *PlanningHandler) GetRun(c *gin.Context) {
	run, err := h.svc.GetRun(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": "planning run not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": run})
}

func (h *PlanningHandler) ListRuns(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	runs, total, err := h.svc.ListRuns(page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": runs, "total": total, "page": page, "size": size}})
}

func (h *PlanningHandler) GetSuggestions(c *gin.Context) {
	suggestions, err := h.svc.GetSuggestions(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": suggestions})
}

// ExportSuggestions 导出运行建议为xlsx
func (h *PlanningHandler) ExportSuggestions(c *gin.Context) {
	runID := c.Param("id")
	f, err := h.export.ExportSuggestions(runID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": err.Error()})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="suggestions-%s.xlsx"`, runID))
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
	}
}
