package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/telaros/tela-erp/internal/planning/repository"
	"github.com/telaros/tela-erp/internal/planning/service"
)

type SuggestionHandler struct {
	planning *service.PlanningService
	approval *service.ApprovalService
}

func NewSuggestionHandler(planning *service.PlanningService, approval *service.ApprovalService) *SuggestionHandler {
	return &SuggestionHandler{planning: planning, approval: approval}
}

// EditLine 审批前覆盖建议明细的数量/单价
func (h *SuggestionHandler) EditLine(c *gin.Context) {
	var req service.EditLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	userID, _ := c.Get("user_id")
	line, err := h.planning.EditLine(c.Request.Context(), c.Param("id"), req, userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": line})
}

type suggestionBatchRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// Approve 审批一批建议，返回物化出的采购订单
func (h *SuggestionHandler) Approve(c *gin.Context) {
	var req suggestionBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	userID, _ := c.Get("user_id")
	orders, err := h.approval.Approve(c.Request.Context(), req.IDs, userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": orders})
}

// Reject 拒绝一批建议
func (h *SuggestionHandler) Reject(c *gin.Context) {
	var req suggestionBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	userID, _ := c.Get("user_id")
	if err := h.approval.Reject(c.Request.Context(), req.IDs, userID.(string)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}

// ListPurchaseOrders 查询物化出的采购订单
func (h *SuggestionHandler) ListPurchaseOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	params := repository.POListParams{
		SupplierID: c.Query("supplier_id"),
		RunID:      c.Query("run_id"),
		Status:     c.Query("status"),
		Page:       page,
		Size:       size,
	}
	orders, total, err := h.approval.ListPurchaseOrders(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": orders, "total": total, "page": page, "size": size}})
}

func (h *SuggestionHandler) GetPurchaseOrder(c *gin.Context) {
	po, err := h.approval.GetPurchaseOrder(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": "purchase order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": po})
}
