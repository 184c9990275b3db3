package handlers

import (
	"github.com/gin-gonic/gin"

	"stockyard/internal/core/id"
	"stockyard/internal/core/statusflow"
	"stockyard/internal/domain"
	"stockyard/internal/domain/recon/adjustment"
	"stockyard/internal/infrastructure/http/v1/dto"
)

// AdjustmentHandler serves stock adjustment document endpoints.
type AdjustmentHandler struct {
	*BaseHandler
	service    *adjustment.Service
	statusLogs domain.StatusLogRepository
}

// NewAdjustmentHandler creates the adjustment handler.
func NewAdjustmentHandler(base *BaseHandler, service *adjustment.Service, statusLogs domain.StatusLogRepository) *AdjustmentHandler {
	return &AdjustmentHandler{BaseHandler: base, service: service, statusLogs: statusLogs}
}

// RegisterRoutes registers adjustment routes on the group.
func (h *AdjustmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.POST("/from-cycle-count", h.CreateFromCycleCount)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/status-log", h.StatusLog)
	rg.POST("/:id/approve", h.Approve)
	rg.POST("/:id/complete", h.Complete)
}

// Create handles POST /recon/adjustments.
func (h *AdjustmentHandler) Create(c *gin.Context) {
	var req dto.CreateAdjustmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, doc.ID)
}

// CreateFromCycleCount handles POST /recon/adjustments/from-cycle-count.
// It turns a completed cycle count's discrepancies into correction lines.
func (h *AdjustmentHandler) CreateFromCycleCount(c *gin.Context) {
	var req dto.CreateFromCycleCountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cycleCountID, err := id.Parse(req.CycleCountID)
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.CreateFromCycleCount(c.Request.Context(), cycleCountID, req.Reason, req.CreatedBy)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, doc.ID)
}

// List handles GET /recon/adjustments.
func (h *AdjustmentHandler) List(c *gin.Context) {
	var query dto.DocumentListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.ToFilter(statusflow.KindAdjustment)
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// GetByID handles GET /recon/adjustments/:id.
func (h *AdjustmentHandler) GetByID(c *gin.Context) {
	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Delete handles DELETE /recon/adjustments/:id.
func (h *AdjustmentHandler) Delete(c *gin.Context) {
	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), docID, h.operatorQuery(c)); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// StatusLog handles GET /recon/adjustments/:id/status-log.
func (h *AdjustmentHandler) StatusLog(c *gin.Context) {
	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	rows, err := h.statusLogs.ListByDocument(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rows)
}

// Approve handles POST /recon/adjustments/:id/approve.
func (h *AdjustmentHandler) Approve(c *gin.Context) {
	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ApproveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Approve(c.Request.Context(), docID, req.ApproverID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Complete handles POST /recon/adjustments/:id/complete. Completion
// posts the correcting stock movements.
func (h *AdjustmentHandler) Complete(c *gin.Context) {
	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.OperatorRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Complete(c.Request.Context(), docID, req.OperatorID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}
