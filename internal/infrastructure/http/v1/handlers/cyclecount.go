package handlers

import (
	"github.com/gin-gonic/gin"

	"stockyard/internal/core/statusflow"
	"stockyard/internal/core/types"
	"stockyard/internal/domain"
	"stockyard/internal/domain/recon/cyclecount"
	"stockyard/internal/infrastructure/http/v1/dto"
)

// CycleCountHandler serves cycle count task endpoints.
type CycleCountHandler struct {
	*BaseHandler
	service    *cyclecount.Service
	statusLogs domain.StatusLogRepository
}

// NewCycleCountHandler creates the cycle count handler.
func NewCycleCountHandler(base *BaseHandler, service *cyclecount.Service, statusLogs domain.StatusLogRepository) *CycleCountHandler {
	return &CycleCountHandler{BaseHandler: base, service: service, statusLogs: statusLogs}
}

// RegisterRoutes registers cycle count routes on the group.
func (h *CycleCountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.POST("/from-goods", h.CreateFromGoodsList)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/status-log", h.StatusLog)
	rg.POST("/:id/start", h.Start)
	rg.POST("/:id/details/:detailId/count", h.RecordCount)
	rg.POST("/:id/complete", h.Complete)
}

// Create handles POST /recon/cycle-counts.
func (h *CycleCountHandler) Create(c *gin.Context) {
	var req dto.CreateCycleCountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	task, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), task); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, task.ID)
}

// CreateFromGoodsList handles POST /recon/cycle-counts/from-goods. It
// builds one count line per stocked location of each listed goods.
func (h *CycleCountHandler) CreateFromGoodsList(c *gin.Context) {
	var req dto.CreateFromGoodsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	warehouseID, goodsIDs, err := req.ParseIDs()
	if err != nil {
		h.Error(c, err)
		return
	}

	task, err := h.service.CreateFromGoodsList(c.Request.Context(), goodsIDs, warehouseID, req.CreatedBy)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, task.ID)
}

// List handles GET /recon/cycle-counts.
func (h *CycleCountHandler) List(c *gin.Context) {
	var query dto.DocumentListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.ToFilter(statusflow.KindCycleCount)
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

// GetByID handles GET /recon/cycle-counts/:id.
func (h *CycleCountHandler) GetByID(c *gin.Context) {
	taskID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.service.GetByID(c.Request.Context(), taskID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, task)
}

// Delete handles DELETE /recon/cycle-counts/:id.
func (h *CycleCountHandler) Delete(c *gin.Context) {
	taskID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), taskID, h.operatorQuery(c)); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// StatusLog handles GET /recon/cycle-counts/:id/status-log.
func (h *CycleCountHandler) StatusLog(c *gin.Context) {
	taskID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	rows, err := h.statusLogs.ListByDocument(c.Request.Context(), taskID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rows)
}

// Start handles POST /recon/cycle-counts/:id/start. Starting snapshots
// the system quantity on every line.
func (h *CycleCountHandler) Start(c *gin.Context) {
	taskID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.OperatorRequest
	if !h.BindJSON(c, &req) {
		return
	}

	task, err := h.service.Start(c.Request.Context(), taskID, req.OperatorID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, task)
}

// RecordCount handles POST /recon/cycle-counts/:id/details/:detailId/count.
func (h *CycleCountHandler) RecordCount(c *gin.Context) {
	taskID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	detailID, ok := h.ParseIDParam(c, "detailId")
	if !ok {
		return
	}

	var req dto.RecordCountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	task, err := h.service.RecordCount(c.Request.Context(), taskID, detailID, types.Quantity(req.ActualQuantity), req.OperatorID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, task)
}

// Complete handles POST /recon/cycle-counts/:id/complete.
func (h *CycleCountHandler) Complete(c *gin.Context) {
	taskID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.OperatorRequest
	if !h.BindJSON(c, &req) {
		return
	}

	task, err := h.service.Complete(c.Request.Context(), taskID, req.OperatorID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, task)
}
