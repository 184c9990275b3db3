package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"stockyard/internal/core/id"
	"stockyard/internal/core/statusflow"
	"stockyard/internal/domain"
	"stockyard/internal/domain/documents/dn"
	"stockyard/internal/infrastructure/http/v1/dto"
)

// DNHandler serves the outbound DN document endpoints.
type DNHandler struct {
	*BaseHandler
	service    *dn.Service
	statusLogs domain.StatusLogRepository
}

// NewDNHandler creates a new DN handler.
func NewDNHandler(base *BaseHandler, service *dn.Service, statusLogs domain.StatusLogRepository) *DNHandler {
	return &DNHandler{BaseHandler: base, service: service, statusLogs: statusLogs}
}

// RegisterRoutes registers DN routes on the group.
func (h *DNHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/status-log", h.StatusLog)
	rg.POST("/:id/process", h.Process)
	rg.POST("/:id/close", h.Close)
}

// Create handles POST /documents/dn.
func (h *DNHandler) Create(c *gin.Context) {
	var req dto.CreateDNRequest
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

// List handles GET /documents/dn.
func (h *DNHandler) List(c *gin.Context) {
	var query dto.DocumentListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.ToFilter(statusflow.KindDN)
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

// GetByID handles GET /documents/dn/:id.
func (h *DNHandler) GetByID(c *gin.Context) {
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

// Update handles PUT /documents/dn/:id.
func (h *DNHandler) Update(c *gin.Context) {
	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateDNRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := req.ApplyTo(doc); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Delete handles DELETE /documents/dn/:id.
func (h *DNHandler) Delete(c *gin.Context) {
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

// StatusLog handles GET /documents/dn/:id/status-log.
func (h *DNHandler) StatusLog(c *gin.Context) {
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

// Process handles POST /documents/dn/:id/process.
func (h *DNHandler) Process(c *gin.Context) {
	h.transition(c, h.service.Process)
}

// Close handles POST /documents/dn/:id/close.
func (h *DNHandler) Close(c *gin.Context) {
	h.transition(c, h.service.Close)
}

func (h *DNHandler) transition(c *gin.Context, fn func(ctx context.Context, docID id.ID, operatorID string) (*dn.DN, error)) {
	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.OperatorRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := fn(c.Request.Context(), docID, req.OperatorID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}
