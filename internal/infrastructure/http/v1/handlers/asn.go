package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"stockyard/internal/core/id"
	"stockyard/internal/core/statusflow"
	"stockyard/internal/domain"
	"stockyard/internal/domain/documents/asn"
	"stockyard/internal/infrastructure/http/v1/dto"
)

// ASNHandler serves the inbound ASN document endpoints.
type ASNHandler struct {
	*BaseHandler
	service    *asn.Service
	statusLogs domain.StatusLogRepository
}

// NewASNHandler creates a new ASN handler.
func NewASNHandler(base *BaseHandler, service *asn.Service, statusLogs domain.StatusLogRepository) *ASNHandler {
	return &ASNHandler{BaseHandler: base, service: service, statusLogs: statusLogs}
}

// RegisterRoutes registers ASN routes on the group.
func (h *ASNHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/status-log", h.StatusLog)
	rg.POST("/:id/receive", h.Receive)
	rg.POST("/:id/complete", h.Complete)
	rg.POST("/:id/close", h.Close)
}

// Create handles POST /documents/asn.
func (h *ASNHandler) Create(c *gin.Context) {
	var req dto.CreateASNRequest
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

// List handles GET /documents/asn.
func (h *ASNHandler) List(c *gin.Context) {
	var query dto.DocumentListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.ToFilter(statusflow.KindASN)
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

// GetByID handles GET /documents/asn/:id.
func (h *ASNHandler) GetByID(c *gin.Context) {
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

// Update handles PUT /documents/asn/:id. Only pending documents accept
// updates.
func (h *ASNHandler) Update(c *gin.Context) {
	docID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateASNRequest
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

// Delete handles DELETE /documents/asn/:id.
func (h *ASNHandler) Delete(c *gin.Context) {
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

// StatusLog handles GET /documents/asn/:id/status-log.
func (h *ASNHandler) StatusLog(c *gin.Context) {
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

// Receive handles POST /documents/asn/:id/receive.
func (h *ASNHandler) Receive(c *gin.Context) {
	h.transition(c, h.service.Receive)
}

// Complete handles POST /documents/asn/:id/complete.
func (h *ASNHandler) Complete(c *gin.Context) {
	h.transition(c, h.service.Complete)
}

// Close handles POST /documents/asn/:id/close.
func (h *ASNHandler) Close(c *gin.Context) {
	h.transition(c, h.service.Close)
}

func (h *ASNHandler) transition(c *gin.Context, fn func(ctx context.Context, docID id.ID, operatorID string) (*asn.ASN, error)) {
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
