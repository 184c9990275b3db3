package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/domain/movement"
	"stockyard/internal/infrastructure/http/v1/dto"
)

// MovementHandler serves stock movement endpoints: putaway, removal,
// transfer, their bulk forms and the immutable movement history.
type MovementHandler struct {
	*BaseHandler
	service *movement.Service
}

// NewMovementHandler creates a new movement handler.
func NewMovementHandler(base *BaseHandler, service *movement.Service) *MovementHandler {
	return &MovementHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers movement routes on the group.
func (h *MovementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/putaway", h.Putaway)
	rg.POST("/removal", h.Removal)
	rg.POST("/transfer", h.Transfer)
	rg.POST("/putaway/bulk", h.BulkPutaway)
	rg.POST("/removal/bulk", h.BulkRemoval)
	rg.POST("/transfer/bulk", h.BulkTransfer)
	rg.GET("/:id", h.GetByID)
	rg.GET("/history/by-goods/:goodsId", h.HistoryByGoods)
	rg.GET("/history/by-location/:locationId", h.HistoryByLocation)
}

// Putaway handles POST /movements/putaway.
func (h *MovementHandler) Putaway(c *gin.Context) {
	var req dto.PutawayRequest
	if !h.BindJSON(c, &req) {
		return
	}

	domainReq, err := req.ToDomain()
	if err != nil {
		h.Error(c, err)
		return
	}

	record, err := h.service.Putaway(c.Request.Context(), domainReq)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, record)
}

// Removal handles POST /movements/removal.
func (h *MovementHandler) Removal(c *gin.Context) {
	var req dto.RemovalRequest
	if !h.BindJSON(c, &req) {
		return
	}

	domainReq, err := req.ToDomain()
	if err != nil {
		h.Error(c, err)
		return
	}

	record, err := h.service.Removal(c.Request.Context(), domainReq)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, record)
}

// Transfer handles POST /movements/transfer.
func (h *MovementHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if !h.BindJSON(c, &req) {
		return
	}

	domainReq, err := req.ToDomain()
	if err != nil {
		h.Error(c, err)
		return
	}

	record, err := h.service.Transfer(c.Request.Context(), domainReq)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, record)
}

// BulkPutaway handles POST /movements/putaway/bulk. All items succeed
// or none do.
func (h *MovementHandler) BulkPutaway(c *gin.Context) {
	var req dto.BulkPutawayRequest
	if !h.BindJSON(c, &req) {
		return
	}

	reqs := make([]movement.PutawayRequest, 0, len(req.Items))
	for _, item := range req.Items {
		domainReq, err := item.ToDomain()
		if err != nil {
			h.Error(c, err)
			return
		}
		reqs = append(reqs, domainReq)
	}

	records, err := h.service.BulkPutaway(c.Request.Context(), reqs)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, records)
}

// BulkRemoval handles POST /movements/removal/bulk.
func (h *MovementHandler) BulkRemoval(c *gin.Context) {
	var req dto.BulkRemovalRequest
	if !h.BindJSON(c, &req) {
		return
	}

	reqs := make([]movement.RemovalRequest, 0, len(req.Items))
	for _, item := range req.Items {
		domainReq, err := item.ToDomain()
		if err != nil {
			h.Error(c, err)
			return
		}
		reqs = append(reqs, domainReq)
	}

	records, err := h.service.BulkRemoval(c.Request.Context(), reqs)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, records)
}

// BulkTransfer handles POST /movements/transfer/bulk.
func (h *MovementHandler) BulkTransfer(c *gin.Context) {
	var req dto.BulkTransferRequest
	if !h.BindJSON(c, &req) {
		return
	}

	reqs := make([]movement.TransferRequest, 0, len(req.Items))
	for _, item := range req.Items {
		domainReq, err := item.ToDomain()
		if err != nil {
			h.Error(c, err)
			return
		}
		reqs = append(reqs, domainReq)
	}

	records, err := h.service.BulkTransfer(c.Request.Context(), reqs)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, records)
}

// GetByID handles GET /movements/:id.
func (h *MovementHandler) GetByID(c *gin.Context) {
	recordID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	record, err := h.service.GetByID(c.Request.Context(), recordID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, record)
}

// HistoryByGoods handles GET /movements/history/by-goods/:goodsId.
func (h *MovementHandler) HistoryByGoods(c *gin.Context) {
	goodsID, ok := h.ParseIDParam(c, "goodsId")
	if !ok {
		return
	}
	filter, ok := h.parseHistoryFilter(c)
	if !ok {
		return
	}

	result, err := h.service.HistoryByGoods(c.Request.Context(), goodsID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// HistoryByLocation handles GET /movements/history/by-location/:locationId.
func (h *MovementHandler) HistoryByLocation(c *gin.Context) {
	locationID, ok := h.ParseIDParam(c, "locationId")
	if !ok {
		return
	}
	filter, ok := h.parseHistoryFilter(c)
	if !ok {
		return
	}

	result, err := h.service.HistoryByLocation(c.Request.Context(), locationID, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

func (h *MovementHandler) parseHistoryFilter(c *gin.Context) (movement.HistoryFilter, bool) {
	filter := movement.HistoryFilter{
		Limit:  50,
		Offset: 0,
	}

	if raw := c.Query("kind"); raw != "" {
		kind := entity.MovementKind(raw)
		switch kind {
		case entity.MovementPutaway, entity.MovementRemoval, entity.MovementTransfer:
			filter.Kind = &kind
		default:
			h.Error(c, apperror.NewValidation("invalid movement kind").WithField("kind").WithDetail("kind", raw))
			return filter, false
		}
	}

	for _, bound := range []struct {
		name   string
		target **time.Time
	}{
		{"createdFrom", &filter.CreatedFrom},
		{"createdTo", &filter.CreatedTo},
	} {
		if raw := c.Query(bound.name); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				h.Error(c, apperror.NewValidation("invalid "+bound.name).WithField(bound.name))
				return filter, false
			}
			*bound.target = &t
		}
	}

	if limit := h.parseIntQuery(c, "limit", 50); limit > 0 {
		filter.Limit = limit
	}
	filter.Offset = h.parseIntQuery(c, "offset", 0)

	return filter, true
}
