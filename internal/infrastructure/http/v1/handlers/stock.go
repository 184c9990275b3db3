package handlers

import (
	"github.com/gin-gonic/gin"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/domain/ledger"
)

// StockHandler serves read-only stock ledger endpoints. Stock is never
// mutated here; all writes go through movements and adjustments.
type StockHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *ledger.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers stock routes on the group.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/quantity", h.GetQuantity)
	rg.GET("/by-goods/:goodsId", h.ListByGoods)
	rg.GET("/by-location/:locationId", h.ListByLocation)
	rg.GET("/totals/:goodsId", h.GetTypeTotals)
}

// GetQuantity handles GET /stock/quantity?goodsId=&locationId=.
// Returns zero for pairs without a stock record.
func (h *StockHandler) GetQuantity(c *gin.Context) {
	goodsID, locationID, ok := h.parsePairQuery(c)
	if !ok {
		return
	}

	quantity, err := h.service.ReadQuantity(c.Request.Context(), goodsID, locationID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"goodsId":    goodsID.String(),
		"locationId": locationID.String(),
		"quantity":   quantity,
	})
}

// ListByGoods handles GET /stock/by-goods/:goodsId?warehouseId=.
func (h *StockHandler) ListByGoods(c *gin.Context) {
	goodsID, ok := h.ParseIDParam(c, "goodsId")
	if !ok {
		return
	}
	warehouseID, ok := h.parseWarehouseQuery(c)
	if !ok {
		return
	}

	records, err := h.service.ListByGoods(c.Request.Context(), goodsID, warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, records)
}

// ListByLocation handles GET /stock/by-location/:locationId.
func (h *StockHandler) ListByLocation(c *gin.Context) {
	locationID, ok := h.ParseIDParam(c, "locationId")
	if !ok {
		return
	}

	records, err := h.service.ListByLocation(c.Request.Context(), locationID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, records)
}

// GetTypeTotals handles GET /stock/totals/:goodsId?warehouseId=.
// Returns the goods quantity split by location type.
func (h *StockHandler) GetTypeTotals(c *gin.Context) {
	goodsID, ok := h.ParseIDParam(c, "goodsId")
	if !ok {
		return
	}
	warehouseID, ok := h.parseWarehouseQuery(c)
	if !ok {
		return
	}

	totals, err := h.service.AggregateByLocationType(c.Request.Context(), goodsID, warehouseID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, totals)
}

func (h *StockHandler) parsePairQuery(c *gin.Context) (goodsID, locationID id.ID, ok bool) {
	goodsID, err := id.Parse(c.Query("goodsId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid goodsId").WithField("goodsId"))
		return id.Nil(), id.Nil(), false
	}
	locationID, err = id.Parse(c.Query("locationId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid locationId").WithField("locationId"))
		return id.Nil(), id.Nil(), false
	}
	return goodsID, locationID, true
}

func (h *StockHandler) parseWarehouseQuery(c *gin.Context) (id.ID, bool) {
	warehouseID, err := id.Parse(c.Query("warehouseId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid warehouseId").WithField("warehouseId"))
		return id.Nil(), false
	}
	return warehouseID, true
}
