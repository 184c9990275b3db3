package handlers

import (
	"github.com/gin-gonic/gin"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/domain/catalogs/location"
	"stockyard/internal/infrastructure/http/v1/dto"
)

// LocationHandler serves the location catalog endpoints.
type LocationHandler struct {
	*BaseHandler
	service *location.Service
}

// NewLocationHandler creates a new location handler.
func NewLocationHandler(base *BaseHandler, service *location.Service) *LocationHandler {
	return &LocationHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers location routes on the group.
func (h *LocationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// Create handles POST /catalog/locations.
func (h *LocationHandler) Create(c *gin.Context) {
	var req dto.CreateLocationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	warehouseID, err := id.Parse(req.WarehouseID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid warehouseId").WithField("warehouseId"))
		return
	}

	item := location.New(req.Code, req.Name, warehouseID, location.Type(req.LocationType))
	if err := h.service.Create(c.Request.Context(), item); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, item.ID)
}

// List handles GET /catalog/locations. An optional warehouseId query
// parameter narrows the result to one warehouse.
func (h *LocationHandler) List(c *gin.Context) {
	if raw := c.Query("warehouseId"); raw != "" {
		warehouseID, err := id.Parse(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid warehouseId").WithField("warehouseId"))
			return
		}
		items, err := h.service.ListByWarehouse(c.Request.Context(), warehouseID)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, items)
		return
	}

	var query dto.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	result, err := h.service.List(c.Request.Context(), query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// GetByID handles GET /catalog/locations/:id.
func (h *LocationHandler) GetByID(c *gin.Context) {
	locationID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), locationID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}

// Update handles PUT /catalog/locations/:id.
func (h *LocationHandler) Update(c *gin.Context) {
	locationID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateLocationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), locationID)
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(item)

	if err := h.service.Update(c.Request.Context(), item); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}

// Delete handles DELETE /catalog/locations/:id.
func (h *LocationHandler) Delete(c *gin.Context) {
	locationID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), locationID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
