package handlers

import (
	"github.com/gin-gonic/gin"

	"stockyard/internal/domain/catalogs/goods"
	"stockyard/internal/infrastructure/http/v1/dto"
)

// GoodsHandler serves the goods catalog endpoints.
type GoodsHandler struct {
	*BaseHandler
	service *goods.Service
}

// NewGoodsHandler creates a new goods handler.
func NewGoodsHandler(base *BaseHandler, service *goods.Service) *GoodsHandler {
	return &GoodsHandler{BaseHandler: base, service: service}
}

// RegisterRoutes registers goods routes on the group.
func (h *GoodsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// Create handles POST /catalog/goods.
func (h *GoodsHandler) Create(c *gin.Context) {
	var req dto.CreateGoodsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := req.ToEntity()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), item); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, item.ID)
}

// List handles GET /catalog/goods.
func (h *GoodsHandler) List(c *gin.Context) {
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

// GetByID handles GET /catalog/goods/:id.
func (h *GoodsHandler) GetByID(c *gin.Context) {
	goodsID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), goodsID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}

// Update handles PUT /catalog/goods/:id.
func (h *GoodsHandler) Update(c *gin.Context) {
	goodsID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateGoodsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), goodsID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := req.ApplyTo(item); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(c.Request.Context(), item); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}

// Delete handles DELETE /catalog/goods/:id.
func (h *GoodsHandler) Delete(c *gin.Context) {
	goodsID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), goodsID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
