package handlers

import (
	"github.com/gin-gonic/gin"

	"stockyard/internal/core/statusflow"
	"stockyard/internal/domain"
	"stockyard/internal/domain/tasks/delivery"
	"stockyard/internal/domain/tasks/packing"
	"stockyard/internal/domain/tasks/picking"
	"stockyard/internal/domain/tasks/sorting"
	"stockyard/internal/infrastructure/http/v1/dto"
)

// SortingTaskHandler serves inbound sorting task endpoints.
type SortingTaskHandler struct {
	*TaskHandler[*sorting.Task]
	service *sorting.Service
}

// NewSortingTaskHandler creates the sorting task handler.
func NewSortingTaskHandler(base *BaseHandler, service *sorting.Service, statusLogs domain.StatusLogRepository) *SortingTaskHandler {
	return &SortingTaskHandler{
		TaskHandler: NewTaskHandler(base, service.Service, statusflow.KindSorting, statusLogs),
		service:     service,
	}
}

// RegisterRoutes registers sorting task routes on the group.
func (h *SortingTaskHandler) RegisterRoutes(rg *gin.RouterGroup) {
	h.registerCommon(rg)
	rg.POST("", h.Create)
	rg.POST("/:id/start", h.Start)
	rg.POST("/:id/complete", h.Complete)
}

// Create handles POST /tasks/sorting.
func (h *SortingTaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if !h.BindJSON(c, &req) {
		return
	}

	warehouseID, asnID, err := req.ParseIDs()
	if err != nil {
		h.Error(c, err)
		return
	}

	task := sorting.New(warehouseID, asnID, req.CreatedBy)
	if err := req.FillBase(&task.Base); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), task); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, task.ID)
}

// Start handles POST /tasks/sorting/:id/start.
func (h *SortingTaskHandler) Start(c *gin.Context) {
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

// Complete handles POST /tasks/sorting/:id/complete.
func (h *SortingTaskHandler) Complete(c *gin.Context) {
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

// PickingTaskHandler serves outbound picking task endpoints.
type PickingTaskHandler struct {
	*TaskHandler[*picking.Task]
	service *picking.Service
}

// NewPickingTaskHandler creates the picking task handler.
func NewPickingTaskHandler(base *BaseHandler, service *picking.Service, statusLogs domain.StatusLogRepository) *PickingTaskHandler {
	return &PickingTaskHandler{
		TaskHandler: NewTaskHandler(base, service.Service, statusflow.KindPicking, statusLogs),
		service:     service,
	}
}

// RegisterRoutes registers picking task routes on the group.
func (h *PickingTaskHandler) RegisterRoutes(rg *gin.RouterGroup) {
	h.registerCommon(rg)
	rg.POST("", h.Create)
	rg.POST("/:id/start", h.Start)
	rg.POST("/:id/complete", h.Complete)
}

// Create handles POST /tasks/picking.
func (h *PickingTaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if !h.BindJSON(c, &req) {
		return
	}

	warehouseID, dnID, err := req.ParseIDs()
	if err != nil {
		h.Error(c, err)
		return
	}

	task := picking.New(warehouseID, dnID, req.CreatedBy)
	if err := req.FillBase(&task.Base); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), task); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, task.ID)
}

// Start handles POST /tasks/picking/:id/start.
func (h *PickingTaskHandler) Start(c *gin.Context) {
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

// Complete handles POST /tasks/picking/:id/complete.
func (h *PickingTaskHandler) Complete(c *gin.Context) {
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

// PackingTaskHandler serves outbound packing task endpoints.
type PackingTaskHandler struct {
	*TaskHandler[*packing.Task]
	service *packing.Service
}

// NewPackingTaskHandler creates the packing task handler.
func NewPackingTaskHandler(base *BaseHandler, service *packing.Service, statusLogs domain.StatusLogRepository) *PackingTaskHandler {
	return &PackingTaskHandler{
		TaskHandler: NewTaskHandler(base, service.Service, statusflow.KindPacking, statusLogs),
		service:     service,
	}
}

// RegisterRoutes registers packing task routes on the group.
func (h *PackingTaskHandler) RegisterRoutes(rg *gin.RouterGroup) {
	h.registerCommon(rg)
	rg.POST("", h.Create)
	rg.POST("/:id/start", h.Start)
	rg.POST("/:id/complete", h.Complete)
}

// Create handles POST /tasks/packing. ParentID is the picking task the
// packing follows; the DN reference rides separately.
func (h *PackingTaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if !h.BindJSON(c, &req) {
		return
	}

	warehouseID, pickingID, err := req.ParseIDs()
	if err != nil {
		h.Error(c, err)
		return
	}
	dnID, err := req.ParseDNID()
	if err != nil {
		h.Error(c, err)
		return
	}

	task := packing.New(warehouseID, dnID, pickingID, req.CreatedBy)
	if err := req.FillBase(&task.Base); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), task); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, task.ID)
}

// Start handles POST /tasks/packing/:id/start.
func (h *PackingTaskHandler) Start(c *gin.Context) {
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

// Complete handles POST /tasks/packing/:id/complete.
func (h *PackingTaskHandler) Complete(c *gin.Context) {
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

// DeliveryTaskHandler serves outbound delivery task endpoints.
type DeliveryTaskHandler struct {
	*TaskHandler[*delivery.Task]
	service *delivery.Service
}

// NewDeliveryTaskHandler creates the delivery task handler.
func NewDeliveryTaskHandler(base *BaseHandler, service *delivery.Service, statusLogs domain.StatusLogRepository) *DeliveryTaskHandler {
	return &DeliveryTaskHandler{
		TaskHandler: NewTaskHandler(base, service.Service, statusflow.KindDelivery, statusLogs),
		service:     service,
	}
}

// RegisterRoutes registers delivery task routes on the group.
func (h *DeliveryTaskHandler) RegisterRoutes(rg *gin.RouterGroup) {
	h.registerCommon(rg)
	rg.POST("", h.Create)
	rg.POST("/:id/start", h.Start)
	rg.POST("/:id/ship", h.Ship)
	rg.POST("/:id/sign", h.Sign)
}

// Create handles POST /tasks/delivery. ParentID is the packing task the
// delivery follows.
func (h *DeliveryTaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if !h.BindJSON(c, &req) {
		return
	}

	warehouseID, packingID, err := req.ParseIDs()
	if err != nil {
		h.Error(c, err)
		return
	}
	dnID, err := req.ParseDNID()
	if err != nil {
		h.Error(c, err)
		return
	}

	task := delivery.New(warehouseID, dnID, packingID, req.CreatedBy)
	if err := req.FillBase(&task.Base); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), task); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, task.ID)
}

// Start handles POST /tasks/delivery/:id/start.
func (h *DeliveryTaskHandler) Start(c *gin.Context) {
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

// Ship handles POST /tasks/delivery/:id/ship.
func (h *DeliveryTaskHandler) Ship(c *gin.Context) {
	taskID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.ShipRequest
	if !h.BindJSON(c, &req) {
		return
	}

	task, err := h.service.Ship(c.Request.Context(), taskID, req.CarrierName, req.TrackingNumber, req.OperatorID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, task)
}

// Sign handles POST /tasks/delivery/:id/sign. The signature is the
// terminal state of the outbound chain.
func (h *DeliveryTaskHandler) Sign(c *gin.Context) {
	taskID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.SignRequest
	if !h.BindJSON(c, &req) {
		return
	}

	task, err := h.service.Sign(c.Request.Context(), taskID, req.SignedBy, req.OperatorID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, task)
}
