package handlers

import (
	"github.com/gin-gonic/gin"

	"stockyard/internal/core/statusflow"
	"stockyard/internal/core/types"
	"stockyard/internal/domain"
	"stockyard/internal/domain/tasks"
	"stockyard/internal/infrastructure/http/v1/dto"
)

// TaskHandler serves the endpoints every fulfillment task type shares.
// Type-specific handlers embed it and add their own create and
// transition routes.
type TaskHandler[T tasks.Task] struct {
	*BaseHandler
	svc        *tasks.Service[T]
	kind       statusflow.Kind
	statusLogs domain.StatusLogRepository
}

// NewTaskHandler creates the shared task handler for one task type.
func NewTaskHandler[T tasks.Task](base *BaseHandler, svc *tasks.Service[T], kind statusflow.Kind, statusLogs domain.StatusLogRepository) *TaskHandler[T] {
	return &TaskHandler[T]{BaseHandler: base, svc: svc, kind: kind, statusLogs: statusLogs}
}

func (h *TaskHandler[T]) registerCommon(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/status-log", h.StatusLog)
	rg.GET("/by-parent/:parentId", h.ListByParent)
	rg.POST("/:id/details", h.AddDetail)
	rg.DELETE("/:id/details/:detailId", h.RemoveDetail)
	rg.POST("/:id/details/:detailId/actual", h.RecordActual)
	rg.POST("/:id/details/:detailId/batch", h.AssignToBatch)
	rg.POST("/:id/batches", h.CreateBatch)
}

// List handles GET on the task collection.
func (h *TaskHandler[T]) List(c *gin.Context) {
	var query dto.DocumentListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.ToFilter(h.kind)
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, result)
}

// GetByID handles GET /:id.
func (h *TaskHandler[T]) GetByID(c *gin.Context) {
	taskID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.svc.GetByID(c.Request.Context(), taskID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, task)
}

// Delete handles DELETE /:id.
func (h *TaskHandler[T]) Delete(c *gin.Context) {
	taskID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), taskID, h.operatorQuery(c)); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// StatusLog handles GET /:id/status-log.
func (h *TaskHandler[T]) StatusLog(c *gin.Context) {
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

// ListByParent handles GET /by-parent/:parentId.
func (h *TaskHandler[T]) ListByParent(c *gin.Context) {
	parentID, ok := h.ParseIDParam(c, "parentId")
	if !ok {
		return
	}

	items, err := h.svc.ListByParent(c.Request.Context(), parentID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, items)
}

// AddDetail handles POST /:id/details on a pending task.
func (h *TaskHandler[T]) AddDetail(c *gin.Context) {
	taskID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AddTaskDetailRequest
	if !h.BindJSON(c, &req) {
		return
	}

	goodsID, locationID, err := req.ParsePair()
	if err != nil {
		h.Error(c, err)
		return
	}

	task, err := h.svc.AddDetail(c.Request.Context(), taskID, goodsID, locationID, types.Quantity(req.Quantity), req.Remark, req.OperatorID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, task)
}

// RemoveDetail handles DELETE /:id/details/:detailId.
func (h *TaskHandler[T]) RemoveDetail(c *gin.Context) {
	taskID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	detailID, ok := h.ParseIDParam(c, "detailId")
	if !ok {
		return
	}

	task, err := h.svc.RemoveDetail(c.Request.Context(), taskID, detailID, h.operatorQuery(c))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, task)
}

// RecordActual handles POST /:id/details/:detailId/actual.
func (h *TaskHandler[T]) RecordActual(c *gin.Context) {
	taskID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	detailID, ok := h.ParseIDParam(c, "detailId")
	if !ok {
		return
	}

	var req dto.RecordActualRequest
	if !h.BindJSON(c, &req) {
		return
	}

	task, err := h.svc.RecordActual(c.Request.Context(), taskID, detailID, types.Quantity(req.ActualQuantity), req.OperatorID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, task)
}

// AssignToBatch handles POST /:id/details/:detailId/batch.
func (h *TaskHandler[T]) AssignToBatch(c *gin.Context) {
	taskID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	detailID, ok := h.ParseIDParam(c, "detailId")
	if !ok {
		return
	}

	var req dto.AssignBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	batchID, err := req.ParseBatchID()
	if err != nil {
		h.Error(c, err)
		return
	}

	task, err := h.svc.AssignToBatch(c.Request.Context(), taskID, detailID, batchID, req.OperatorID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, task)
}

// CreateBatch handles POST /:id/batches. It opens a new operator batch
// on an in-progress task.
func (h *TaskHandler[T]) CreateBatch(c *gin.Context) {
	taskID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.OperatorRequest
	if !h.BindJSON(c, &req) {
		return
	}

	task, batch, err := h.svc.CreateBatch(c.Request.Context(), taskID, req.OperatorID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, gin.H{"task": task, "batch": batch})
}
