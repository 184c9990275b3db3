package dto

import (
	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
	"stockyard/internal/domain/tasks"
)

// TaskDetailRequest is one planned work line of a fulfillment task.
type TaskDetailRequest struct {
	GoodsID    string `json:"goodsId" binding:"required,uuid"`
	LocationID string `json:"locationId" binding:"required,uuid"`
	Quantity   int64  `json:"quantity" binding:"required"`
	Remark     string `json:"remark"`
}

// CreateTaskRequest is the shared request body for creating a
// fulfillment task. ParentID references the document or stage the task
// follows: the ASN for sorting, the DN for picking, the picking task
// for packing, the packing task for delivery.
type CreateTaskRequest struct {
	WarehouseID string              `json:"warehouseId" binding:"required,uuid"`
	ParentID    string              `json:"parentId" binding:"required,uuid"`
	CreatedBy   string              `json:"createdBy" binding:"required"`
	Remark      string              `json:"remark"`
	Details     []TaskDetailRequest `json:"details"`

	// DNID is required for packing and delivery tasks, whose ParentID
	// references the preceding stage rather than the DN itself.
	DNID string `json:"dnId" binding:"omitempty,uuid"`
}

// ParseDNID returns the parsed DN reference for chained task types.
func (r *CreateTaskRequest) ParseDNID() (id.ID, error) {
	if r.DNID == "" {
		return id.Nil(), apperror.NewValidation("dnId is required").WithField("dnId")
	}
	dnID, err := id.Parse(r.DNID)
	if err != nil {
		return id.Nil(), apperror.NewValidation("invalid dnId").WithField("dnId")
	}
	return dnID, nil
}

// ParseIDs returns the parsed warehouse and parent IDs.
func (r *CreateTaskRequest) ParseIDs() (warehouseID, parentID id.ID, err error) {
	warehouseID, err = id.Parse(r.WarehouseID)
	if err != nil {
		return id.Nil(), id.Nil(), apperror.NewValidation("invalid warehouseId").WithField("warehouseId")
	}
	parentID, err = id.Parse(r.ParentID)
	if err != nil {
		return id.Nil(), id.Nil(), apperror.NewValidation("invalid parentId").WithField("parentId")
	}
	return warehouseID, parentID, nil
}

// FillBase populates the task base from the request. The caller has
// already created the base via the task type's constructor.
func (r *CreateTaskRequest) FillBase(base *tasks.Base) error {
	base.Remark = r.Remark
	for _, line := range r.Details {
		goodsID, err := id.Parse(line.GoodsID)
		if err != nil {
			return apperror.NewValidation("invalid detail goodsId").WithField("details.goodsId")
		}
		locationID, err := id.Parse(line.LocationID)
		if err != nil {
			return apperror.NewValidation("invalid detail locationId").WithField("details.locationId")
		}
		if _, err := base.AddDetail(goodsID, locationID, types.Quantity(line.Quantity), line.Remark); err != nil {
			return err
		}
	}
	return nil
}

// ParsePair returns the parsed goods and location references.
func (r *TaskDetailRequest) ParsePair() (goodsID, locationID id.ID, err error) {
	goodsID, err = id.Parse(r.GoodsID)
	if err != nil {
		return id.Nil(), id.Nil(), apperror.NewValidation("invalid goodsId").WithField("goodsId")
	}
	locationID, err = id.Parse(r.LocationID)
	if err != nil {
		return id.Nil(), id.Nil(), apperror.NewValidation("invalid locationId").WithField("locationId")
	}
	return goodsID, locationID, nil
}

// RecordActualRequest records the handled quantity on one detail line.
type RecordActualRequest struct {
	ActualQuantity int64  `json:"actualQuantity"`
	OperatorID     string `json:"operatorId" binding:"required"`
}

// AddTaskDetailRequest appends a planned line to a pending task.
type AddTaskDetailRequest struct {
	TaskDetailRequest
	OperatorID string `json:"operatorId" binding:"required"`
}

// AssignBatchRequest assigns a detail line to an operator batch.
type AssignBatchRequest struct {
	BatchID    string `json:"batchId" binding:"required,uuid"`
	OperatorID string `json:"operatorId" binding:"required"`
}

// ParseBatchID returns the parsed batch reference.
func (r *AssignBatchRequest) ParseBatchID() (id.ID, error) {
	batchID, err := id.Parse(r.BatchID)
	if err != nil {
		return id.Nil(), apperror.NewValidation("invalid batchId").WithField("batchId")
	}
	return batchID, nil
}

// ShipRequest marks a delivery task as shipped.
type ShipRequest struct {
	CarrierName    string `json:"carrierName" binding:"required"`
	TrackingNumber string `json:"trackingNumber"`
	OperatorID     string `json:"operatorId" binding:"required"`
}

// SignRequest records the customer signature on a shipped delivery.
type SignRequest struct {
	SignedBy   string `json:"signedBy" binding:"required"`
	OperatorID string `json:"operatorId" binding:"required"`
}
