package dto

import (
	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
	"stockyard/internal/domain/recon/adjustment"
	"stockyard/internal/domain/recon/cyclecount"
)

// --- Cycle count ---

// CountPairRequest is one (goods, location) pair to count.
type CountPairRequest struct {
	GoodsID    string `json:"goodsId" binding:"required,uuid"`
	LocationID string `json:"locationId" binding:"required,uuid"`
}

// CreateCycleCountRequest is the request body for creating a cycle
// count with explicit pairs.
type CreateCycleCountRequest struct {
	WarehouseID string             `json:"warehouseId" binding:"required,uuid"`
	CreatedBy   string             `json:"createdBy" binding:"required"`
	Remark      string             `json:"remark"`
	Details     []CountPairRequest `json:"details"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateCycleCountRequest) ToEntity() (*cyclecount.Task, error) {
	warehouseID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return nil, apperror.NewValidation("invalid warehouseId").WithField("warehouseId")
	}

	task := cyclecount.New(warehouseID, r.CreatedBy)
	task.Remark = r.Remark

	for _, pair := range r.Details {
		goodsID, locationID, err := parsePair(pair.GoodsID, pair.LocationID)
		if err != nil {
			return nil, err
		}
		if _, err := task.AddDetail(goodsID, locationID); err != nil {
			return nil, err
		}
	}
	return task, nil
}

// CreateFromGoodsRequest derives a cycle count from a goods list: every
// location currently holding one of the goods becomes a count line.
type CreateFromGoodsRequest struct {
	WarehouseID string   `json:"warehouseId" binding:"required,uuid"`
	GoodsIDs    []string `json:"goodsIds" binding:"required"`
	CreatedBy   string   `json:"createdBy" binding:"required"`
}

// ParseIDs returns the parsed warehouse and goods IDs.
func (r *CreateFromGoodsRequest) ParseIDs() (id.ID, []id.ID, error) {
	warehouseID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return id.Nil(), nil, apperror.NewValidation("invalid warehouseId").WithField("warehouseId")
	}

	goodsIDs := make([]id.ID, 0, len(r.GoodsIDs))
	for _, raw := range r.GoodsIDs {
		goodsID, err := id.Parse(raw)
		if err != nil {
			return id.Nil(), nil, apperror.NewValidation("invalid goodsId").WithField("goodsIds")
		}
		goodsIDs = append(goodsIDs, goodsID)
	}
	return warehouseID, goodsIDs, nil
}

// RecordCountRequest records the counted quantity on one detail line.
type RecordCountRequest struct {
	ActualQuantity int64  `json:"actualQuantity"`
	OperatorID     string `json:"operatorId" binding:"required"`
}

// --- Adjustment ---

// AdjustmentDetailRequest is one correction line.
type AdjustmentDetailRequest struct {
	GoodsID            string `json:"goodsId" binding:"required,uuid"`
	LocationID         string `json:"locationId" binding:"required,uuid"`
	SystemQuantity     int64  `json:"systemQuantity"`
	ActualQuantity     int64  `json:"actualQuantity"`
	AdjustmentQuantity int64  `json:"adjustmentQuantity" binding:"required"`
	Remark             string `json:"remark"`
}

// CreateAdjustmentRequest is the request body for a manual adjustment.
type CreateAdjustmentRequest struct {
	WarehouseID string                    `json:"warehouseId" binding:"required,uuid"`
	Reason      string                    `json:"reason" binding:"required"`
	CreatedBy   string                    `json:"createdBy" binding:"required"`
	Details     []AdjustmentDetailRequest `json:"details"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateAdjustmentRequest) ToEntity() (*adjustment.Document, error) {
	warehouseID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return nil, apperror.NewValidation("invalid warehouseId").WithField("warehouseId")
	}

	doc := adjustment.New(warehouseID, r.Reason, r.CreatedBy)

	for _, line := range r.Details {
		goodsID, locationID, err := parsePair(line.GoodsID, line.LocationID)
		if err != nil {
			return nil, err
		}
		_, err = doc.AddDetail(
			goodsID, locationID,
			types.Quantity(line.SystemQuantity),
			types.Quantity(line.ActualQuantity),
			types.Quantity(line.AdjustmentQuantity),
			line.Remark,
		)
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// CreateFromCycleCountRequest derives an adjustment from a completed
// cycle count's discrepancies.
type CreateFromCycleCountRequest struct {
	CycleCountID string `json:"cycleCountId" binding:"required,uuid"`
	Reason       string `json:"reason" binding:"required"`
	CreatedBy    string `json:"createdBy" binding:"required"`
}

// ApproveRequest approves a pending adjustment.
type ApproveRequest struct {
	ApproverID string `json:"approverId" binding:"required"`
}
