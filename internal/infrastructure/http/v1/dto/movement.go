package dto

import (
	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
	"stockyard/internal/domain/movement"
)

// PutawayRequest is the request body for a single putaway.
type PutawayRequest struct {
	GoodsID    string `json:"goodsId" binding:"required,uuid"`
	LocationID string `json:"locationId" binding:"required,uuid"`
	Quantity   int64  `json:"quantity" binding:"required"`
	OperatorID string `json:"operatorId" binding:"required"`
	Remark     string `json:"remark"`
}

// ToDomain converts the request to the domain form.
func (r *PutawayRequest) ToDomain() (movement.PutawayRequest, error) {
	goodsID, locationID, err := parsePair(r.GoodsID, r.LocationID)
	if err != nil {
		return movement.PutawayRequest{}, err
	}
	return movement.PutawayRequest{
		GoodsID:    goodsID,
		LocationID: locationID,
		Quantity:   types.Quantity(r.Quantity),
		OperatorID: r.OperatorID,
		Remark:     r.Remark,
	}, nil
}

// RemovalRequest is the request body for a single removal.
type RemovalRequest struct {
	GoodsID    string `json:"goodsId" binding:"required,uuid"`
	LocationID string `json:"locationId" binding:"required,uuid"`
	Quantity   int64  `json:"quantity" binding:"required"`
	OperatorID string `json:"operatorId" binding:"required"`
	Reason     string `json:"reason"`
	Remark     string `json:"remark"`
}

// ToDomain converts the request to the domain form.
func (r *RemovalRequest) ToDomain() (movement.RemovalRequest, error) {
	goodsID, locationID, err := parsePair(r.GoodsID, r.LocationID)
	if err != nil {
		return movement.RemovalRequest{}, err
	}
	return movement.RemovalRequest{
		GoodsID:    goodsID,
		LocationID: locationID,
		Quantity:   types.Quantity(r.Quantity),
		OperatorID: r.OperatorID,
		Reason:     r.Reason,
		Remark:     r.Remark,
	}, nil
}

// TransferRequest is the request body for a single transfer.
type TransferRequest struct {
	GoodsID        string `json:"goodsId" binding:"required,uuid"`
	FromLocationID string `json:"fromLocationId" binding:"required,uuid"`
	ToLocationID   string `json:"toLocationId" binding:"required,uuid"`
	Quantity       int64  `json:"quantity" binding:"required"`
	OperatorID     string `json:"operatorId" binding:"required"`
	Remark         string `json:"remark"`
}

// ToDomain converts the request to the domain form.
func (r *TransferRequest) ToDomain() (movement.TransferRequest, error) {
	goodsID, err := id.Parse(r.GoodsID)
	if err != nil {
		return movement.TransferRequest{}, apperror.NewValidation("invalid goodsId").WithField("goodsId")
	}
	fromID, err := id.Parse(r.FromLocationID)
	if err != nil {
		return movement.TransferRequest{}, apperror.NewValidation("invalid fromLocationId").WithField("fromLocationId")
	}
	toID, err := id.Parse(r.ToLocationID)
	if err != nil {
		return movement.TransferRequest{}, apperror.NewValidation("invalid toLocationId").WithField("toLocationId")
	}
	return movement.TransferRequest{
		GoodsID:        goodsID,
		FromLocationID: fromID,
		ToLocationID:   toID,
		Quantity:       types.Quantity(r.Quantity),
		OperatorID:     r.OperatorID,
		Remark:         r.Remark,
	}, nil
}

// BulkPutawayRequest is the request body for a bulk putaway.
type BulkPutawayRequest struct {
	Items []PutawayRequest `json:"items" binding:"required"`
}

// BulkRemovalRequest is the request body for a bulk removal.
type BulkRemovalRequest struct {
	Items []RemovalRequest `json:"items" binding:"required"`
}

// BulkTransferRequest is the request body for a bulk transfer.
type BulkTransferRequest struct {
	Items []TransferRequest `json:"items" binding:"required"`
}

func parsePair(goodsRaw, locationRaw string) (id.ID, id.ID, error) {
	goodsID, err := id.Parse(goodsRaw)
	if err != nil {
		return id.Nil(), id.Nil(), apperror.NewValidation("invalid goodsId").WithField("goodsId")
	}
	locationID, err := id.Parse(locationRaw)
	if err != nil {
		return id.Nil(), id.Nil(), apperror.NewValidation("invalid locationId").WithField("locationId")
	}
	return goodsID, locationID, nil
}
