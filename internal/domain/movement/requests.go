// Package movement implements physical stock operations: putaway, removal
// and transfer. Every operation writes an immutable movement record and a
// matching ledger delta in one transaction.
package movement

import (
	"context"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
)

// PutawayRequest places quantity of a good onto a location.
type PutawayRequest struct {
	GoodsID    id.ID          `json:"goodsId"`
	LocationID id.ID          `json:"locationId"`
	Quantity   types.Quantity `json:"quantity"`
	OperatorID string         `json:"operatorId"`
	Remark     string         `json:"remark,omitempty"`
}

// Validate implements entity.Validatable.
func (r *PutawayRequest) Validate(ctx context.Context) error {
	if id.IsNil(r.GoodsID) {
		return apperror.NewValidation("goods is required").WithField("goodsId")
	}
	if id.IsNil(r.LocationID) {
		return apperror.NewValidation("location is required").WithField("locationId")
	}
	if !r.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithBusinessCode(apperror.BizQuantityNotPositive).
			WithField("quantity")
	}
	return nil
}

// RemovalRequest takes quantity of a good off a location. A reason is
// mandatory; removals are the audited loss/disposal path.
type RemovalRequest struct {
	GoodsID    id.ID          `json:"goodsId"`
	LocationID id.ID          `json:"locationId"`
	Quantity   types.Quantity `json:"quantity"`
	OperatorID string         `json:"operatorId"`
	Reason     string         `json:"reason"`
	Remark     string         `json:"remark,omitempty"`
}

// Validate implements entity.Validatable.
func (r *RemovalRequest) Validate(ctx context.Context) error {
	if id.IsNil(r.GoodsID) {
		return apperror.NewValidation("goods is required").WithField("goodsId")
	}
	if id.IsNil(r.LocationID) {
		return apperror.NewValidation("location is required").WithField("locationId")
	}
	if !r.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithBusinessCode(apperror.BizQuantityNotPositive).
			WithField("quantity")
	}
	if r.Reason == "" {
		return apperror.NewValidation("reason is required for removal").
			WithBusinessCode(apperror.BizReasonRequired).
			WithField("reason")
	}
	return nil
}

// TransferRequest moves quantity of a good between two locations.
type TransferRequest struct {
	GoodsID        id.ID          `json:"goodsId"`
	FromLocationID id.ID          `json:"fromLocationId"`
	ToLocationID   id.ID          `json:"toLocationId"`
	Quantity       types.Quantity `json:"quantity"`
	OperatorID     string         `json:"operatorId"`
	Remark         string         `json:"remark,omitempty"`
}

// Validate implements entity.Validatable.
func (r *TransferRequest) Validate(ctx context.Context) error {
	if id.IsNil(r.GoodsID) {
		return apperror.NewValidation("goods is required").WithField("goodsId")
	}
	if id.IsNil(r.FromLocationID) {
		return apperror.NewValidation("source location is required").WithField("fromLocationId")
	}
	if id.IsNil(r.ToLocationID) {
		return apperror.NewValidation("destination location is required").WithField("toLocationId")
	}
	if r.FromLocationID == r.ToLocationID {
		return apperror.NewValidation("source and destination locations must differ").
			WithBusinessCode(apperror.BizSameLocation).
			WithField("toLocationId")
	}
	if !r.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithBusinessCode(apperror.BizQuantityNotPositive).
			WithField("quantity")
	}
	return nil
}
