// Package adjustment implements the stock adjustment document, the only
// path besides physical movements that changes ledger quantities. An
// adjustment applies signed corrections after approval.
package adjustment

import (
	"context"
	"time"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
)

// Detail is one signed correction line.
type Detail struct {
	ID           id.ID `db:"id" json:"id"`
	AdjustmentID id.ID `db:"adjustment_id" json:"adjustmentId"`
	LineNo       int   `db:"line_no" json:"lineNo"`

	GoodsID    id.ID `db:"goods_id" json:"goodsId"`
	LocationID id.ID `db:"location_id" json:"locationId"`

	// SystemQuantity/ActualQuantity document the reasoning behind the
	// correction; AdjustmentQuantity is the signed delta actually applied
	SystemQuantity     types.Quantity `db:"system_quantity" json:"systemQuantity"`
	ActualQuantity     types.Quantity `db:"actual_quantity" json:"actualQuantity"`
	AdjustmentQuantity types.Quantity `db:"adjustment_quantity" json:"adjustmentQuantity"`

	Remark string `db:"remark" json:"remark,omitempty"`
}

func (d *Detail) validate() error {
	if id.IsNil(d.GoodsID) {
		return apperror.NewValidation("detail goods is required").WithField("details.goodsId")
	}
	if id.IsNil(d.LocationID) {
		return apperror.NewValidation("detail location is required").WithField("details.locationId")
	}
	if d.AdjustmentQuantity.IsZero() {
		return apperror.NewValidation("adjustment quantity must be non-zero").
			WithBusinessCode(apperror.BizQuantityNotPositive).
			WithField("details.adjustmentQuantity")
	}
	return nil
}

// Document is the stock adjustment.
type Document struct {
	entity.Document

	// CycleCountID links back to the source count, when derived
	CycleCountID *id.ID `db:"cycle_count_id" json:"cycleCountId,omitempty"`

	Reason string `db:"reason" json:"reason"`

	ApprovedBy string     `db:"approved_by" json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `db:"approved_at" json:"approvedAt,omitempty"`

	Details []Detail `db:"-" json:"details"`
}

// New creates a pending adjustment.
func New(warehouseID id.ID, reason, createdBy string) *Document {
	return &Document{
		Document: entity.NewDocument(warehouseID, createdBy),
		Reason:   reason,
	}
}

// Validate implements entity.Validatable.
func (a *Document) Validate(ctx context.Context) error {
	if err := a.Document.Validate(ctx); err != nil {
		return err
	}
	if a.Reason == "" {
		return apperror.NewValidation("reason is required").
			WithBusinessCode(apperror.BizReasonRequired).
			WithField("reason")
	}
	for i := range a.Details {
		if err := a.Details[i].validate(); err != nil {
			return err
		}
	}
	return nil
}

// AddDetail appends a correction line; allowed only while pending.
func (a *Document) AddDetail(goodsID, locationID id.ID, system, actual, delta types.Quantity, remark string) (*Detail, error) {
	if err := a.CanModify(); err != nil {
		return nil, err
	}
	detail := Detail{
		ID:                 id.New(),
		AdjustmentID:       a.ID,
		LineNo:             len(a.Details) + 1,
		GoodsID:            goodsID,
		LocationID:         locationID,
		SystemQuantity:     system,
		ActualQuantity:     actual,
		AdjustmentQuantity: delta,
		Remark:             remark,
	}
	if err := detail.validate(); err != nil {
		return nil, err
	}
	a.Details = append(a.Details, detail)
	return &a.Details[len(a.Details)-1], nil
}

// RemoveDetail drops a correction line; allowed only while pending.
func (a *Document) RemoveDetail(detailID id.ID) error {
	if err := a.CanModify(); err != nil {
		return err
	}
	for i := range a.Details {
		if a.Details[i].ID == detailID {
			a.Details = append(a.Details[:i], a.Details[i+1:]...)
			for j := range a.Details {
				a.Details[j].LineNo = j + 1
			}
			return nil
		}
	}
	return apperror.NewNotFound("adjustment detail", detailID.String())
}
