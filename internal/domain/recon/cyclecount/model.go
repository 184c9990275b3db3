// Package cyclecount implements the cycle count task: comparing counted
// quantities against the ledger. Counting never mutates stock; corrections
// go through a derived adjustment.
package cyclecount

import (
	"context"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/statusflow"
	"stockyard/internal/core/types"
)

// Detail is one counted (goods, location) pair.
type Detail struct {
	ID     id.ID `db:"id" json:"id"`
	TaskID id.ID `db:"task_id" json:"taskId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	GoodsID    id.ID `db:"goods_id" json:"goodsId"`
	LocationID id.ID `db:"location_id" json:"locationId"`

	// SystemQuantity is the ledger quantity snapshotted when counting
	// starts; zero and meaningless while the task is pending.
	SystemQuantity types.Quantity `db:"system_quantity" json:"systemQuantity"`

	// ActualQuantity is what the operator counted
	ActualQuantity types.Quantity `db:"actual_quantity" json:"actualQuantity"`

	// Difference is actual minus system, kept current on every edit
	Difference types.Quantity `db:"difference" json:"difference"`
}

// Task is a cycle count task.
type Task struct {
	entity.Document

	Remark string `db:"remark" json:"remark,omitempty"`

	Details []Detail `db:"-" json:"details"`
}

// New creates a pending cycle count task.
func New(warehouseID id.ID, createdBy string) *Task {
	return &Task{Document: entity.NewDocument(warehouseID, createdBy)}
}

// Validate implements entity.Validatable.
func (t *Task) Validate(ctx context.Context) error {
	if err := t.Document.Validate(ctx); err != nil {
		return err
	}
	for i := range t.Details {
		d := &t.Details[i]
		if id.IsNil(d.GoodsID) {
			return apperror.NewValidation("detail goods is required").WithField("details.goodsId")
		}
		if id.IsNil(d.LocationID) {
			return apperror.NewValidation("detail location is required").WithField("details.locationId")
		}
	}
	return nil
}

// AddDetail registers a (goods, location) pair to count; allowed only
// while pending. System quantity stays unset until counting starts.
func (t *Task) AddDetail(goodsID, locationID id.ID) (*Detail, error) {
	if err := t.CanModify(); err != nil {
		return nil, err
	}
	if id.IsNil(goodsID) {
		return nil, apperror.NewValidation("detail goods is required").WithField("details.goodsId")
	}
	if id.IsNil(locationID) {
		return nil, apperror.NewValidation("detail location is required").WithField("details.locationId")
	}
	detail := Detail{
		ID:         id.New(),
		TaskID:     t.ID,
		LineNo:     len(t.Details) + 1,
		GoodsID:    goodsID,
		LocationID: locationID,
	}
	t.Details = append(t.Details, detail)
	return &t.Details[len(t.Details)-1], nil
}

// RemoveDetail drops a pair; allowed only while pending.
func (t *Task) RemoveDetail(detailID id.ID) error {
	if err := t.CanModify(); err != nil {
		return err
	}
	for i := range t.Details {
		if t.Details[i].ID == detailID {
			t.Details = append(t.Details[:i], t.Details[i+1:]...)
			for j := range t.Details {
				t.Details[j].LineNo = j + 1
			}
			return nil
		}
	}
	return apperror.NewNotFound("cycle count detail", detailID.String())
}

// SetActual records a counted quantity and recomputes the difference;
// allowed only while counting is in progress.
func (t *Task) SetActual(detailID id.ID, actual types.Quantity) error {
	if t.Status != statusflow.StateInProgress {
		return apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"counts can only be recorded while the task is in progress",
		).WithBusinessCode(apperror.BizNotInProgress).
			WithDetail("task_id", t.ID.String()).
			WithDetail("status", string(t.Status))
	}
	if actual.IsNegative() {
		return apperror.NewValidation("counted quantity cannot be negative").
			WithBusinessCode(apperror.BizQuantityNotPositive).
			WithField("actualQuantity")
	}
	for i := range t.Details {
		if t.Details[i].ID == detailID {
			t.Details[i].ActualQuantity = actual
			t.Details[i].Difference = actual - t.Details[i].SystemQuantity
			return nil
		}
	}
	return apperror.NewNotFound("cycle count detail", detailID.String())
}
