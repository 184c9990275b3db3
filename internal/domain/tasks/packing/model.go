// Package packing implements the packing task: boxing picked goods for an
// outbound DN. Packing can only start once the picking stage completed.
package packing

import (
	"context"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/domain/tasks"
)

// Task is a packing task parented by a DN and chained to a picking task.
type Task struct {
	tasks.Base

	DNID      id.ID `db:"dn_id" json:"dnId"`
	PickingID id.ID `db:"picking_id" json:"pickingId"`
}

// New creates a pending packing task.
func New(warehouseID, dnID, pickingID id.ID, createdBy string) *Task {
	return &Task{
		Base:      tasks.NewBase(warehouseID, createdBy),
		DNID:      dnID,
		PickingID: pickingID,
	}
}

// TaskBase implements tasks.Task.
func (t *Task) TaskBase() *tasks.Base {
	return &t.Base
}

// Validate implements entity.Validatable.
func (t *Task) Validate(ctx context.Context) error {
	if err := t.Base.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(t.DNID) {
		return apperror.NewValidation("dn is required").WithField("dnId")
	}
	if id.IsNil(t.PickingID) {
		return apperror.NewValidation("picking task is required").WithField("pickingId")
	}
	return nil
}
