// Package picking implements the picking task: collecting ordered goods
// from storage locations for an outbound DN.
package picking

import (
	"context"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/domain/tasks"
)

// Task is a picking task parented by a DN.
type Task struct {
	tasks.Base

	DNID id.ID `db:"dn_id" json:"dnId"`
}

// New creates a pending picking task.
func New(warehouseID, dnID id.ID, createdBy string) *Task {
	return &Task{
		Base: tasks.NewBase(warehouseID, createdBy),
		DNID: dnID,
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
	return nil
}
