// Package sorting implements the sorting task: distributing goods received
// under an ASN onto their storage locations.
package sorting

import (
	"context"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/domain/tasks"
)

// Task is a sorting task parented by an ASN.
type Task struct {
	tasks.Base

	ASNID id.ID `db:"asn_id" json:"asnId"`
}

// New creates a pending sorting task.
func New(warehouseID, asnID id.ID, createdBy string) *Task {
	return &Task{
		Base:  tasks.NewBase(warehouseID, createdBy),
		ASNID: asnID,
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
	if id.IsNil(t.ASNID) {
		return apperror.NewValidation("asn is required").WithField("asnId")
	}
	return nil
}
