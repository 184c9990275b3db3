// Package delivery implements the delivery task: handing packed goods to
// the carrier and collecting the recipient signature. Its machine differs
// from the other tasks: in_progress -> shipping -> signed.
package delivery

import (
	"context"
	"time"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/domain/tasks"
)

// Task is a delivery task parented by a DN and chained to a packing task.
type Task struct {
	tasks.Base

	DNID      id.ID `db:"dn_id" json:"dnId"`
	PackingID id.ID `db:"packing_id" json:"packingId"`

	CarrierName    string `db:"carrier_name" json:"carrierName,omitempty"`
	TrackingNumber string `db:"tracking_number" json:"trackingNumber,omitempty"`

	// ShippedAt is stamped by Ship, SignedAt/SignedBy by Sign
	ShippedAt *time.Time `db:"shipped_at" json:"shippedAt,omitempty"`
	SignedAt  *time.Time `db:"signed_at" json:"signedAt,omitempty"`
	SignedBy  string     `db:"signed_by" json:"signedBy,omitempty"`
}

// New creates a pending delivery task.
func New(warehouseID, dnID, packingID id.ID, createdBy string) *Task {
	return &Task{
		Base:      tasks.NewBase(warehouseID, createdBy),
		DNID:      dnID,
		PackingID: packingID,
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
	if id.IsNil(t.PackingID) {
		return apperror.NewValidation("packing task is required").WithField("packingId")
	}
	return nil
}
