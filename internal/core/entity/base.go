package entity

import (
	"context"
	"time"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/core/statusflow"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// BaseEntity contains common fields for all entities (catalogs and documents).
type BaseEntity struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// IsActive is the soft-delete flag; inactive rows are hidden from lists
	IsActive bool `db:"is_active" json:"isActive"`

	// Version for optimistic locking (incremented on each update)
	Version int `db:"version" json:"version"`
}

// NewBaseEntity creates a new BaseEntity with generated ID.
func NewBaseEntity() BaseEntity {
	return BaseEntity{
		ID:       id.New(),
		IsActive: true,
		Version:  1,
	}
}

// Touch increments version (for optimistic locking).
func (b *BaseEntity) Touch() {
	b.Version++
}

// Deactivate sets the soft-delete flag.
func (b *BaseEntity) Deactivate() {
	b.IsActive = false
}

// Catalog is the base type for reference data: goods, locations, warehouses.
type Catalog struct {
	BaseEntity

	// Code is a human-readable identifier, unique per catalog
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog(code, name string) Catalog {
	return Catalog{
		BaseEntity: NewBaseEntity(),
		Code:       code,
		Name:       name,
	}
}

// Validate implements Validatable.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").WithField("name")
	}
	return nil
}

// Document is the base type for tasks and business documents: ASN, DN,
// sorting/picking/packing/delivery tasks, cycle counts and adjustments.
// Every document runs one statusflow machine; transitions go through Apply.
type Document struct {
	BaseEntity

	// Number is the document number (auto-generated, unique within type+year)
	Number string `db:"number" json:"number"`

	// WarehouseID scopes the document to one warehouse
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// Status is the current machine state
	Status statusflow.State `db:"status" json:"status"`

	// Audit fields
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// Transition timestamps, set by Apply as the matching state is reached
	StartedAt   *time.Time `db:"started_at" json:"startedAt,omitempty"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt,omitempty"`
}

// NewDocument creates a new Document in the pending state.
func NewDocument(warehouseID id.ID, createdBy string) Document {
	now := time.Now().UTC()
	return Document{
		BaseEntity:  NewBaseEntity(),
		WarehouseID: warehouseID,
		Status:      statusflow.StatePending,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate implements Validatable.
func (d *Document) Validate(ctx context.Context) error {
	if id.IsNil(d.WarehouseID) {
		return apperror.NewValidation("warehouse is required").WithField("warehouseId")
	}
	return nil
}

// Touch updates the UpdatedAt timestamp and increments version.
func (d *Document) Touch() {
	d.UpdatedAt = time.Now().UTC()
	d.BaseEntity.Touch()
}

// CanModify reports whether document fields may still change.
// Only pending documents are editable; later states lock the payload.
func (d *Document) CanModify() error {
	if d.Status == statusflow.StatePending {
		return nil
	}
	if statusflow.IsTerminal(d.Status) {
		return apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"document is in a terminal state and cannot be modified",
		).WithBusinessCode(apperror.BizDocumentImmutable).
			WithDetail("document_id", d.ID.String()).
			WithDetail("status", string(d.Status))
	}
	return apperror.NewBusinessRule(
		apperror.CodeBusinessRule,
		"only pending documents can be modified",
	).WithBusinessCode(apperror.BizNotPending).
		WithDetail("document_id", d.ID.String()).
		WithDetail("status", string(d.Status))
}

// Apply executes a statusflow transition, stamping the matching timestamp.
// Returns the StatusLog row to persist; the caller appends it in the same
// transaction as the document update.
func (d *Document) Apply(kind statusflow.Kind, action statusflow.Action, operatorID string) (StatusLog, error) {
	next, err := statusflow.Next(kind, d.Status, action)
	if err != nil {
		return StatusLog{}, err
	}

	logRow := NewStatusLog(kind, d.ID, d.Status, next, operatorID)

	now := time.Now().UTC()
	switch next {
	case statusflow.StateInProgress, statusflow.StateProgress, statusflow.StateReceived:
		d.StartedAt = &now
	case statusflow.StateCompleted, statusflow.StateClosed, statusflow.StateSigned:
		d.CompletedAt = &now
	}

	d.Status = next
	d.Touch()

	return logRow, nil
}
