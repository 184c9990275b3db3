// Package domain provides shared business logic contracts and types.
package domain

import (
	"context"
	"encoding/json"
	"time"

	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/statusflow"
)

// --- Filter & pagination ---

// ListFilter contains common filtering options for list operations.
// Limit/Offset exist so repositories always issue bounded queries.
type ListFilter struct {
	// Search matches number or code fields, depending on the repo
	Search string

	// IDs filters by specific IDs
	IDs []id.ID

	// IncludeInactive includes soft-deleted records
	IncludeInactive bool

	// OrderBy specifies sorting (e.g., "number", "-created_at")
	OrderBy string

	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	// OrderBy stays empty so each repository applies its own default
	// ordering (name for catalogs, newest first for documents).
	return ListFilter{
		Limit: 50,
	}
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// DocumentFilter narrows document list queries.
type DocumentFilter struct {
	ListFilter

	Status      *statusflow.State
	WarehouseID *id.ID

	// CreatedFrom/CreatedTo bound created_at (inclusive from, exclusive to)
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// --- Repository contracts ---

// CatalogRepository defines CRUD operations for catalog entities.
type CatalogRepository[T entity.Validatable] interface {
	Create(ctx context.Context, entity T) error
	GetByID(ctx context.Context, id id.ID) (T, error)
	GetByCode(ctx context.Context, code string) (T, error)
	Update(ctx context.Context, entity T) error

	// Delete performs a soft delete (sets is_active=false)
	Delete(ctx context.Context, id id.ID) error

	List(ctx context.Context, filter ListFilter) (ListResult[T], error)
	Exists(ctx context.Context, id id.ID) (bool, error)
}

// ExistenceChecker verifies that a referenced entity exists and is active.
// Satisfied by the catalog services.
type ExistenceChecker interface {
	Exists(ctx context.Context, entityID id.ID) (bool, error)
}

// StatusLogRepository appends status transition audit rows.
// Rows are append-only; there is no update or delete.
type StatusLogRepository interface {
	Append(ctx context.Context, row entity.StatusLog) error
	ListByDocument(ctx context.Context, documentID id.ID) ([]entity.StatusLog, error)
}

// --- Change audit ---

// ChangeAction names the audited operation.
type ChangeAction string

const (
	ChangeActionCreate     ChangeAction = "create"
	ChangeActionUpdate     ChangeAction = "update"
	ChangeActionDelete     ChangeAction = "delete"
	ChangeActionTransition ChangeAction = "transition"
)

// ChangeLog records document change snapshots for audit. The postgres
// implementation compresses large payloads; callers just hand over the
// entity state after the change.
type ChangeLog interface {
	Record(ctx context.Context, entityType string, entityID id.ID, action ChangeAction, operatorID string, snapshot json.RawMessage) error
}
