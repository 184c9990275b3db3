package dn

import (
	"context"

	"stockyard/internal/core/id"
	"stockyard/internal/domain"
)

// Repository persists DN documents with their details.
type Repository interface {
	Create(ctx context.Context, doc *DN) error

	// GetByID loads the document with details, or a NotFound error.
	GetByID(ctx context.Context, docID id.ID) (*DN, error)

	// Update rewrites the document and replaces its details. Fails with
	// ConcurrentModification when the stored version differs.
	Update(ctx context.Context, doc *DN) error

	// Delete soft-deletes the document.
	Delete(ctx context.Context, docID id.ID) error

	List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[*DN], error)
}
