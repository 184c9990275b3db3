package asn

import (
	"context"

	"stockyard/internal/core/id"
	"stockyard/internal/domain"
)

// Repository persists ASN documents with their details.
type Repository interface {
	// Create stores the document and all its details.
	Create(ctx context.Context, doc *ASN) error

	// GetByID loads the document with details, or a NotFound error.
	GetByID(ctx context.Context, docID id.ID) (*ASN, error)

	// Update rewrites the document and replaces its details. Fails with
	// ConcurrentModification when the stored version differs.
	Update(ctx context.Context, doc *ASN) error

	// Delete soft-deletes the document.
	Delete(ctx context.Context, docID id.ID) error

	List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[*ASN], error)
}
