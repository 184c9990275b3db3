package tasks

import (
	"context"

	"stockyard/internal/core/id"
	"stockyard/internal/domain"
)

// Repository persists one fulfillment task type with its details and
// batches. T is the concrete task pointer type.
type Repository[T Task] interface {
	// Create stores the task with details and batches.
	Create(ctx context.Context, task T) error

	// GetByID loads the task with details and batches, or NotFound.
	GetByID(ctx context.Context, taskID id.ID) (T, error)

	// Update rewrites the task, replacing details and batches. Fails
	// with ConcurrentModification when the stored version differs.
	Update(ctx context.Context, task T) error

	// Delete soft-deletes the task.
	Delete(ctx context.Context, taskID id.ID) error

	List(ctx context.Context, filter domain.DocumentFilter) (domain.ListResult[T], error)

	// ListByParent returns tasks created against one parent document.
	ListByParent(ctx context.Context, parentID id.ID) ([]T, error)
}
