package location

import (
	"context"

	"stockyard/internal/core/id"
	"stockyard/internal/domain"
)

// Repository defines the interface for Location persistence.
type Repository interface {
	domain.CatalogRepository[*Location]

	// ListByWarehouse returns all active locations of one warehouse.
	ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]*Location, error)
}
