package goods

import (
	"stockyard/internal/domain"
)

// Repository defines the interface for Goods persistence.
type Repository interface {
	domain.CatalogRepository[*Goods]
}
