// Package location provides the storage location catalog. A location is
// one addressable slot (bin, shelf, staging area) inside a warehouse.
package location

import (
	"context"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
)

// Type classifies what kind of stock a location holds. Inventory reporting
// aggregates quantities per type.
type Type string

const (
	TypeStandard Type = "standard"
	TypeDamaged  Type = "damaged"
	TypeReturn   Type = "return"
)

// Location represents one storage slot inside a warehouse.
type Location struct {
	entity.Catalog

	// WarehouseID is the owning warehouse
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// Type classifies the stock held here
	Type Type `db:"location_type" json:"locationType"`
}

// New creates a new Location.
func New(code, name string, warehouseID id.ID, locType Type) *Location {
	return &Location{
		Catalog:     entity.NewCatalog(code, name),
		WarehouseID: warehouseID,
		Type:        locType,
	}
}

// Validate implements entity.Validatable.
func (l *Location) Validate(ctx context.Context) error {
	if err := l.Catalog.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(l.WarehouseID) {
		return apperror.NewValidation("warehouse is required").WithField("warehouseId")
	}

	if !isValidType(l.Type) {
		return apperror.NewValidation("invalid location type").
			WithField("locationType").
			WithDetail("value", string(l.Type))
	}

	return nil
}

func isValidType(t Type) bool {
	switch t {
	case TypeStandard, TypeDamaged, TypeReturn:
		return true
	}
	return false
}
