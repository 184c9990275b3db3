// Package warehouse provides the warehouse catalog.
package warehouse

import (
	"context"

	"stockyard/internal/core/entity"
)

// Warehouse represents one physical site holding storage locations.
type Warehouse struct {
	entity.Catalog

	// Address is the physical address
	Address *string `db:"address" json:"address,omitempty"`

	// ContactName and ContactPhone identify the site manager
	ContactName  *string `db:"contact_name" json:"contactName,omitempty"`
	ContactPhone *string `db:"contact_phone" json:"contactPhone,omitempty"`
}

// New creates a new Warehouse.
func New(code, name string) *Warehouse {
	return &Warehouse{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable.
func (w *Warehouse) Validate(ctx context.Context) error {
	return w.Catalog.Validate(ctx)
}
