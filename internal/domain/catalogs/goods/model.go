// Package goods provides the goods catalog: the physical items tracked by
// the warehouse.
package goods

import (
	"context"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/types"
)

// Goods represents one stock-keeping item.
type Goods struct {
	entity.Catalog

	// Unit is the counting unit (piece, box, pallet)
	Unit string `db:"unit" json:"unit"`

	// Barcode is the scannable identifier, optional
	Barcode *string `db:"barcode" json:"barcode,omitempty"`

	// UnitCost is the reference cost per unit
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`

	// Weight in grams, used by packing for parcel estimates
	Weight int64 `db:"weight" json:"weight"`
}

// New creates a new Goods item.
func New(code, name, unit string) *Goods {
	return &Goods{
		Catalog: entity.NewCatalog(code, name),
		Unit:    unit,
	}
}

// Validate implements entity.Validatable.
func (g *Goods) Validate(ctx context.Context) error {
	if err := g.Catalog.Validate(ctx); err != nil {
		return err
	}

	if g.Unit == "" {
		return apperror.NewValidation("unit is required").WithField("unit")
	}

	if g.UnitCost.IsNegative() {
		return apperror.NewValidation("unit cost cannot be negative").WithField("unitCost")
	}

	if g.Weight < 0 {
		return apperror.NewValidation("weight cannot be negative").WithField("weight")
	}

	return nil
}
