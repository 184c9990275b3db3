// Package ledger owns the stock record table. ApplyDelta is the single
// write path for stock quantities; movement and adjustment services call
// it inside their own transactions.
package ledger

import (
	"context"

	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
)

// TypeTotals aggregates on-hand quantity per location type within one
// warehouse.
type TypeTotals struct {
	Standard types.Quantity `json:"standard"`
	Damaged  types.Quantity `json:"damaged"`
	Return   types.Quantity `json:"return"`
}

// Repository defines persistence for stock records. GetForUpdate must lock
// the row (SELECT ... FOR UPDATE) when called inside a transaction, so two
// concurrent deltas on the same (goods, location) pair serialize.
type Repository interface {
	// Get returns the record, or nil when no row exists.
	Get(ctx context.Context, goodsID, locationID id.ID) (*entity.StockRecord, error)

	// GetForUpdate returns the record with a row lock held for the rest
	// of the enclosing transaction, or nil when no row exists.
	GetForUpdate(ctx context.Context, goodsID, locationID id.ID) (*entity.StockRecord, error)

	// Upsert inserts or replaces the record. Quantity must be positive.
	Upsert(ctx context.Context, record entity.StockRecord) error

	// Delete removes the record; called when quantity reaches zero.
	Delete(ctx context.Context, goodsID, locationID id.ID) error

	// ListByGoods returns every stock record for the good across the
	// warehouse's locations.
	ListByGoods(ctx context.Context, goodsID, warehouseID id.ID) ([]entity.StockRecord, error)

	// ListByLocation returns every stock record at one location.
	ListByLocation(ctx context.Context, locationID id.ID) ([]entity.StockRecord, error)

	// AggregateByLocationType sums quantities of the good per location
	// type within one warehouse.
	AggregateByLocationType(ctx context.Context, goodsID, warehouseID id.ID) (TypeTotals, error)
}
