package movement

import (
	"context"
	"time"

	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/domain"
)

// HistoryFilter narrows movement history queries.
type HistoryFilter struct {
	Kind *entity.MovementKind

	// CreatedFrom/CreatedTo bound created_at (inclusive from, exclusive to)
	CreatedFrom *time.Time
	CreatedTo   *time.Time

	Limit  int
	Offset int
}

// Repository persists immutable movement records. There is no update or
// delete; rollback of the enclosing transaction is the only way a record
// disappears.
type Repository interface {
	Create(ctx context.Context, record entity.MovementRecord) error

	// CreateBatch inserts many records at once (COPY in postgres).
	CreateBatch(ctx context.Context, records []entity.MovementRecord) error

	GetByID(ctx context.Context, recordID id.ID) (*entity.MovementRecord, error)

	ListByGoods(ctx context.Context, goodsID id.ID, filter HistoryFilter) (domain.ListResult[entity.MovementRecord], error)
	ListByLocation(ctx context.Context, locationID id.ID, filter HistoryFilter) (domain.ListResult[entity.MovementRecord], error)
}
