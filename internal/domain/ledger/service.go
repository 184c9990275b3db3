package ledger

import (
	"context"
	"time"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
	"stockyard/pkg/logger"
)

// Service is the stock ledger. All quantity changes flow through ApplyDelta;
// nothing else writes stock records.
type Service struct {
	repo Repository
}

// NewService creates the ledger service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ApplyDelta applies a signed quantity change to the (goods, location) pair
// and returns the resulting record. The caller must already be inside a
// transaction; the row-locked read makes concurrent deltas on the same pair
// serialize there.
//
// Outcomes:
//   - new quantity < 0: InsufficientStock, nothing written
//   - new quantity == 0: the row is deleted (no zero rows are kept)
//   - otherwise: the row is upserted
//
// A negative delta against an absent row is NotFound.
func (s *Service) ApplyDelta(ctx context.Context, goodsID, locationID id.ID, delta types.Quantity) (entity.StockRecord, error) {
	if delta.IsZero() {
		return entity.StockRecord{}, apperror.NewValidation("delta must be non-zero").
			WithBusinessCode(apperror.BizQuantityNotPositive).
			WithField("delta")
	}

	current, err := s.repo.GetForUpdate(ctx, goodsID, locationID)
	if err != nil {
		return entity.StockRecord{}, err
	}

	if current == nil {
		if delta.IsNegative() {
			return entity.StockRecord{}, apperror.NewNotFound("stock record", goodsID.String()).
				WithDetail("location_id", locationID.String())
		}
		record := entity.StockRecord{
			GoodsID:    goodsID,
			LocationID: locationID,
			Quantity:   delta,
			UpdatedAt:  time.Now().UTC(),
		}
		if err := s.repo.Upsert(ctx, record); err != nil {
			return entity.StockRecord{}, err
		}
		return record, nil
	}

	next := current.Quantity + delta
	if next.IsNegative() {
		return entity.StockRecord{}, apperror.NewInsufficientStock(
			goodsID.String(), locationID.String(),
			delta.Abs().Int64(), current.Quantity.Int64(),
		)
	}

	if next.IsZero() {
		if err := s.repo.Delete(ctx, goodsID, locationID); err != nil {
			return entity.StockRecord{}, err
		}
		logger.Debug(ctx, "stock row cleared",
			"goods_id", goodsID, "location_id", locationID)
		return entity.StockRecord{
			GoodsID:    goodsID,
			LocationID: locationID,
			Quantity:   0,
			UpdatedAt:  time.Now().UTC(),
		}, nil
	}

	record := entity.StockRecord{
		GoodsID:    goodsID,
		LocationID: locationID,
		Quantity:   next,
		UpdatedAt:  time.Now().UTC(),
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return entity.StockRecord{}, err
	}
	return record, nil
}

// ReadQuantity returns the current on-hand quantity, zero when no row exists.
func (s *Service) ReadQuantity(ctx context.Context, goodsID, locationID id.ID) (types.Quantity, error) {
	record, err := s.repo.Get(ctx, goodsID, locationID)
	if err != nil {
		return 0, err
	}
	if record == nil {
		return 0, nil
	}
	return record.Quantity, nil
}

// ListByGoods returns all stock records holding the good in one warehouse.
func (s *Service) ListByGoods(ctx context.Context, goodsID, warehouseID id.ID) ([]entity.StockRecord, error) {
	return s.repo.ListByGoods(ctx, goodsID, warehouseID)
}

// ListByLocation returns all stock records at one location.
func (s *Service) ListByLocation(ctx context.Context, locationID id.ID) ([]entity.StockRecord, error) {
	return s.repo.ListByLocation(ctx, locationID)
}

// AggregateByLocationType sums the good's quantity per location type
// (standard, damaged, return) within one warehouse.
func (s *Service) AggregateByLocationType(ctx context.Context, goodsID, warehouseID id.ID) (TypeTotals, error) {
	return s.repo.AggregateByLocationType(ctx, goodsID, warehouseID)
}
