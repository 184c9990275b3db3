package movement

import (
	"context"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/tx"
	"stockyard/internal/core/types"
	"stockyard/internal/domain"
	"stockyard/pkg/logger"
)

// Ledger is the stock ledger surface movements need.
type Ledger interface {
	ApplyDelta(ctx context.Context, goodsID, locationID id.ID, delta types.Quantity) (entity.StockRecord, error)
}

// ExistenceChecker verifies that a referenced catalog entity exists and is
// active. Satisfied by the goods and location services.
type ExistenceChecker interface {
	Exists(ctx context.Context, entityID id.ID) (bool, error)
}

// Service executes physical stock operations.
type Service struct {
	repo      Repository
	ledger    Ledger
	goods     ExistenceChecker
	locations ExistenceChecker
	txManager tx.Manager
}

// NewService creates the movement service.
func NewService(repo Repository, ledger Ledger, goods, locations ExistenceChecker, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		ledger:    ledger,
		goods:     goods,
		locations: locations,
		txManager: txManager,
	}
}

// Putaway places stock onto a location, creating the stock row if needed.
func (s *Service) Putaway(ctx context.Context, req PutawayRequest) (entity.MovementRecord, error) {
	if err := req.Validate(ctx); err != nil {
		return entity.MovementRecord{}, err
	}
	if err := s.checkGoods(ctx, req.GoodsID); err != nil {
		return entity.MovementRecord{}, err
	}
	if err := s.checkLocation(ctx, req.LocationID); err != nil {
		return entity.MovementRecord{}, err
	}

	record := entity.NewMovementRecord(entity.MovementPutaway, req.GoodsID, req.LocationID, req.Quantity, req.OperatorID)
	record.Remark = req.Remark

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, record); err != nil {
			return err
		}
		_, err := s.ledger.ApplyDelta(ctx, req.GoodsID, req.LocationID, req.Quantity)
		return err
	})
	if err != nil {
		return entity.MovementRecord{}, err
	}

	logger.Info(ctx, "putaway completed",
		"movement_id", record.ID, "goods_id", req.GoodsID,
		"location_id", req.LocationID, "quantity", req.Quantity)
	return record, nil
}

// Removal takes stock off a location. The ledger rejects the operation when
// the location holds less than requested, which rolls the record back too.
func (s *Service) Removal(ctx context.Context, req RemovalRequest) (entity.MovementRecord, error) {
	if err := req.Validate(ctx); err != nil {
		return entity.MovementRecord{}, err
	}
	if err := s.checkGoods(ctx, req.GoodsID); err != nil {
		return entity.MovementRecord{}, err
	}
	if err := s.checkLocation(ctx, req.LocationID); err != nil {
		return entity.MovementRecord{}, err
	}

	record := entity.NewMovementRecord(entity.MovementRemoval, req.GoodsID, req.LocationID, req.Quantity, req.OperatorID)
	record.Reason = req.Reason
	record.Remark = req.Remark

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, record); err != nil {
			return err
		}
		_, err := s.ledger.ApplyDelta(ctx, req.GoodsID, req.LocationID, req.Quantity.Neg())
		return err
	})
	if err != nil {
		return entity.MovementRecord{}, err
	}

	logger.Info(ctx, "removal completed",
		"movement_id", record.ID, "goods_id", req.GoodsID,
		"location_id", req.LocationID, "quantity", req.Quantity, "reason", req.Reason)
	return record, nil
}

// Transfer moves stock between two locations atomically: the decrement at
// the source and the increment at the destination commit together or not
// at all.
func (s *Service) Transfer(ctx context.Context, req TransferRequest) (entity.MovementRecord, error) {
	if err := req.Validate(ctx); err != nil {
		return entity.MovementRecord{}, err
	}
	if err := s.checkGoods(ctx, req.GoodsID); err != nil {
		return entity.MovementRecord{}, err
	}
	if err := s.checkLocation(ctx, req.FromLocationID); err != nil {
		return entity.MovementRecord{}, err
	}
	if err := s.checkLocation(ctx, req.ToLocationID); err != nil {
		return entity.MovementRecord{}, err
	}

	record := entity.NewMovementRecord(entity.MovementTransfer, req.GoodsID, req.FromLocationID, req.Quantity, req.OperatorID)
	toID := req.ToLocationID
	record.ToLocationID = &toID
	record.Remark = req.Remark

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, record); err != nil {
			return err
		}
		if _, err := s.ledger.ApplyDelta(ctx, req.GoodsID, req.FromLocationID, req.Quantity.Neg()); err != nil {
			return err
		}
		_, err := s.ledger.ApplyDelta(ctx, req.GoodsID, req.ToLocationID, req.Quantity)
		return err
	})
	if err != nil {
		return entity.MovementRecord{}, err
	}

	logger.Info(ctx, "transfer completed",
		"movement_id", record.ID, "goods_id", req.GoodsID,
		"from", req.FromLocationID, "to", req.ToLocationID, "quantity", req.Quantity)
	return record, nil
}

// BulkPutaway applies many putaways in one transaction. Items are applied
// in order, so later items see the effects of earlier ones; any failure
// rolls back the whole batch.
func (s *Service) BulkPutaway(ctx context.Context, reqs []PutawayRequest) ([]entity.MovementRecord, error) {
	if len(reqs) == 0 {
		return nil, emptyBatchError()
	}

	records := make([]entity.MovementRecord, 0, len(reqs))
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for i := range reqs {
			record, err := s.Putaway(ctx, reqs[i])
			if err != nil {
				return batchItemError(err, i)
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// BulkRemoval applies many removals in one transaction.
func (s *Service) BulkRemoval(ctx context.Context, reqs []RemovalRequest) ([]entity.MovementRecord, error) {
	if len(reqs) == 0 {
		return nil, emptyBatchError()
	}

	records := make([]entity.MovementRecord, 0, len(reqs))
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for i := range reqs {
			record, err := s.Removal(ctx, reqs[i])
			if err != nil {
				return batchItemError(err, i)
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// BulkTransfer applies many transfers in one transaction.
func (s *Service) BulkTransfer(ctx context.Context, reqs []TransferRequest) ([]entity.MovementRecord, error) {
	if len(reqs) == 0 {
		return nil, emptyBatchError()
	}

	records := make([]entity.MovementRecord, 0, len(reqs))
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for i := range reqs {
			record, err := s.Transfer(ctx, reqs[i])
			if err != nil {
				return batchItemError(err, i)
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetByID retrieves one movement record.
func (s *Service) GetByID(ctx context.Context, recordID id.ID) (*entity.MovementRecord, error) {
	record, err := s.repo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperror.NewNotFound("movement record", recordID.String())
	}
	return record, nil
}

// HistoryByGoods lists movement records for one good.
func (s *Service) HistoryByGoods(ctx context.Context, goodsID id.ID, filter HistoryFilter) (domain.ListResult[entity.MovementRecord], error) {
	return s.repo.ListByGoods(ctx, goodsID, filter)
}

// HistoryByLocation lists movement records at one location.
func (s *Service) HistoryByLocation(ctx context.Context, locationID id.ID, filter HistoryFilter) (domain.ListResult[entity.MovementRecord], error) {
	return s.repo.ListByLocation(ctx, locationID, filter)
}

func (s *Service) checkGoods(ctx context.Context, goodsID id.ID) error {
	ok, err := s.goods.Exists(ctx, goodsID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewNotFound("goods", goodsID.String())
	}
	return nil
}

func (s *Service) checkLocation(ctx context.Context, locationID id.ID) error {
	ok, err := s.locations.Exists(ctx, locationID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewNotFound("location", locationID.String())
	}
	return nil
}

func emptyBatchError() error {
	return apperror.NewValidation("batch must contain at least one item").
		WithBusinessCode(apperror.BizEmptyDetails).
		WithField("items")
}

func batchItemError(err error, index int) error {
	if appErr, ok := apperror.AsAppError(err); ok {
		return appErr.WithDetail("item_index", index)
	}
	return err
}
