// Package movement_repo provides the PostgreSQL implementation of the
// movement record repository.
package movement_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/domain"
	"stockyard/internal/domain/movement"
	"stockyard/internal/infrastructure/storage/postgres"
)

const movementTable = "ledger_movement"

var movementCols = postgres.ExtractDBColumns[entity.MovementRecord]()

// MovementRepo implements movement.Repository.
type MovementRepo struct {
	txManager *postgres.TxManager
	inserter  *postgres.BatchInserter
}

var _ movement.Repository = (*MovementRepo)(nil)

// NewMovementRepo creates a new movement repository.
func NewMovementRepo(txManager *postgres.TxManager) *MovementRepo {
	return &MovementRepo{
		txManager: txManager,
		inserter:  postgres.NewBatchInserter(txManager),
	}
}

func (r *MovementRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create implements movement.Repository.
func (r *MovementRepo) Create(ctx context.Context, record entity.MovementRecord) error {
	data := postgres.StructToMap(record)

	q := r.builder().
		Insert(movementTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// CreateBatch implements movement.Repository using the COPY protocol.
// The bulk services open the transaction, so the inserter's tx
// requirement always holds.
func (r *MovementRepo) CreateBatch(ctx context.Context, records []entity.MovementRecord) error {
	if len(records) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		data := postgres.StructToMap(rec)
		row := make([]any, len(movementCols))
		for i, col := range movementCols {
			row[i] = data[col]
		}
		rows = append(rows, row)
	}

	n, err := r.inserter.CopyFromSlice(ctx, movementTable, movementCols, rows)
	if err != nil {
		return fmt.Errorf("copy movements: %w", err)
	}
	if n != int64(len(records)) {
		return fmt.Errorf("copy movements: inserted %d of %d rows", n, len(records))
	}
	return nil
}

// GetByID implements movement.Repository.
func (r *MovementRepo) GetByID(ctx context.Context, recordID id.ID) (*entity.MovementRecord, error) {
	q := r.builder().
		Select(movementCols...).
		From(movementTable).
		Where(squirrel.Eq{"id": recordID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	record := &entity.MovementRecord{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), record, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("movement", recordID.String())
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return record, nil
}

// ListByGoods implements movement.Repository.
func (r *MovementRepo) ListByGoods(ctx context.Context, goodsID id.ID, filter movement.HistoryFilter) (domain.ListResult[entity.MovementRecord], error) {
	return r.list(ctx, squirrel.Eq{"goods_id": goodsID}, filter)
}

// ListByLocation implements movement.Repository. Transfers into the
// location match through to_location_id.
func (r *MovementRepo) ListByLocation(ctx context.Context, locationID id.ID, filter movement.HistoryFilter) (domain.ListResult[entity.MovementRecord], error) {
	cond := squirrel.Or{
		squirrel.Eq{"location_id": locationID},
		squirrel.Eq{"to_location_id": locationID},
	}
	return r.list(ctx, cond, filter)
}

func (r *MovementRepo) list(ctx context.Context, cond squirrel.Sqlizer, filter movement.HistoryFilter) (domain.ListResult[entity.MovementRecord], error) {
	result := domain.ListResult[entity.MovementRecord]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder().
		Select(movementCols...).
		From(movementTable).
		Where(cond)

	if filter.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": *filter.Kind})
	}
	if filter.CreatedFrom != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.CreatedFrom})
	}
	if filter.CreatedTo != nil {
		q = q.Where(squirrel.Lt{"created_at": *filter.CreatedTo})
	}

	countQ := r.builder().
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list movements: %w", err)
	}
	return result, nil
}
