// Package ledger_repo provides the PostgreSQL implementation of the
// stock ledger repository.
package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/domain/ledger"
	"stockyard/internal/infrastructure/storage/postgres"
)

const stockTable = "ledger_stock"

var stockCols = postgres.ExtractDBColumns[entity.StockRecord]()

// StockRepo implements ledger.Repository.
type StockRepo struct {
	txManager *postgres.TxManager
}

var _ ledger.Repository = (*StockRepo)(nil)

// NewStockRepo creates a new stock repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{txManager: txManager}
}

func (r *StockRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *StockRepo) get(ctx context.Context, goodsID, locationID id.ID, forUpdate bool) (*entity.StockRecord, error) {
	q := r.builder().
		Select(stockCols...).
		From(stockTable).
		Where(squirrel.Eq{"goods_id": goodsID}).
		Where(squirrel.Eq{"location_id": locationID})

	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	record := &entity.StockRecord{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), record, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock record: %w", err)
	}
	return record, nil
}

// Get implements ledger.Repository.
func (r *StockRepo) Get(ctx context.Context, goodsID, locationID id.ID) (*entity.StockRecord, error) {
	return r.get(ctx, goodsID, locationID, false)
}

// GetForUpdate implements ledger.Repository.
func (r *StockRepo) GetForUpdate(ctx context.Context, goodsID, locationID id.ID) (*entity.StockRecord, error) {
	return r.get(ctx, goodsID, locationID, true)
}

// Upsert implements ledger.Repository.
func (r *StockRepo) Upsert(ctx context.Context, record entity.StockRecord) error {
	sql := `
		INSERT INTO ledger_stock (goods_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (goods_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
	`

	_, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql,
		record.GoodsID, record.LocationID, record.Quantity, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert stock record: %w", err)
	}
	return nil
}

// Delete implements ledger.Repository.
func (r *StockRepo) Delete(ctx context.Context, goodsID, locationID id.ID) error {
	q := r.builder().
		Delete(stockTable).
		Where(squirrel.Eq{"goods_id": goodsID}).
		Where(squirrel.Eq{"location_id": locationID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete stock record: %w", err)
	}
	return nil
}

// ListByGoods implements ledger.Repository. Joins locations to scope by
// warehouse.
func (r *StockRepo) ListByGoods(ctx context.Context, goodsID, warehouseID id.ID) ([]entity.StockRecord, error) {
	q := r.builder().
		Select("s.goods_id", "s.location_id", "s.quantity", "s.updated_at").
		From(stockTable + " s").
		Join("cat_location l ON l.id = s.location_id").
		Where(squirrel.Eq{"s.goods_id": goodsID}).
		Where(squirrel.Eq{"l.warehouse_id": warehouseID}).
		OrderBy("l.code ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []entity.StockRecord
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &records, sql, args...); err != nil {
		return nil, fmt.Errorf("list by goods: %w", err)
	}
	return records, nil
}

// ListByLocation implements ledger.Repository.
func (r *StockRepo) ListByLocation(ctx context.Context, locationID id.ID) ([]entity.StockRecord, error) {
	q := r.builder().
		Select(stockCols...).
		From(stockTable).
		Where(squirrel.Eq{"location_id": locationID}).
		OrderBy("goods_id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var records []entity.StockRecord
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &records, sql, args...); err != nil {
		return nil, fmt.Errorf("list by location: %w", err)
	}
	return records, nil
}

// AggregateByLocationType implements ledger.Repository.
func (r *StockRepo) AggregateByLocationType(ctx context.Context, goodsID, warehouseID id.ID) (ledger.TypeTotals, error) {
	sql := `
		SELECT
			COALESCE(SUM(s.quantity) FILTER (WHERE l.location_type = 'standard'), 0) AS standard,
			COALESCE(SUM(s.quantity) FILTER (WHERE l.location_type = 'damaged'), 0) AS damaged,
			COALESCE(SUM(s.quantity) FILTER (WHERE l.location_type = 'return'), 0) AS return_total
		FROM ledger_stock s
		JOIN cat_location l ON l.id = s.location_id
		WHERE s.goods_id = $1 AND l.warehouse_id = $2
	`

	var totals ledger.TypeTotals
	err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, goodsID, warehouseID).
		Scan(&totals.Standard, &totals.Damaged, &totals.Return)
	if err != nil {
		return ledger.TypeTotals{}, fmt.Errorf("aggregate by location type: %w", err)
	}
	return totals, nil
}
