package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockyard/internal/core/apperror"
	"stockyard/internal/domain/catalogs/goods"
	"stockyard/internal/infrastructure/storage/postgres"
)

const goodsTable = "cat_goods"

// GoodsRepo implements goods.Repository.
type GoodsRepo struct {
	*BaseCatalogRepo[*goods.Goods]
}

var _ goods.Repository = (*GoodsRepo)(nil)

// NewGoodsRepo creates a new goods repository.
func NewGoodsRepo(txManager *postgres.TxManager) *GoodsRepo {
	return &GoodsRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			goodsTable,
			postgres.ExtractDBColumns[goods.Goods](),
			func() *goods.Goods { return &goods.Goods{} },
		),
	}
}

// FindByBarcode retrieves goods by barcode.
func (r *GoodsRepo) FindByBarcode(ctx context.Context, barcode string) (*goods.Goods, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"barcode": barcode}).
		Where(squirrel.Eq{"is_active": true}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	item := &goods.Goods{}
	if err := pgxscan.Get(ctx, r.Querier(ctx), item, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("goods", barcode)
		}
		return nil, fmt.Errorf("find by barcode: %w", err)
	}
	return item, nil
}
