package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
)

type pairKey struct {
	goods    id.ID
	location id.ID
}

// memRepo is an in-memory stock repository for service tests.
type memRepo struct {
	rows map[pairKey]entity.StockRecord
}

func newMemRepo() *memRepo {
	return &memRepo{rows: make(map[pairKey]entity.StockRecord)}
}

func (m *memRepo) Get(_ context.Context, goodsID, locationID id.ID) (*entity.StockRecord, error) {
	r, ok := m.rows[pairKey{goodsID, locationID}]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memRepo) GetForUpdate(ctx context.Context, goodsID, locationID id.ID) (*entity.StockRecord, error) {
	return m.Get(ctx, goodsID, locationID)
}

func (m *memRepo) Upsert(_ context.Context, record entity.StockRecord) error {
	m.rows[pairKey{record.GoodsID, record.LocationID}] = record
	return nil
}

func (m *memRepo) Delete(_ context.Context, goodsID, locationID id.ID) error {
	delete(m.rows, pairKey{goodsID, locationID})
	return nil
}

func (m *memRepo) ListByGoods(_ context.Context, goodsID, _ id.ID) ([]entity.StockRecord, error) {
	var out []entity.StockRecord
	for _, r := range m.rows {
		if r.GoodsID == goodsID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRepo) ListByLocation(_ context.Context, locationID id.ID) ([]entity.StockRecord, error) {
	var out []entity.StockRecord
	for _, r := range m.rows {
		if r.LocationID == locationID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRepo) AggregateByLocationType(_ context.Context, _, _ id.ID) (TypeTotals, error) {
	return TypeTotals{}, nil
}

func TestApplyDelta_CreatesRowOnFirstPositiveDelta(t *testing.T) {
	svc := NewService(newMemRepo())
	goodsID, locationID := id.New(), id.New()

	record, err := svc.ApplyDelta(context.Background(), goodsID, locationID, 10)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(10), record.Quantity)

	qty, err := svc.ReadQuantity(context.Background(), goodsID, locationID)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(10), qty)
}

func TestApplyDelta_AccumulatesAndDecrements(t *testing.T) {
	svc := NewService(newMemRepo())
	goodsID, locationID := id.New(), id.New()
	ctx := context.Background()

	_, err := svc.ApplyDelta(ctx, goodsID, locationID, 10)
	require.NoError(t, err)
	_, err = svc.ApplyDelta(ctx, goodsID, locationID, 5)
	require.NoError(t, err)
	record, err := svc.ApplyDelta(ctx, goodsID, locationID, -7)
	require.NoError(t, err)

	assert.Equal(t, types.Quantity(8), record.Quantity)
}

func TestApplyDelta_InsufficientStockLeavesRowUntouched(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	goodsID, locationID := id.New(), id.New()
	ctx := context.Background()

	_, err := svc.ApplyDelta(ctx, goodsID, locationID, 3)
	require.NoError(t, err)

	_, err = svc.ApplyDelta(ctx, goodsID, locationID, -5)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.BizInsufficientStock, appErr.BusinessCode)
	assert.EqualValues(t, 5, appErr.Details["requested"])
	assert.EqualValues(t, 3, appErr.Details["available"])

	qty, err := svc.ReadQuantity(ctx, goodsID, locationID)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(3), qty)
}

func TestApplyDelta_ZeroQuantityDeletesRow(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	goodsID, locationID := id.New(), id.New()
	ctx := context.Background()

	_, err := svc.ApplyDelta(ctx, goodsID, locationID, 4)
	require.NoError(t, err)
	_, err = svc.ApplyDelta(ctx, goodsID, locationID, -4)
	require.NoError(t, err)

	assert.Empty(t, repo.rows)

	qty, err := svc.ReadQuantity(ctx, goodsID, locationID)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(0), qty)
}

func TestApplyDelta_NegativeDeltaOnAbsentRowIsNotFound(t *testing.T) {
	svc := NewService(newMemRepo())

	_, err := svc.ApplyDelta(context.Background(), id.New(), id.New(), -1)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestApplyDelta_ZeroDeltaRejected(t *testing.T) {
	svc := NewService(newMemRepo())

	_, err := svc.ApplyDelta(context.Background(), id.New(), id.New(), 0)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

// Sequence from a realistic shift: receive 100, pick 30, pick 70, then
// any further pick fails and the row is gone.
func TestApplyDelta_ShiftSequence(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	goodsID, locationID := id.New(), id.New()
	ctx := context.Background()

	_, err := svc.ApplyDelta(ctx, goodsID, locationID, 100)
	require.NoError(t, err)

	record, err := svc.ApplyDelta(ctx, goodsID, locationID, -30)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(70), record.Quantity)
	assert.WithinDuration(t, time.Now().UTC(), record.UpdatedAt, time.Minute)

	_, err = svc.ApplyDelta(ctx, goodsID, locationID, -70)
	require.NoError(t, err)
	assert.Empty(t, repo.rows)

	_, err = svc.ApplyDelta(ctx, goodsID, locationID, -1)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
