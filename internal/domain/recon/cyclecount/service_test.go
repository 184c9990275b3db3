package cyclecount

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/statusflow"
	"stockyard/internal/core/types"
	"stockyard/internal/domain"
	"stockyard/pkg/numerator"
)

type fakeTx struct{}

func (fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memRepo struct {
	items map[id.ID]*Task
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[id.ID]*Task)}
}

func (m *memRepo) Create(_ context.Context, task *Task) error {
	m.items[task.ID] = task
	return nil
}

func (m *memRepo) GetByID(_ context.Context, taskID id.ID) (*Task, error) {
	task, ok := m.items[taskID]
	if !ok {
		return nil, apperror.NewNotFound("cycle count", taskID.String())
	}
	copied := *task
	copied.Details = append([]Detail(nil), task.Details...)
	return &copied, nil
}

func (m *memRepo) Update(_ context.Context, task *Task) error {
	m.items[task.ID] = task
	return nil
}

func (m *memRepo) Delete(_ context.Context, taskID id.ID) error {
	delete(m.items, taskID)
	return nil
}

func (m *memRepo) List(_ context.Context, _ domain.DocumentFilter) (domain.ListResult[*Task], error) {
	return domain.ListResult[*Task]{}, nil
}

type stockKey struct {
	goods    id.ID
	location id.ID
}

type fakeLedger struct {
	stock map[stockKey]types.Quantity
}

func (f *fakeLedger) ReadQuantity(_ context.Context, goodsID, locationID id.ID) (types.Quantity, error) {
	return f.stock[stockKey{goodsID, locationID}], nil
}

func (f *fakeLedger) ListByGoods(_ context.Context, goodsID, _ id.ID) ([]entity.StockRecord, error) {
	var out []entity.StockRecord
	for k, q := range f.stock {
		if k.goods == goodsID {
			out = append(out, entity.StockRecord{GoodsID: k.goods, LocationID: k.location, Quantity: q})
		}
	}
	return out, nil
}

type knownGoods struct {
	ids map[id.ID]bool
}

func (k *knownGoods) Exists(_ context.Context, entityID id.ID) (bool, error) {
	return k.ids[entityID], nil
}

type memStatusLogs struct {
	rows []entity.StatusLog
}

func (m *memStatusLogs) Append(_ context.Context, row entity.StatusLog) error {
	m.rows = append(m.rows, row)
	return nil
}

func (m *memStatusLogs) ListByDocument(_ context.Context, documentID id.ID) ([]entity.StatusLog, error) {
	var out []entity.StatusLog
	for _, r := range m.rows {
		if r.DocumentID == documentID {
			out = append(out, r)
		}
	}
	return out, nil
}

type memChangeLog struct{}

func (memChangeLog) Record(context.Context, string, id.ID, domain.ChangeAction, string, json.RawMessage) error {
	return nil
}

type memCounters struct {
	value int64
}

func (m *memCounters) NextValue(context.Context, string, int) (int64, error) {
	m.value++
	return m.value, nil
}

func newTestService(ledger *fakeLedger, goods *knownGoods) (*Service, *memRepo) {
	repo := newMemRepo()
	svc := NewService(repo, ledger, goods, &memStatusLogs{}, memChangeLog{},
		fakeTx{}, numerator.NewService(&memCounters{}))
	return svc, repo
}

func TestStart_SnapshotsSystemQuantities(t *testing.T) {
	goodsID, locA, locB := id.New(), id.New(), id.New()
	ledger := &fakeLedger{stock: map[stockKey]types.Quantity{
		{goodsID, locA}: 40,
	}}
	svc, _ := newTestService(ledger, &knownGoods{})

	task := New(id.New(), "user-1")
	_, err := task.AddDetail(goodsID, locA)
	require.NoError(t, err)
	_, err = task.AddDetail(goodsID, locB)
	require.NoError(t, err)
	require.NoError(t, svc.Create(context.Background(), task))

	started, err := svc.Start(context.Background(), task.ID, "op-1")
	require.NoError(t, err)

	assert.Equal(t, statusflow.StateInProgress, started.Status)
	assert.Equal(t, types.Quantity(40), started.Details[0].SystemQuantity)
	assert.Equal(t, types.Quantity(-40), started.Details[0].Difference)
	// a pair with no stock row snapshots zero
	assert.Equal(t, types.Quantity(0), started.Details[1].SystemQuantity)
	assert.Equal(t, types.Quantity(0), started.Details[1].Difference)
}

func TestRecordCount_RecomputesDifferenceOnEveryEdit(t *testing.T) {
	goodsID, locationID := id.New(), id.New()
	ledger := &fakeLedger{stock: map[stockKey]types.Quantity{
		{goodsID, locationID}: 10,
	}}
	svc, _ := newTestService(ledger, &knownGoods{})

	task := New(id.New(), "user-1")
	detail, err := task.AddDetail(goodsID, locationID)
	require.NoError(t, err)
	detailID := detail.ID
	require.NoError(t, svc.Create(context.Background(), task))
	_, err = svc.Start(context.Background(), task.ID, "op-1")
	require.NoError(t, err)

	updated, err := svc.RecordCount(context.Background(), task.ID, detailID, 7, "op-1")
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(-3), updated.Details[0].Difference)

	updated, err = svc.RecordCount(context.Background(), task.ID, detailID, 12, "op-1")
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(2), updated.Details[0].Difference)
}

func TestRecordCount_RejectedBeforeStartAndAfterComplete(t *testing.T) {
	goodsID, locationID := id.New(), id.New()
	ledger := &fakeLedger{stock: map[stockKey]types.Quantity{}}
	svc, _ := newTestService(ledger, &knownGoods{})

	task := New(id.New(), "user-1")
	detail, err := task.AddDetail(goodsID, locationID)
	require.NoError(t, err)
	detailID := detail.ID
	require.NoError(t, svc.Create(context.Background(), task))

	_, err = svc.RecordCount(context.Background(), task.ID, detailID, 5, "op-1")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.BizNotInProgress, appErr.BusinessCode)

	_, err = svc.Start(context.Background(), task.ID, "op-1")
	require.NoError(t, err)
	_, err = svc.Complete(context.Background(), task.ID, "op-1")
	require.NoError(t, err)

	_, err = svc.RecordCount(context.Background(), task.ID, detailID, 5, "op-1")
	require.Error(t, err)
}

func TestCreateFromGoodsList_ExpandsStockPairs(t *testing.T) {
	goodsA, goodsB := id.New(), id.New()
	locA, locB := id.New(), id.New()
	warehouseID := id.New()
	ledger := &fakeLedger{stock: map[stockKey]types.Quantity{
		{goodsA, locA}: 5,
		{goodsA, locB}: 3,
	}}
	goods := &knownGoods{ids: map[id.ID]bool{goodsA: true, goodsB: true}}
	svc, _ := newTestService(ledger, goods)

	task, err := svc.CreateFromGoodsList(context.Background(), []id.ID{goodsA, goodsB}, warehouseID, "user-1")
	require.NoError(t, err)

	// goodsA holds stock at two locations, goodsB at none
	assert.Len(t, task.Details, 2)
	assert.Equal(t, statusflow.StatePending, task.Status)
}

func TestCreateFromGoodsList_UnknownGoodsFails(t *testing.T) {
	goodsA := id.New()
	ledger := &fakeLedger{stock: map[stockKey]types.Quantity{}}
	goods := &knownGoods{ids: map[id.ID]bool{goodsA: true}}
	svc, repo := newTestService(ledger, goods)

	_, err := svc.CreateFromGoodsList(context.Background(), []id.ID{goodsA, id.New()}, id.New(), "user-1")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, repo.items)
}

func TestStart_RequiresDetails(t *testing.T) {
	svc, _ := newTestService(&fakeLedger{stock: map[stockKey]types.Quantity{}}, &knownGoods{})

	task := New(id.New(), "user-1")
	require.NoError(t, svc.Create(context.Background(), task))

	_, err := svc.Start(context.Background(), task.ID, "op-1")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.BizEmptyDetails, appErr.BusinessCode)
}
