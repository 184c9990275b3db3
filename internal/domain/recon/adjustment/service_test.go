package adjustment

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
	"stockyard/internal/domain/recon/cyclecount"
	"stockyard/pkg/numerator"
)

// fakeTx restores repository and ledger snapshots on error, mimicking a
// rolled back transaction.
type fakeTx struct {
	repo   *memRepo
	ledger *memLedger
}

func (f *fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	repoSnap := f.repo.snapshot()
	ledgerSnap := f.ledger.snapshot()
	if err := fn(ctx); err != nil {
		f.repo.restore(repoSnap)
		f.ledger.restore(ledgerSnap)
		return err
	}
	return nil
}

type memRepo struct {
	items map[id.ID]*Document
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[id.ID]*Document)}
}

func (m *memRepo) Create(_ context.Context, doc *Document) error {
	copied := *doc
	copied.Details = append([]Detail(nil), doc.Details...)
	m.items[doc.ID] = &copied
	return nil
}

func (m *memRepo) GetByID(_ context.Context, docID id.ID) (*Document, error) {
	doc, ok := m.items[docID]
	if !ok {
		return nil, apperror.NewNotFound("adjustment", docID.String())
	}
	copied := *doc
	copied.Details = append([]Detail(nil), doc.Details...)
	return &copied, nil
}

func (m *memRepo) Update(_ context.Context, doc *Document) error {
	copied := *doc
	copied.Details = append([]Detail(nil), doc.Details...)
	m.items[doc.ID] = &copied
	return nil
}

func (m *memRepo) Delete(_ context.Context, docID id.ID) error {
	delete(m.items, docID)
	return nil
}

func (m *memRepo) List(_ context.Context, _ domain.DocumentFilter) (domain.ListResult[*Document], error) {
	return domain.ListResult[*Document]{}, nil
}

func (m *memRepo) snapshot() map[id.ID]*Document {
	snap := make(map[id.ID]*Document, len(m.items))
	for k, v := range m.items {
		copied := *v
		copied.Details = append([]Detail(nil), v.Details...)
		snap[k] = &copied
	}
	return snap
}

func (m *memRepo) restore(snap map[id.ID]*Document) {
	m.items = snap
}

type stockKey struct {
	goods    id.ID
	location id.ID
}

type memLedger struct {
	stock map[stockKey]types.Quantity
}

func newMemLedger() *memLedger {
	return &memLedger{stock: make(map[stockKey]types.Quantity)}
}

func (l *memLedger) ApplyDelta(_ context.Context, goodsID, locationID id.ID, delta types.Quantity) (entity.StockRecord, error) {
	key := stockKey{goodsID, locationID}
	current, ok := l.stock[key]
	if !ok && delta.IsNegative() {
		return entity.StockRecord{}, apperror.NewNotFound("stock record", goodsID.String())
	}
	next := current + delta
	if next.IsNegative() {
		return entity.StockRecord{}, apperror.NewInsufficientStock(
			goodsID.String(), locationID.String(), delta.Abs().Int64(), current.Int64())
	}
	if next.IsZero() {
		delete(l.stock, key)
	} else {
		l.stock[key] = next
	}
	return entity.StockRecord{GoodsID: goodsID, LocationID: locationID, Quantity: next}, nil
}

func (l *memLedger) snapshot() map[stockKey]types.Quantity {
	snap := make(map[stockKey]types.Quantity, len(l.stock))
	for k, v := range l.stock {
		snap[k] = v
	}
	return snap
}

func (l *memLedger) restore(snap map[stockKey]types.Quantity) {
	l.stock = snap
}

type fakeCycleCounts struct {
	items map[id.ID]*cyclecount.Task
}

func (f *fakeCycleCounts) GetByID(_ context.Context, taskID id.ID) (*cyclecount.Task, error) {
	task, ok := f.items[taskID]
	if !ok {
		return nil, apperror.NewNotFound("cycle count", taskID.String())
	}
	return task, nil
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

type fixture struct {
	svc    *Service
	repo   *memRepo
	ledger *memLedger
	counts *fakeCycleCounts
}

func newFixture() *fixture {
	repo := newMemRepo()
	ledger := newMemLedger()
	counts := &fakeCycleCounts{items: map[id.ID]*cyclecount.Task{}}
	txm := &fakeTx{repo: repo, ledger: ledger}
	svc := NewService(repo, ledger, counts, &memStatusLogs{}, memChangeLog{},
		txm, numerator.NewService(&memCounters{}))
	return &fixture{svc: svc, repo: repo, ledger: ledger, counts: counts}
}

func TestApprove_StampsApprover(t *testing.T) {
	f := newFixture()
	doc := New(id.New(), "count discrepancy", "user-1")
	_, err := doc.AddDetail(id.New(), id.New(), 10, 8, -2, "")
	require.NoError(t, err)
	require.NoError(t, f.svc.Create(context.Background(), doc))

	approved, err := f.svc.Approve(context.Background(), doc.ID, "supervisor-1")
	require.NoError(t, err)

	assert.Equal(t, statusflow.StateApproved, approved.Status)
	assert.Equal(t, "supervisor-1", approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)
}

func TestApprove_EmptyAdjustmentRejected(t *testing.T) {
	f := newFixture()
	doc := New(id.New(), "count discrepancy", "user-1")
	require.NoError(t, f.svc.Create(context.Background(), doc))

	_, err := f.svc.Approve(context.Background(), doc.ID, "supervisor-1")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.BizEmptyDetails, appErr.BusinessCode)
}

func TestComplete_AppliesAllDeltas(t *testing.T) {
	f := newFixture()
	goodsID, locA, locB := id.New(), id.New(), id.New()
	f.ledger.stock[stockKey{goodsID, locA}] = 10
	f.ledger.stock[stockKey{goodsID, locB}] = 4

	doc := New(id.New(), "count discrepancy", "user-1")
	_, err := doc.AddDetail(goodsID, locA, 10, 8, -2, "")
	require.NoError(t, err)
	_, err = doc.AddDetail(goodsID, locB, 4, 7, 3, "")
	require.NoError(t, err)
	require.NoError(t, f.svc.Create(context.Background(), doc))

	_, err = f.svc.Approve(context.Background(), doc.ID, "supervisor-1")
	require.NoError(t, err)
	completed, err := f.svc.Complete(context.Background(), doc.ID, "op-1")
	require.NoError(t, err)

	assert.Equal(t, statusflow.StateCompleted, completed.Status)
	assert.Equal(t, types.Quantity(8), f.ledger.stock[stockKey{goodsID, locA}])
	assert.Equal(t, types.Quantity(7), f.ledger.stock[stockKey{goodsID, locB}])
}

func TestComplete_WithoutApprovalRejected(t *testing.T) {
	f := newFixture()
	doc := New(id.New(), "count discrepancy", "user-1")
	_, err := doc.AddDetail(id.New(), id.New(), 1, 2, 1, "")
	require.NoError(t, err)
	require.NoError(t, f.svc.Create(context.Background(), doc))

	_, err = f.svc.Complete(context.Background(), doc.ID, "op-1")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.BizNotApproved, appErr.BusinessCode)
}

// A failing line aborts the whole completion: earlier deltas roll back
// and the document stays approved.
func TestComplete_FailureLeavesDocumentApproved(t *testing.T) {
	f := newFixture()
	goodsID, locA, locB := id.New(), id.New(), id.New()
	f.ledger.stock[stockKey{goodsID, locA}] = 10
	// locB holds nothing, so its negative line must fail

	doc := New(id.New(), "count discrepancy", "user-1")
	_, err := doc.AddDetail(goodsID, locA, 10, 8, -2, "")
	require.NoError(t, err)
	_, err = doc.AddDetail(goodsID, locB, 5, 1, -4, "")
	require.NoError(t, err)
	require.NoError(t, f.svc.Create(context.Background(), doc))

	_, err = f.svc.Approve(context.Background(), doc.ID, "supervisor-1")
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), doc.ID, "op-1")
	require.Error(t, err)

	stored, err := f.svc.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, statusflow.StateApproved, stored.Status)
	assert.Equal(t, types.Quantity(10), f.ledger.stock[stockKey{goodsID, locA}])
}

// Spec scenario: count three pairs, two disagree, derive and complete the
// adjustment, and the ledger matches the counted reality.
func TestCreateFromCycleCount_DerivationAndCompletion(t *testing.T) {
	f := newFixture()
	goodsID := id.New()
	locA, locB, locC := id.New(), id.New(), id.New()
	f.ledger.stock[stockKey{goodsID, locA}] = 10
	f.ledger.stock[stockKey{goodsID, locB}] = 5
	f.ledger.stock[stockKey{goodsID, locC}] = 8

	count := cyclecount.New(id.New(), "user-1")
	count.Status = statusflow.StateCompleted
	count.Details = []cyclecount.Detail{
		{ID: id.New(), GoodsID: goodsID, LocationID: locA, SystemQuantity: 10, ActualQuantity: 8, Difference: -2},
		{ID: id.New(), GoodsID: goodsID, LocationID: locB, SystemQuantity: 5, ActualQuantity: 5, Difference: 0},
		{ID: id.New(), GoodsID: goodsID, LocationID: locC, SystemQuantity: 8, ActualQuantity: 11, Difference: 3},
	}
	f.counts.items[count.ID] = count

	doc, err := f.svc.CreateFromCycleCount(context.Background(), count.ID, "cycle count 2026-08", "user-1")
	require.NoError(t, err)

	// only the two discrepant lines carry over
	require.Len(t, doc.Details, 2)
	assert.Equal(t, types.Quantity(-2), doc.Details[0].AdjustmentQuantity)
	assert.Equal(t, types.Quantity(3), doc.Details[1].AdjustmentQuantity)
	require.NotNil(t, doc.CycleCountID)
	assert.Equal(t, count.ID, *doc.CycleCountID)

	_, err = f.svc.Approve(context.Background(), doc.ID, "supervisor-1")
	require.NoError(t, err)
	_, err = f.svc.Complete(context.Background(), doc.ID, "op-1")
	require.NoError(t, err)

	assert.Equal(t, types.Quantity(8), f.ledger.stock[stockKey{goodsID, locA}])
	assert.Equal(t, types.Quantity(5), f.ledger.stock[stockKey{goodsID, locB}])
	assert.Equal(t, types.Quantity(11), f.ledger.stock[stockKey{goodsID, locC}])
}

func TestCreateFromCycleCount_RequiresCompletedCount(t *testing.T) {
	f := newFixture()
	count := cyclecount.New(id.New(), "user-1")
	count.Status = statusflow.StateInProgress
	f.counts.items[count.ID] = count

	_, err := f.svc.CreateFromCycleCount(context.Background(), count.ID, "early", "user-1")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.BizStageNotCompleted, appErr.BusinessCode)
}
