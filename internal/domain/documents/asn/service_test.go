package asn

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
	"stockyard/internal/domain"
	"stockyard/pkg/numerator"
)

type fakeTx struct{}

func (fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memRepo struct {
	items map[id.ID]*ASN
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[id.ID]*ASN)}
}

func (m *memRepo) Create(_ context.Context, doc *ASN) error {
	m.items[doc.ID] = doc
	return nil
}

func (m *memRepo) GetByID(_ context.Context, docID id.ID) (*ASN, error) {
	doc, ok := m.items[docID]
	if !ok {
		return nil, apperror.NewNotFound("asn", docID.String())
	}
	copied := *doc
	return &copied, nil
}

func (m *memRepo) Update(_ context.Context, doc *ASN) error {
	m.items[doc.ID] = doc
	return nil
}

func (m *memRepo) Delete(_ context.Context, docID id.ID) error {
	delete(m.items, docID)
	return nil
}

func (m *memRepo) List(_ context.Context, _ domain.DocumentFilter) (domain.ListResult[*ASN], error) {
	return domain.ListResult[*ASN]{}, nil
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

type memChangeLog struct {
	entries int
}

func (m *memChangeLog) Record(context.Context, string, id.ID, domain.ChangeAction, string, json.RawMessage) error {
	m.entries++
	return nil
}

type memCounters struct {
	value int64
}

func (m *memCounters) NextValue(context.Context, string, int) (int64, error) {
	m.value++
	return m.value, nil
}

type fakeWarehouses struct {
	missing bool
}

func (f *fakeWarehouses) Exists(context.Context, id.ID) (bool, error) {
	return !f.missing, nil
}

func newTestService() (*Service, *memStatusLogs, *memChangeLog) {
	statusLogs := &memStatusLogs{}
	changeLog := &memChangeLog{}
	svc := NewService(
		newMemRepo(), statusLogs, changeLog, &fakeWarehouses{},
		fakeTx{}, numerator.NewService(&memCounters{}),
	)
	return svc, statusLogs, changeLog
}

func newTestASN(t *testing.T) *ASN {
	t.Helper()
	doc := New(id.New(), "Acme Supplies", "operator-1")
	_, err := doc.AddDetail(id.New(), 10, "")
	require.NoError(t, err)
	return doc
}

func TestServiceCreate(t *testing.T) {
	svc, _, changeLog := newTestService()
	doc := newTestASN(t)

	require.NoError(t, svc.Create(context.Background(), doc))

	assert.Regexp(t, `^ASN-\d{4}-00001$`, doc.Number)
	assert.Equal(t, statusflow.StatePending, doc.Status)
	assert.Equal(t, 1, changeLog.entries)
}

func TestServiceCreateRequiresSupplier(t *testing.T) {
	svc, _, _ := newTestService()
	doc := New(id.New(), "", "operator-1")

	err := svc.Create(context.Background(), doc)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "supplierName", appErr.Field)
}

func TestServiceCreateMissingWarehouse(t *testing.T) {
	statusLogs := &memStatusLogs{}
	svc := NewService(
		newMemRepo(), statusLogs, &memChangeLog{}, &fakeWarehouses{missing: true},
		fakeTx{}, numerator.NewService(&memCounters{}),
	)

	err := svc.Create(context.Background(), newTestASN(t))
	assert.True(t, apperror.IsNotFound(err))
}

func TestServiceReceiveAndComplete(t *testing.T) {
	svc, statusLogs, _ := newTestService()
	doc := newTestASN(t)
	require.NoError(t, svc.Create(context.Background(), doc))

	received, err := svc.Receive(context.Background(), doc.ID, "operator-2")
	require.NoError(t, err)
	assert.Equal(t, statusflow.StateReceived, received.Status)
	assert.NotNil(t, received.StartedAt)

	completed, err := svc.Complete(context.Background(), doc.ID, "operator-2")
	require.NoError(t, err)
	assert.Equal(t, statusflow.StateCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	rows, err := statusLogs.ListByDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, statusflow.StatePending, rows[0].OldStatus)
	assert.Equal(t, statusflow.StateReceived, rows[0].NewStatus)
	assert.Equal(t, "operator-2", rows[0].OperatorID)
}

func TestServiceCloseCancelsPending(t *testing.T) {
	svc, _, _ := newTestService()
	doc := newTestASN(t)
	require.NoError(t, svc.Create(context.Background(), doc))

	closed, err := svc.Close(context.Background(), doc.ID, "operator-2")
	require.NoError(t, err)
	assert.Equal(t, statusflow.StateClosed, closed.Status)

	// a closed announcement admits no further transitions
	_, err = svc.Receive(context.Background(), doc.ID, "operator-2")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
}

func TestServiceReceiveTwiceRejected(t *testing.T) {
	svc, _, _ := newTestService()
	doc := newTestASN(t)
	require.NoError(t, svc.Create(context.Background(), doc))

	_, err := svc.Receive(context.Background(), doc.ID, "op")
	require.NoError(t, err)

	_, err = svc.Receive(context.Background(), doc.ID, "op")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
}

func TestServiceUpdateOnlyWhilePending(t *testing.T) {
	svc, _, _ := newTestService()
	doc := newTestASN(t)
	require.NoError(t, svc.Create(context.Background(), doc))

	_, err := svc.Receive(context.Background(), doc.ID, "op")
	require.NoError(t, err)

	received, err := svc.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	received.Remark = "late edit"

	err = svc.Update(context.Background(), received)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}

func TestServiceDelete(t *testing.T) {
	svc, _, changeLog := newTestService()
	doc := newTestASN(t)
	require.NoError(t, svc.Create(context.Background(), doc))

	require.NoError(t, svc.Delete(context.Background(), doc.ID, "op"))
	assert.Equal(t, 2, changeLog.entries)

	_, err := svc.GetByID(context.Background(), doc.ID)
	assert.True(t, apperror.IsNotFound(err))
}
