package dn

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
	items map[id.ID]*DN
}

func newMemRepo() *memRepo {
	return &memRepo{items: make(map[id.ID]*DN)}
}

func (m *memRepo) Create(_ context.Context, doc *DN) error {
	m.items[doc.ID] = doc
	return nil
}

func (m *memRepo) GetByID(_ context.Context, docID id.ID) (*DN, error) {
	doc, ok := m.items[docID]
	if !ok {
		return nil, apperror.NewNotFound("dn", docID.String())
	}
	copied := *doc
	return &copied, nil
}

func (m *memRepo) Update(_ context.Context, doc *DN) error {
	m.items[doc.ID] = doc
	return nil
}

func (m *memRepo) Delete(_ context.Context, docID id.ID) error {
	delete(m.items, docID)
	return nil
}

func (m *memRepo) List(_ context.Context, _ domain.DocumentFilter) (domain.ListResult[*DN], error) {
	return domain.ListResult[*DN]{}, nil
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

type fakeWarehouses struct{}

func (fakeWarehouses) Exists(context.Context, id.ID) (bool, error) {
	return true, nil
}

func newTestService() (*Service, *memStatusLogs) {
	statusLogs := &memStatusLogs{}
	svc := NewService(
		newMemRepo(), statusLogs, memChangeLog{}, fakeWarehouses{},
		fakeTx{}, numerator.NewService(&memCounters{}),
	)
	return svc, statusLogs
}

func TestServiceCreateAssignsNumber(t *testing.T) {
	svc, _ := newTestService()
	doc := New(id.New(), "Northwind Traders", "operator-1")
	_, err := doc.AddDetail(id.New(), 5, "")
	require.NoError(t, err)

	require.NoError(t, svc.Create(context.Background(), doc))

	assert.Regexp(t, `^DN-\d{4}-00001$`, doc.Number)
	assert.Equal(t, statusflow.StatePending, doc.Status)
}

func TestServiceProcessRequiresDetails(t *testing.T) {
	svc, _ := newTestService()
	doc := New(id.New(), "Northwind Traders", "operator-1")
	require.NoError(t, svc.Create(context.Background(), doc))

	_, err := svc.Process(context.Background(), doc.ID, "op")

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.BizEmptyDetails, appErr.BusinessCode)
}

func TestServiceProcessAndClose(t *testing.T) {
	svc, statusLogs := newTestService()
	doc := New(id.New(), "Northwind Traders", "operator-1")
	_, err := doc.AddDetail(id.New(), 5, "")
	require.NoError(t, err)
	require.NoError(t, svc.Create(context.Background(), doc))

	inProgress, err := svc.Process(context.Background(), doc.ID, "op")
	require.NoError(t, err)
	assert.Equal(t, statusflow.StateProgress, inProgress.Status)

	closed, err := svc.Close(context.Background(), doc.ID, "op")
	require.NoError(t, err)
	assert.Equal(t, statusflow.StateClosed, closed.Status)
	assert.NotNil(t, closed.CompletedAt)

	rows, err := statusLogs.ListByDocument(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestServiceCloseFromPendingRejected(t *testing.T) {
	svc, _ := newTestService()
	doc := New(id.New(), "Northwind Traders", "operator-1")
	_, err := doc.AddDetail(id.New(), 5, "")
	require.NoError(t, err)
	require.NoError(t, svc.Create(context.Background(), doc))

	_, err = svc.Close(context.Background(), doc.ID, "op")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
}
