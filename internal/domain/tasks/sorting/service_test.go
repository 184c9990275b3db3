package sorting

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
	"stockyard/internal/domain/documents/asn"
	"stockyard/pkg/numerator"
)

type fakeTx struct{}

func (fakeTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memTaskRepo struct {
	items map[id.ID]*Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{items: make(map[id.ID]*Task)}
}

func (m *memTaskRepo) Create(_ context.Context, task *Task) error {
	m.items[task.ID] = task
	return nil
}

func (m *memTaskRepo) GetByID(_ context.Context, taskID id.ID) (*Task, error) {
	task, ok := m.items[taskID]
	if !ok {
		return nil, apperror.NewNotFound("sorting task", taskID.String())
	}
	copied := *task
	return &copied, nil
}

func (m *memTaskRepo) Update(_ context.Context, task *Task) error {
	m.items[task.ID] = task
	return nil
}

func (m *memTaskRepo) Delete(_ context.Context, taskID id.ID) error {
	delete(m.items, taskID)
	return nil
}

func (m *memTaskRepo) List(_ context.Context, _ domain.DocumentFilter) (domain.ListResult[*Task], error) {
	return domain.ListResult[*Task]{}, nil
}

func (m *memTaskRepo) ListByParent(_ context.Context, parentID id.ID) ([]*Task, error) {
	var out []*Task
	for _, t := range m.items {
		if t.ASNID == parentID {
			out = append(out, t)
		}
	}
	return out, nil
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

type fakeASNs struct {
	docs map[id.ID]*asn.ASN
}

func (f *fakeASNs) GetByID(_ context.Context, docID id.ID) (*asn.ASN, error) {
	doc, ok := f.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("asn", docID.String())
	}
	return doc, nil
}

func newTestService(parent *asn.ASN) (*Service, *memStatusLogs) {
	parents := &fakeASNs{docs: map[id.ID]*asn.ASN{}}
	if parent != nil {
		parents.docs[parent.ID] = parent
	}
	statusLogs := &memStatusLogs{}
	svc := NewService(
		newMemTaskRepo(), parents, statusLogs, &memChangeLog{},
		fakeTx{}, numerator.NewService(&memCounters{}),
	)
	return svc, statusLogs
}

func TestCreate_AssignsNumber(t *testing.T) {
	parent := asn.New(id.New(), "Acme Supply", "user-1")
	svc, _ := newTestService(parent)

	task := New(parent.WarehouseID, parent.ID, "user-1")
	require.NoError(t, svc.Create(context.Background(), task))
	assert.Regexp(t, `^SRT-\d{4}-00001$`, task.Number)
	assert.Equal(t, statusflow.StatePending, task.Status)
}

func TestCreate_UnknownASNFails(t *testing.T) {
	svc, _ := newTestService(nil)

	task := New(id.New(), id.New(), "user-1")
	err := svc.Create(context.Background(), task)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestStart_RequiresReceivedASN(t *testing.T) {
	parent := asn.New(id.New(), "Acme Supply", "user-1")
	svc, _ := newTestService(parent)

	task := New(parent.WarehouseID, parent.ID, "user-1")
	require.NoError(t, svc.Create(context.Background(), task))

	// parent is still pending
	_, err := svc.Start(context.Background(), task.ID, "op-1")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.BizParentNotReady, appErr.BusinessCode)

	parent.Status = statusflow.StateReceived
	started, err := svc.Start(context.Background(), task.ID, "op-1")
	require.NoError(t, err)
	assert.Equal(t, statusflow.StateInProgress, started.Status)
	require.NotNil(t, started.StartedAt)
}

func TestStartComplete_WritesStatusLogs(t *testing.T) {
	parent := asn.New(id.New(), "Acme Supply", "user-1")
	parent.Status = statusflow.StateReceived
	svc, statusLogs := newTestService(parent)

	task := New(parent.WarehouseID, parent.ID, "user-1")
	require.NoError(t, svc.Create(context.Background(), task))

	_, err := svc.Start(context.Background(), task.ID, "op-1")
	require.NoError(t, err)
	completed, err := svc.Complete(context.Background(), task.ID, "op-1")
	require.NoError(t, err)

	assert.Equal(t, statusflow.StateCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	rows, err := statusLogs.ListByDocument(context.Background(), task.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, statusflow.StatePending, rows[0].OldStatus)
	assert.Equal(t, statusflow.StateInProgress, rows[0].NewStatus)
	assert.Equal(t, statusflow.StateInProgress, rows[1].OldStatus)
	assert.Equal(t, statusflow.StateCompleted, rows[1].NewStatus)
}

func TestComplete_WithoutStartFails(t *testing.T) {
	parent := asn.New(id.New(), "Acme Supply", "user-1")
	svc, _ := newTestService(parent)

	task := New(parent.WarehouseID, parent.ID, "user-1")
	require.NoError(t, svc.Create(context.Background(), task))

	_, err := svc.Complete(context.Background(), task.ID, "op-1")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
}
