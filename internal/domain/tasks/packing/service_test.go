package packing

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
	"stockyard/internal/domain/tasks/picking"
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
		return nil, apperror.NewNotFound("packing task", taskID.String())
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
		if t.PickingID == parentID {
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

type fakePickings struct {
	tasks map[id.ID]*picking.Task
}

func (f *fakePickings) GetByID(_ context.Context, taskID id.ID) (*picking.Task, error) {
	task, ok := f.tasks[taskID]
	if !ok {
		return nil, apperror.NewNotFound("picking task", taskID.String())
	}
	return task, nil
}

func newTestService(prior *picking.Task) *Service {
	pickings := &fakePickings{tasks: map[id.ID]*picking.Task{}}
	if prior != nil {
		pickings.tasks[prior.ID] = prior
	}
	return NewService(
		newMemTaskRepo(), pickings, &memStatusLogs{}, memChangeLog{},
		fakeTx{}, numerator.NewService(&memCounters{}),
	)
}

func newPriorPicking(t *testing.T, status statusflow.State) *picking.Task {
	t.Helper()
	prior := picking.New(id.New(), id.New(), "operator-1")
	prior.Status = status
	return prior
}

func TestServiceCreateRequiresPicking(t *testing.T) {
	svc := newTestService(nil)
	task := New(id.New(), id.New(), id.New(), "operator-1")
	_, err := task.AddDetail(id.New(), id.New(), 3, "")
	require.NoError(t, err)

	err = svc.Create(context.Background(), task)
	assert.True(t, apperror.IsNotFound(err))
}

func TestServiceStartBlockedUntilPickingCompletes(t *testing.T) {
	prior := newPriorPicking(t, statusflow.StateInProgress)
	svc := newTestService(prior)

	task := New(id.New(), prior.DNID, prior.ID, "operator-1")
	_, err := task.AddDetail(id.New(), id.New(), 3, "")
	require.NoError(t, err)
	require.NoError(t, svc.Create(context.Background(), task))

	_, err = svc.Start(context.Background(), task.ID, "op")

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.BizStageNotCompleted, appErr.BusinessCode)
	assert.Equal(t, "picking", appErr.Details["stage"])
}

func TestServiceStartAfterPickingCompleted(t *testing.T) {
	prior := newPriorPicking(t, statusflow.StateCompleted)
	svc := newTestService(prior)

	task := New(id.New(), prior.DNID, prior.ID, "operator-1")
	_, err := task.AddDetail(id.New(), id.New(), 3, "")
	require.NoError(t, err)
	require.NoError(t, svc.Create(context.Background(), task))

	started, err := svc.Start(context.Background(), task.ID, "op")
	require.NoError(t, err)
	assert.Equal(t, statusflow.StateInProgress, started.Status)

	completed, err := svc.Complete(context.Background(), task.ID, "op")
	require.NoError(t, err)
	assert.Equal(t, statusflow.StateCompleted, completed.Status)
}
