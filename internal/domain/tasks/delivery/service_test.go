package delivery

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
	"stockyard/internal/domain/tasks/packing"
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
		return nil, apperror.NewNotFound("delivery task", taskID.String())
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
		if t.DNID == parentID {
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

type fakePackings struct {
	items map[id.ID]*packing.Task
}

func (f *fakePackings) GetByID(_ context.Context, taskID id.ID) (*packing.Task, error) {
	task, ok := f.items[taskID]
	if !ok {
		return nil, apperror.NewNotFound("packing task", taskID.String())
	}
	return task, nil
}

func newTestService(prior *packing.Task) *Service {
	packings := &fakePackings{items: map[id.ID]*packing.Task{}}
	if prior != nil {
		packings.items[prior.ID] = prior
	}
	return NewService(
		newMemTaskRepo(), packings, &memStatusLogs{}, memChangeLog{},
		fakeTx{}, numerator.NewService(&memCounters{}),
	)
}

func TestStart_RequiresCompletedPacking(t *testing.T) {
	warehouseID, dnID := id.New(), id.New()
	prior := packing.New(warehouseID, dnID, id.New(), "user-1")
	prior.Status = statusflow.StateInProgress

	svc := newTestService(prior)
	task := New(warehouseID, dnID, prior.ID, "user-1")
	require.NoError(t, svc.Create(context.Background(), task))

	_, err := svc.Start(context.Background(), task.ID, "op-1")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.BizStageNotCompleted, appErr.BusinessCode)

	prior.Status = statusflow.StateCompleted
	started, err := svc.Start(context.Background(), task.ID, "op-1")
	require.NoError(t, err)
	assert.Equal(t, statusflow.StateInProgress, started.Status)
}

func TestShipAndSign_FullChain(t *testing.T) {
	warehouseID, dnID := id.New(), id.New()
	prior := packing.New(warehouseID, dnID, id.New(), "user-1")
	prior.Status = statusflow.StateCompleted

	svc := newTestService(prior)
	task := New(warehouseID, dnID, prior.ID, "user-1")
	require.NoError(t, svc.Create(context.Background(), task))

	_, err := svc.Start(context.Background(), task.ID, "op-1")
	require.NoError(t, err)

	shipped, err := svc.Ship(context.Background(), task.ID, "FastFreight", "TRK-443", "op-1")
	require.NoError(t, err)
	assert.Equal(t, statusflow.StateShipping, shipped.Status)
	assert.Equal(t, "FastFreight", shipped.CarrierName)
	require.NotNil(t, shipped.ShippedAt)

	signed, err := svc.Sign(context.Background(), task.ID, "J. Receiver", "op-1")
	require.NoError(t, err)
	assert.Equal(t, statusflow.StateSigned, signed.Status)
	assert.Equal(t, "J. Receiver", signed.SignedBy)
	require.NotNil(t, signed.SignedAt)
	require.NotNil(t, signed.CompletedAt)
}

func TestShip_RequiresCarrierAndInProgress(t *testing.T) {
	warehouseID, dnID := id.New(), id.New()
	prior := packing.New(warehouseID, dnID, id.New(), "user-1")
	prior.Status = statusflow.StateCompleted

	svc := newTestService(prior)
	task := New(warehouseID, dnID, prior.ID, "user-1")
	require.NoError(t, svc.Create(context.Background(), task))

	// still pending, shipping is not reachable
	_, err := svc.Ship(context.Background(), task.ID, "FastFreight", "", "op-1")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)

	// carrier is mandatory
	_, err = svc.Ship(context.Background(), task.ID, "", "", "op-1")
	require.Error(t, err)
	appErr, ok = apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestSign_UnshippedTaskRejected(t *testing.T) {
	warehouseID, dnID := id.New(), id.New()
	prior := packing.New(warehouseID, dnID, id.New(), "user-1")
	prior.Status = statusflow.StateCompleted

	svc := newTestService(prior)
	task := New(warehouseID, dnID, prior.ID, "user-1")
	require.NoError(t, svc.Create(context.Background(), task))
	_, err := svc.Start(context.Background(), task.ID, "op-1")
	require.NoError(t, err)

	_, err = svc.Sign(context.Background(), task.ID, "J. Receiver", "op-1")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
}
