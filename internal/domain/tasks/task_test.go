package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/core/statusflow"
)

func pendingBase() Base {
	return NewBase(id.New(), "user-1")
}

func TestAddDetail_OnlyWhilePending(t *testing.T) {
	b := pendingBase()

	detail, err := b.AddDetail(id.New(), id.New(), 5, "")
	require.NoError(t, err)
	assert.Equal(t, 1, detail.LineNo)

	b.Status = statusflow.StateInProgress
	_, err = b.AddDetail(id.New(), id.New(), 5, "")
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.BizNotPending, appErr.BusinessCode)
}

func TestAddDetail_RejectsNonPositiveQuantity(t *testing.T) {
	b := pendingBase()

	_, err := b.AddDetail(id.New(), id.New(), 0, "")
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.BizQuantityNotPositive, appErr.BusinessCode)
}

func TestRemoveDetail_CompactsLineNumbers(t *testing.T) {
	b := pendingBase()
	first, err := b.AddDetail(id.New(), id.New(), 1, "")
	require.NoError(t, err)
	firstID := first.ID
	_, err = b.AddDetail(id.New(), id.New(), 2, "")
	require.NoError(t, err)
	_, err = b.AddDetail(id.New(), id.New(), 3, "")
	require.NoError(t, err)

	require.NoError(t, b.RemoveDetail(firstID))

	require.Len(t, b.Details, 2)
	assert.Equal(t, 1, b.Details[0].LineNo)
	assert.Equal(t, 2, b.Details[1].LineNo)
}

func TestRecordActual_OnlyWhileInProgress(t *testing.T) {
	b := pendingBase()
	detail, err := b.AddDetail(id.New(), id.New(), 10, "")
	require.NoError(t, err)
	detailID := detail.ID

	err = b.RecordActual(detailID, 8)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.BizNotInProgress, appErr.BusinessCode)

	b.Status = statusflow.StateInProgress
	require.NoError(t, b.RecordActual(detailID, 8))
	assert.EqualValues(t, 8, b.Details[0].ActualQuantity)

	// actuals above plan are allowed, negatives are not
	require.NoError(t, b.RecordActual(detailID, 12))
	require.Error(t, b.RecordActual(detailID, -1))
}

func TestRecordActual_FrozenAfterCompletion(t *testing.T) {
	b := pendingBase()
	detail, err := b.AddDetail(id.New(), id.New(), 10, "")
	require.NoError(t, err)

	b.Status = statusflow.StateCompleted
	err = b.RecordActual(detail.ID, 8)
	require.Error(t, err)
}

func TestCreateBatch_OnlyWhileInProgress(t *testing.T) {
	b := pendingBase()

	_, err := b.CreateBatch("op-1")
	require.Error(t, err)

	b.Status = statusflow.StateInProgress
	batch, err := b.CreateBatch("op-1")
	require.NoError(t, err)
	assert.Equal(t, 1, batch.Seq)

	second, err := b.CreateBatch("op-2")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Seq)
}

func TestAssignToBatch(t *testing.T) {
	b := pendingBase()
	detail, err := b.AddDetail(id.New(), id.New(), 10, "")
	require.NoError(t, err)
	detailID := detail.ID

	b.Status = statusflow.StateInProgress
	batch, err := b.CreateBatch("op-1")
	require.NoError(t, err)

	require.NoError(t, b.AssignToBatch(detailID, batch.ID))
	require.NotNil(t, b.Details[0].BatchID)
	assert.Equal(t, batch.ID, *b.Details[0].BatchID)

	err = b.AssignToBatch(detailID, id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
