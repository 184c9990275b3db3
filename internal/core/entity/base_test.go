package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/core/statusflow"
)

func TestNewDocumentDefaults(t *testing.T) {
	warehouseID := id.New()
	doc := NewDocument(warehouseID, "operator-1")

	assert.False(t, id.IsNil(doc.ID))
	assert.Equal(t, warehouseID, doc.WarehouseID)
	assert.Equal(t, statusflow.StatePending, doc.Status)
	assert.Equal(t, 1, doc.Version)
	assert.True(t, doc.IsActive)
	assert.Nil(t, doc.StartedAt)
	assert.Nil(t, doc.CompletedAt)
}

func TestDocumentApplyStampsTimestamps(t *testing.T) {
	doc := NewDocument(id.New(), "operator-1")

	logRow, err := doc.Apply(statusflow.KindASN, statusflow.ActionReceive, "operator-2")
	require.NoError(t, err)

	assert.Equal(t, statusflow.StateReceived, doc.Status)
	assert.NotNil(t, doc.StartedAt)
	assert.Nil(t, doc.CompletedAt)
	assert.Equal(t, 2, doc.Version)

	assert.Equal(t, doc.ID, logRow.DocumentID)
	assert.Equal(t, statusflow.StatePending, logRow.OldStatus)
	assert.Equal(t, statusflow.StateReceived, logRow.NewStatus)
	assert.Equal(t, "operator-2", logRow.OperatorID)

	_, err = doc.Apply(statusflow.KindASN, statusflow.ActionComplete, "operator-2")
	require.NoError(t, err)
	assert.NotNil(t, doc.CompletedAt)
}

func TestDocumentApplyRejectsInvalidTransition(t *testing.T) {
	doc := NewDocument(id.New(), "operator-1")

	_, err := doc.Apply(statusflow.KindASN, statusflow.ActionComplete, "op")

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
	assert.Equal(t, statusflow.StatePending, doc.Status)
}

func TestDocumentCanModify(t *testing.T) {
	doc := NewDocument(id.New(), "operator-1")
	assert.NoError(t, doc.CanModify())

	_, err := doc.Apply(statusflow.KindASN, statusflow.ActionReceive, "op")
	require.NoError(t, err)

	appErr, ok := apperror.AsAppError(doc.CanModify())
	require.True(t, ok)
	assert.Equal(t, apperror.BizNotPending, appErr.BusinessCode)

	_, err = doc.Apply(statusflow.KindASN, statusflow.ActionComplete, "op")
	require.NoError(t, err)
	_, err = doc.Apply(statusflow.KindASN, statusflow.ActionClose, "op")
	assert.Error(t, err)

	appErr, ok = apperror.AsAppError(doc.CanModify())
	require.True(t, ok)
	assert.Equal(t, apperror.BizDocumentImmutable, appErr.BusinessCode)
}

func TestCatalogValidate(t *testing.T) {
	cat := NewCatalog("GD-001", "Pallet wrap")
	assert.NoError(t, cat.Validate(t.Context()))

	cat.Name = ""
	appErr, ok := apperror.AsAppError(cat.Validate(t.Context()))
	require.True(t, ok)
	assert.Equal(t, "name", appErr.Field)
}

func TestBaseEntityTouch(t *testing.T) {
	base := NewBaseEntity()
	require.Equal(t, 1, base.Version)

	base.Touch()
	assert.Equal(t, 2, base.Version)
}
