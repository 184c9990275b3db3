package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("goods", "GD-001")

	assert.Equal(t, CodeNotFound, err.Code)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.Contains(t, err.Error(), "goods")
	assert.True(t, IsNotFound(err))
}

func TestNewInsufficientStock(t *testing.T) {
	err := NewInsufficientStock("g1", "l1", 10, 3)

	assert.Equal(t, CodeInsufficientStock, err.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, err.HTTPStatus)
	assert.Equal(t, int64(10), err.Details["requested"])
	assert.Equal(t, int64(3), err.Details["available"])
	assert.True(t, IsInsufficientStock(err))
	assert.False(t, IsNotFound(err))
}

func TestAsAppErrorUnwrapsChain(t *testing.T) {
	inner := NewValidation("bad input").WithField("code")
	wrapped := fmt.Errorf("create goods: %w", inner)

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, appErr.Code)
	assert.Equal(t, "code", appErr.Field)

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
}

func TestWithCausePreservesChain(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternal(cause)

	assert.Equal(t, CodeInternal, err.Code)
	assert.ErrorIs(t, err, cause)
}

func TestWithDetailAndBusinessCode(t *testing.T) {
	err := NewBusinessRule(CodeBusinessRule, "document locked").
		WithBusinessCode(BizDocumentImmutable).
		WithDetail("status", "completed")

	assert.Equal(t, BizDocumentImmutable, err.BusinessCode)
	assert.Equal(t, "completed", err.Details["status"])
	assert.Equal(t, http.StatusUnprocessableEntity, err.HTTPStatus)
}

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(NewNotFound("dn", "x")))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("boom")))
}
