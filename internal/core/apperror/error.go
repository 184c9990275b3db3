// Package apperror provides structured error handling for the warehouse core.
// All business errors must use AppError so the boundary layer can map them to
// stable machine-readable responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes grouped by kind.
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"

	// Validation errors (400)
	CodeValidation = "VALIDATION_ERROR"

	// Business rule violations (422)
	CodeBusinessRule           = "BUSINESS_RULE_VIOLATION"
	CodeInsufficientStock      = "INSUFFICIENT_STOCK"
	CodeInvalidTransition      = "INVALID_STATUS_TRANSITION"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict = "CONFLICT"
)

// Business codes are stable numeric identifiers surfaced to API clients.
// Each distinct violation gets its own number; the list is append-only.
const (
	BizInvalidStatusValue  = 10001 // status string is not a known state
	BizInvalidTransition   = 10002 // document is not in the required predecessor state
	BizNotPending          = 10003 // mutation attempted outside the pending phase
	BizNotInProgress       = 10004 // operational edit attempted outside in_progress
	BizNotApproved         = 10005 // completion attempted on a non-approved document
	BizDocumentImmutable   = 10006 // document reached a terminal state
	BizSameLocation        = 10010 // transfer source equals destination
	BizReasonRequired      = 10011 // removal without a reason
	BizEmptyDetails        = 10012 // operation requires at least one detail line
	BizQuantityNotPositive = 10013
	BizInsufficientStock   = 10020
	BizParentNotReady      = 10030 // parent document is not in the required state
	BizStageNotCompleted   = 10031 // prior fulfillment stage has not completed
)

// AppError is the standard error type for the core.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// BusinessCode is the stable numeric identifier for the exact violation.
	// Zero when the error has no dedicated number.
	BusinessCode int `json:"businessCode,omitempty"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Field names the offending request field, when applicable
	Field string `json:"field,omitempty"`

	// Details contains additional context (ids, quantities, etc.)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithField names the offending request field.
func (e *AppError) WithField(field string) *AppError {
	e.Field = field
	return e
}

// WithBusinessCode assigns the numeric violation identifier.
func (e *AppError) WithBusinessCode(code int) *AppError {
	e.BusinessCode = code
	return e
}

// WithCause sets the underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions ---

// NewValidation creates a validation error (400).
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404).
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewBusinessRule creates a business rule violation error (422).
func NewBusinessRule(code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewInsufficientStock reports that a decrement would drive stock negative.
func NewInsufficientStock(goodsID, locationID string, requested, available int64) *AppError {
	return &AppError{
		Code:         CodeInsufficientStock,
		BusinessCode: BizInsufficientStock,
		Message:      "insufficient stock at location",
		HTTPStatus:   http.StatusUnprocessableEntity,
		Details: map[string]any{
			"goods_id":    goodsID,
			"location_id": locationID,
			"requested":   requested,
			"available":   available,
		},
	}
}

// NewInvalidTransition reports a status transition against the machine's rules.
func NewInvalidTransition(kind, from, action string) *AppError {
	return &AppError{
		Code:         CodeInvalidTransition,
		BusinessCode: BizInvalidTransition,
		Message:      fmt.Sprintf("cannot %s %s in status %q", action, kind, from),
		HTTPStatus:   http.StatusBadRequest,
		Details: map[string]any{
			"kind":   kind,
			"status": from,
			"action": action,
		},
	}
}

// NewConcurrentModification creates an optimistic locking error.
func NewConcurrentModification(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeConcurrentModification,
		Message:    "record was modified by another user, refresh and retry",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInternal creates an internal server error (hides details from client).
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewConflict creates a conflict error (409).
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error.
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// IsNotFound checks if error is CodeNotFound.
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsInsufficientStock checks if error is CodeInsufficientStock.
func IsInsufficientStock(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == CodeInsufficientStock
	}
	return false
}
