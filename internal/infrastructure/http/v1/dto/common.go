// Package dto provides request bodies for the HTTP API. Domain entities
// carry their own JSON tags and serve as response bodies directly.
package dto

import (
	"time"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/core/statusflow"
	"stockyard/internal/domain"
)

// IDResponse is the body of create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates an ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// SuccessResponse is the body of operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ListQuery contains common list query parameters.
type ListQuery struct {
	Search          string `form:"search"`
	IncludeInactive bool   `form:"includeInactive"`
	OrderBy         string `form:"orderBy"`
	Limit           int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset          int    `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter converts the query to a domain list filter.
func (q *ListQuery) ToFilter() domain.ListFilter {
	filter := domain.DefaultListFilter()
	filter.Search = q.Search
	filter.IncludeInactive = q.IncludeInactive
	if q.OrderBy != "" {
		filter.OrderBy = q.OrderBy
	}
	if q.Limit > 0 {
		filter.Limit = q.Limit
	}
	filter.Offset = q.Offset
	return filter
}

// DocumentListQuery adds document-specific list parameters.
type DocumentListQuery struct {
	ListQuery

	Status      string     `form:"status"`
	WarehouseID string     `form:"warehouseId"`
	CreatedFrom *time.Time `form:"createdFrom" time_format:"2006-01-02T15:04:05Z07:00"`
	CreatedTo   *time.Time `form:"createdTo" time_format:"2006-01-02T15:04:05Z07:00"`
}

// ToFilter converts the query to a domain document filter. The kind
// validates the status value against that document type's state set.
func (q *DocumentListQuery) ToFilter(kind statusflow.Kind) (domain.DocumentFilter, error) {
	filter := domain.DocumentFilter{
		ListFilter:  q.ListQuery.ToFilter(),
		CreatedFrom: q.CreatedFrom,
		CreatedTo:   q.CreatedTo,
	}

	if q.Status != "" {
		state, err := statusflow.Parse(kind, q.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &state
	}

	if q.WarehouseID != "" {
		warehouseID, err := id.Parse(q.WarehouseID)
		if err != nil {
			return filter, apperror.NewValidation("invalid warehouseId").WithField("warehouseId")
		}
		filter.WarehouseID = &warehouseID
	}

	return filter, nil
}

// OperatorRequest carries the acting operator for status transitions.
type OperatorRequest struct {
	OperatorID string `json:"operatorId" binding:"required"`
}
