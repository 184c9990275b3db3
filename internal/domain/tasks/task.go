// Package tasks holds the machinery shared by all fulfillment task types:
// detail lines, operator batches and the edit gating tied to task status.
//
// Planning fields (which goods, where, how many) are editable only while
// the task is pending. Operational fields (actual quantities, batches) are
// editable only while it is in progress. Terminal states freeze everything.
package tasks

import (
	"context"
	"time"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/statusflow"
	"stockyard/internal/core/types"
)

// Detail is one work line of a fulfillment task.
type Detail struct {
	ID     id.ID `db:"id" json:"id"`
	TaskID id.ID `db:"task_id" json:"taskId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	GoodsID    id.ID `db:"goods_id" json:"goodsId"`
	LocationID id.ID `db:"location_id" json:"locationId"`

	// Quantity is the planned amount; ActualQuantity is what the operator
	// actually handled, recorded while the task is in progress.
	Quantity       types.Quantity `db:"quantity" json:"quantity"`
	ActualQuantity types.Quantity `db:"actual_quantity" json:"actualQuantity"`

	// BatchID groups the line under an operator batch, when assigned
	BatchID *id.ID `db:"batch_id" json:"batchId,omitempty"`

	Remark string `db:"remark" json:"remark,omitempty"`
}

func (d *Detail) validate() error {
	if id.IsNil(d.GoodsID) {
		return apperror.NewValidation("detail goods is required").WithField("details.goodsId")
	}
	if id.IsNil(d.LocationID) {
		return apperror.NewValidation("detail location is required").WithField("details.locationId")
	}
	if !d.Quantity.IsPositive() {
		return apperror.NewValidation("detail quantity must be positive").
			WithBusinessCode(apperror.BizQuantityNotPositive).
			WithField("details.quantity")
	}
	return nil
}

// Batch is a sub-group of details worked by one operator in one pass.
type Batch struct {
	ID     id.ID `db:"id" json:"id"`
	TaskID id.ID `db:"task_id" json:"taskId"`
	Seq    int   `db:"seq" json:"seq"`

	OperatorID string    `db:"operator_id" json:"operatorId"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Base is the common state of every fulfillment task. Task type packages
// embed it and add their parent linkage.
type Base struct {
	entity.Document

	Remark string `db:"remark" json:"remark,omitempty"`

	Details []Detail `db:"-" json:"details"`
	Batches []Batch  `db:"-" json:"batches"`
}

// NewBase creates a pending task base.
func NewBase(warehouseID id.ID, createdBy string) Base {
	return Base{Document: entity.NewDocument(warehouseID, createdBy)}
}

// Validate implements entity.Validatable.
func (b *Base) Validate(ctx context.Context) error {
	if err := b.Document.Validate(ctx); err != nil {
		return err
	}
	for i := range b.Details {
		if err := b.Details[i].validate(); err != nil {
			return err
		}
	}
	return nil
}

// requireInProgress gates operational edits.
func (b *Base) requireInProgress() error {
	if b.Status == statusflow.StateInProgress {
		return nil
	}
	return apperror.NewBusinessRule(
		apperror.CodeBusinessRule,
		"operation requires the task to be in progress",
	).WithBusinessCode(apperror.BizNotInProgress).
		WithDetail("task_id", b.ID.String()).
		WithDetail("status", string(b.Status))
}

// AddDetail appends a planned line; allowed only while pending.
func (b *Base) AddDetail(goodsID, locationID id.ID, quantity types.Quantity, remark string) (*Detail, error) {
	if err := b.CanModify(); err != nil {
		return nil, err
	}
	detail := Detail{
		ID:         id.New(),
		TaskID:     b.ID,
		LineNo:     len(b.Details) + 1,
		GoodsID:    goodsID,
		LocationID: locationID,
		Quantity:   quantity,
		Remark:     remark,
	}
	if err := detail.validate(); err != nil {
		return nil, err
	}
	b.Details = append(b.Details, detail)
	return &b.Details[len(b.Details)-1], nil
}

// UpdateDetail rewrites a planned line; allowed only while pending.
func (b *Base) UpdateDetail(detailID, goodsID, locationID id.ID, quantity types.Quantity, remark string) error {
	if err := b.CanModify(); err != nil {
		return err
	}
	detail := b.findDetail(detailID)
	if detail == nil {
		return apperror.NewNotFound("task detail", detailID.String())
	}
	updated := *detail
	updated.GoodsID = goodsID
	updated.LocationID = locationID
	updated.Quantity = quantity
	updated.Remark = remark
	if err := updated.validate(); err != nil {
		return err
	}
	*detail = updated
	return nil
}

// RemoveDetail drops a planned line; allowed only while pending.
func (b *Base) RemoveDetail(detailID id.ID) error {
	if err := b.CanModify(); err != nil {
		return err
	}
	for i := range b.Details {
		if b.Details[i].ID == detailID {
			b.Details = append(b.Details[:i], b.Details[i+1:]...)
			for j := range b.Details {
				b.Details[j].LineNo = j + 1
			}
			return nil
		}
	}
	return apperror.NewNotFound("task detail", detailID.String())
}

// RecordActual stores the handled quantity for a line; allowed only while
// the task is in progress. Actuals may legitimately differ from plan, so
// only negative values are rejected.
func (b *Base) RecordActual(detailID id.ID, actual types.Quantity) error {
	if err := b.requireInProgress(); err != nil {
		return err
	}
	if actual.IsNegative() {
		return apperror.NewValidation("actual quantity cannot be negative").
			WithBusinessCode(apperror.BizQuantityNotPositive).
			WithField("actualQuantity")
	}
	detail := b.findDetail(detailID)
	if detail == nil {
		return apperror.NewNotFound("task detail", detailID.String())
	}
	detail.ActualQuantity = actual
	return nil
}

// CreateBatch opens a new operator batch; allowed only while in progress.
func (b *Base) CreateBatch(operatorID string) (*Batch, error) {
	if err := b.requireInProgress(); err != nil {
		return nil, err
	}
	if operatorID == "" {
		return nil, apperror.NewValidation("operator is required").WithField("operatorId")
	}
	batch := Batch{
		ID:         id.New(),
		TaskID:     b.ID,
		Seq:        len(b.Batches) + 1,
		OperatorID: operatorID,
		CreatedAt:  time.Now().UTC(),
	}
	b.Batches = append(b.Batches, batch)
	return &b.Batches[len(b.Batches)-1], nil
}

// AssignToBatch attaches a detail line to an existing batch; allowed only
// while in progress.
func (b *Base) AssignToBatch(detailID, batchID id.ID) error {
	if err := b.requireInProgress(); err != nil {
		return err
	}
	detail := b.findDetail(detailID)
	if detail == nil {
		return apperror.NewNotFound("task detail", detailID.String())
	}
	found := false
	for i := range b.Batches {
		if b.Batches[i].ID == batchID {
			found = true
			break
		}
	}
	if !found {
		return apperror.NewNotFound("task batch", batchID.String())
	}
	bid := batchID
	detail.BatchID = &bid
	return nil
}

func (b *Base) findDetail(detailID id.ID) *Detail {
	for i := range b.Details {
		if b.Details[i].ID == detailID {
			return &b.Details[i]
		}
	}
	return nil
}

// ParentNotReady builds the violation raised when a task's parent document
// is not in the state the task needs.
func ParentNotReady(parentKind string, parentID id.ID, status statusflow.State, required statusflow.State) error {
	return apperror.NewBusinessRule(
		apperror.CodeBusinessRule,
		"parent document is not in the required status",
	).WithBusinessCode(apperror.BizParentNotReady).
		WithDetail("parent_kind", parentKind).
		WithDetail("parent_id", parentID.String()).
		WithDetail("status", string(status)).
		WithDetail("required", string(required))
}

// StageNotCompleted builds the violation raised when a prior fulfillment
// stage has not completed yet.
func StageNotCompleted(stage string, taskID id.ID, status statusflow.State) error {
	return apperror.NewBusinessRule(
		apperror.CodeBusinessRule,
		"prior fulfillment stage has not completed",
	).WithBusinessCode(apperror.BizStageNotCompleted).
		WithDetail("stage", stage).
		WithDetail("task_id", taskID.String()).
		WithDetail("status", string(status))
}
