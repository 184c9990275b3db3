// Package entity provides core domain entities.
package entity

import (
	"time"

	"stockyard/internal/core/id"
	"stockyard/internal/core/statusflow"
	"stockyard/internal/core/types"
)

// StockRecord is the authoritative quantity of one good at one location.
// Exactly one row exists per (goods, location) pair while quantity > 0;
// the row is deleted when quantity reaches zero. Only the ledger service
// writes these rows.
type StockRecord struct {
	GoodsID    id.ID          `db:"goods_id" json:"goodsId"`
	LocationID id.ID          `db:"location_id" json:"locationId"`
	Quantity   types.Quantity `db:"quantity" json:"quantity"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updatedAt"`
}

// MovementKind identifies the physical operation behind a movement record.
type MovementKind string

const (
	MovementPutaway  MovementKind = "putaway"
	MovementRemoval  MovementKind = "removal"
	MovementTransfer MovementKind = "transfer"
)

// MovementRecord is the append-only audit entry for a single physical stock
// change. Records are immutable: never updated, never deleted.
type MovementRecord struct {
	// ID is unique per movement (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	Kind MovementKind `db:"kind" json:"kind"`

	GoodsID    id.ID `db:"goods_id" json:"goodsId"`
	LocationID id.ID `db:"location_id" json:"locationId"`

	// ToLocationID is set for transfers only
	ToLocationID *id.ID `db:"to_location_id" json:"toLocationId,omitempty"`

	// Quantity moved, always positive; direction comes from Kind
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	OperatorID string `db:"operator_id" json:"operatorId"`

	// Reason is mandatory for removals
	Reason string `db:"reason" json:"reason,omitempty"`
	Remark string `db:"remark" json:"remark,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewMovementRecord creates a movement record with generated ID.
func NewMovementRecord(kind MovementKind, goodsID, locationID id.ID, quantity types.Quantity, operatorID string) MovementRecord {
	return MovementRecord{
		ID:         id.New(),
		Kind:       kind,
		GoodsID:    goodsID,
		LocationID: locationID,
		Quantity:   quantity,
		OperatorID: operatorID,
		CreatedAt:  time.Now().UTC(),
	}
}

// StatusLog is the append-only record of one executed status transition.
type StatusLog struct {
	ID         id.ID            `db:"id" json:"id"`
	Kind       statusflow.Kind  `db:"kind" json:"kind"`
	DocumentID id.ID            `db:"document_id" json:"documentId"`
	OldStatus  statusflow.State `db:"old_status" json:"oldStatus"`
	NewStatus  statusflow.State `db:"new_status" json:"newStatus"`
	OperatorID string           `db:"operator_id" json:"operatorId"`
	CreatedAt  time.Time        `db:"created_at" json:"createdAt"`
}

// NewStatusLog creates a status log row with generated ID.
func NewStatusLog(kind statusflow.Kind, documentID id.ID, oldStatus, newStatus statusflow.State, operatorID string) StatusLog {
	return StatusLog{
		ID:         id.New(),
		Kind:       kind,
		DocumentID: documentID,
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
		OperatorID: operatorID,
		CreatedAt:  time.Now().UTC(),
	}
}
