// Package asn implements the Advanced Shipping Notice, the inbound parent
// document. An ASN announces goods arriving from a supplier; sorting tasks
// are created against a received ASN.
package asn

import (
	"context"
	"time"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
)

// Detail is one announced line of an ASN.
type Detail struct {
	ID     id.ID `db:"id" json:"id"`
	ASNID  id.ID `db:"asn_id" json:"asnId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	GoodsID  id.ID          `db:"goods_id" json:"goodsId"`
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	Remark string `db:"remark" json:"remark,omitempty"`
}

// ASN is the inbound shipment announcement.
type ASN struct {
	entity.Document

	SupplierName string     `db:"supplier_name" json:"supplierName"`
	ExpectedAt   *time.Time `db:"expected_at" json:"expectedAt,omitempty"`
	Remark       string     `db:"remark" json:"remark,omitempty"`

	Details []Detail `db:"-" json:"details"`
}

// New creates a pending ASN.
func New(warehouseID id.ID, supplierName, createdBy string) *ASN {
	return &ASN{
		Document:     entity.NewDocument(warehouseID, createdBy),
		SupplierName: supplierName,
	}
}

// Validate implements entity.Validatable.
func (a *ASN) Validate(ctx context.Context) error {
	if err := a.Document.Validate(ctx); err != nil {
		return err
	}
	if a.SupplierName == "" {
		return apperror.NewValidation("supplier name is required").WithField("supplierName")
	}
	for i := range a.Details {
		if err := a.Details[i].validate(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Detail) validate() error {
	if id.IsNil(d.GoodsID) {
		return apperror.NewValidation("detail goods is required").WithField("details.goodsId")
	}
	if !d.Quantity.IsPositive() {
		return apperror.NewValidation("detail quantity must be positive").
			WithBusinessCode(apperror.BizQuantityNotPositive).
			WithField("details.quantity")
	}
	return nil
}

// AddDetail appends a line; allowed only while pending.
func (a *ASN) AddDetail(goodsID id.ID, quantity types.Quantity, remark string) (*Detail, error) {
	if err := a.CanModify(); err != nil {
		return nil, err
	}
	detail := Detail{
		ID:       id.New(),
		ASNID:    a.ID,
		LineNo:   len(a.Details) + 1,
		GoodsID:  goodsID,
		Quantity: quantity,
		Remark:   remark,
	}
	if err := detail.validate(); err != nil {
		return nil, err
	}
	a.Details = append(a.Details, detail)
	return &a.Details[len(a.Details)-1], nil
}

// RemoveDetail drops a line by id; allowed only while pending. Line numbers
// are compacted afterwards.
func (a *ASN) RemoveDetail(detailID id.ID) error {
	if err := a.CanModify(); err != nil {
		return err
	}
	for i := range a.Details {
		if a.Details[i].ID == detailID {
			a.Details = append(a.Details[:i], a.Details[i+1:]...)
			for j := range a.Details {
				a.Details[j].LineNo = j + 1
			}
			return nil
		}
	}
	return apperror.NewNotFound("asn detail", detailID.String())
}
