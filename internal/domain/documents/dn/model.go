// Package dn implements the Delivery Notice, the outbound parent document.
// A DN in progress drives the picking, packing and delivery chain.
package dn

import (
	"context"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/entity"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
)

// Detail is one ordered line of a DN.
type Detail struct {
	ID     id.ID `db:"id" json:"id"`
	DNID   id.ID `db:"dn_id" json:"dnId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	GoodsID  id.ID          `db:"goods_id" json:"goodsId"`
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	Remark string `db:"remark" json:"remark,omitempty"`
}

// DN is the outbound delivery notice.
type DN struct {
	entity.Document

	CustomerName    string `db:"customer_name" json:"customerName"`
	ShippingAddress string `db:"shipping_address" json:"shippingAddress,omitempty"`
	Remark          string `db:"remark" json:"remark,omitempty"`

	Details []Detail `db:"-" json:"details"`
}

// New creates a pending DN.
func New(warehouseID id.ID, customerName, createdBy string) *DN {
	return &DN{
		Document:     entity.NewDocument(warehouseID, createdBy),
		CustomerName: customerName,
	}
}

// Validate implements entity.Validatable.
func (d *DN) Validate(ctx context.Context) error {
	if err := d.Document.Validate(ctx); err != nil {
		return err
	}
	if d.CustomerName == "" {
		return apperror.NewValidation("customer name is required").WithField("customerName")
	}
	for i := range d.Details {
		if err := d.Details[i].validate(); err != nil {
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
func (d *DN) AddDetail(goodsID id.ID, quantity types.Quantity, remark string) (*Detail, error) {
	if err := d.CanModify(); err != nil {
		return nil, err
	}
	detail := Detail{
		ID:       id.New(),
		DNID:     d.ID,
		LineNo:   len(d.Details) + 1,
		GoodsID:  goodsID,
		Quantity: quantity,
		Remark:   remark,
	}
	if err := detail.validate(); err != nil {
		return nil, err
	}
	d.Details = append(d.Details, detail)
	return &d.Details[len(d.Details)-1], nil
}

// RemoveDetail drops a line by id; allowed only while pending.
func (d *DN) RemoveDetail(detailID id.ID) error {
	if err := d.CanModify(); err != nil {
		return err
	}
	for i := range d.Details {
		if d.Details[i].ID == detailID {
			d.Details = append(d.Details[:i], d.Details[i+1:]...)
			for j := range d.Details {
				d.Details[j].LineNo = j + 1
			}
			return nil
		}
	}
	return apperror.NewNotFound("dn detail", detailID.String())
}
