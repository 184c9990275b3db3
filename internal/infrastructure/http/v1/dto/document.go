package dto

import (
	"time"

	"stockyard/internal/core/apperror"
	"stockyard/internal/core/id"
	"stockyard/internal/core/types"
	"stockyard/internal/domain/documents/asn"
	"stockyard/internal/domain/documents/dn"
)

// DocumentDetailRequest is one detail line of an ASN or DN.
type DocumentDetailRequest struct {
	GoodsID  string `json:"goodsId" binding:"required,uuid"`
	Quantity int64  `json:"quantity" binding:"required"`
	Remark   string `json:"remark"`
}

// --- ASN ---

// CreateASNRequest is the request body for creating an ASN.
type CreateASNRequest struct {
	WarehouseID  string                  `json:"warehouseId" binding:"required,uuid"`
	SupplierName string                  `json:"supplierName" binding:"required"`
	ExpectedAt   *time.Time              `json:"expectedAt"`
	Remark       string                  `json:"remark"`
	CreatedBy    string                  `json:"createdBy" binding:"required"`
	Details      []DocumentDetailRequest `json:"details"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateASNRequest) ToEntity() (*asn.ASN, error) {
	warehouseID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return nil, apperror.NewValidation("invalid warehouseId").WithField("warehouseId")
	}

	doc := asn.New(warehouseID, r.SupplierName, r.CreatedBy)
	doc.ExpectedAt = r.ExpectedAt
	doc.Remark = r.Remark

	for _, line := range r.Details {
		goodsID, err := id.Parse(line.GoodsID)
		if err != nil {
			return nil, apperror.NewValidation("invalid detail goodsId").WithField("details.goodsId")
		}
		if _, err := doc.AddDetail(goodsID, types.Quantity(line.Quantity), line.Remark); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// UpdateASNRequest is the request body for updating a pending ASN.
type UpdateASNRequest struct {
	SupplierName string                  `json:"supplierName" binding:"required"`
	ExpectedAt   *time.Time              `json:"expectedAt"`
	Remark       string                  `json:"remark"`
	Version      int                     `json:"version" binding:"required,min=1"`
	Details      []DocumentDetailRequest `json:"details"`
}

// ApplyTo applies the update to an existing entity. Details are replaced
// wholesale.
func (r *UpdateASNRequest) ApplyTo(doc *asn.ASN) error {
	doc.SupplierName = r.SupplierName
	doc.ExpectedAt = r.ExpectedAt
	doc.Remark = r.Remark
	doc.Version = r.Version

	doc.Details = nil
	for _, line := range r.Details {
		goodsID, err := id.Parse(line.GoodsID)
		if err != nil {
			return apperror.NewValidation("invalid detail goodsId").WithField("details.goodsId")
		}
		if _, err := doc.AddDetail(goodsID, types.Quantity(line.Quantity), line.Remark); err != nil {
			return err
		}
	}
	return nil
}

// --- DN ---

// CreateDNRequest is the request body for creating a DN.
type CreateDNRequest struct {
	WarehouseID     string                  `json:"warehouseId" binding:"required,uuid"`
	CustomerName    string                  `json:"customerName" binding:"required"`
	ShippingAddress string                  `json:"shippingAddress"`
	Remark          string                  `json:"remark"`
	CreatedBy       string                  `json:"createdBy" binding:"required"`
	Details         []DocumentDetailRequest `json:"details"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateDNRequest) ToEntity() (*dn.DN, error) {
	warehouseID, err := id.Parse(r.WarehouseID)
	if err != nil {
		return nil, apperror.NewValidation("invalid warehouseId").WithField("warehouseId")
	}

	doc := dn.New(warehouseID, r.CustomerName, r.CreatedBy)
	doc.ShippingAddress = r.ShippingAddress
	doc.Remark = r.Remark

	for _, line := range r.Details {
		goodsID, err := id.Parse(line.GoodsID)
		if err != nil {
			return nil, apperror.NewValidation("invalid detail goodsId").WithField("details.goodsId")
		}
		if _, err := doc.AddDetail(goodsID, types.Quantity(line.Quantity), line.Remark); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// UpdateDNRequest is the request body for updating a pending DN.
type UpdateDNRequest struct {
	CustomerName    string                  `json:"customerName" binding:"required"`
	ShippingAddress string                  `json:"shippingAddress"`
	Remark          string                  `json:"remark"`
	Version         int                     `json:"version" binding:"required,min=1"`
	Details         []DocumentDetailRequest `json:"details"`
}

// ApplyTo applies the update to an existing entity.
func (r *UpdateDNRequest) ApplyTo(doc *dn.DN) error {
	doc.CustomerName = r.CustomerName
	doc.ShippingAddress = r.ShippingAddress
	doc.Remark = r.Remark
	doc.Version = r.Version

	doc.Details = nil
	for _, line := range r.Details {
		goodsID, err := id.Parse(line.GoodsID)
		if err != nil {
			return apperror.NewValidation("invalid detail goodsId").WithField("details.goodsId")
		}
		if _, err := doc.AddDetail(goodsID, types.Quantity(line.Quantity), line.Remark); err != nil {
			return err
		}
	}
	return nil
}
