package dto

import (
	"stockyard/internal/core/types"
	"stockyard/internal/domain/catalogs/goods"
	"stockyard/internal/domain/catalogs/location"
	"stockyard/internal/domain/catalogs/warehouse"
)

// --- Goods ---

// CreateGoodsRequest is the request body for creating a goods item.
type CreateGoodsRequest struct {
	Code     string  `json:"code"`
	Name     string  `json:"name" binding:"required"`
	Unit     string  `json:"unit" binding:"required"`
	Barcode  *string `json:"barcode"`
	UnitCost string  `json:"unitCost"`
	Weight   int64   `json:"weight"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateGoodsRequest) ToEntity() (*goods.Goods, error) {
	g := goods.New(r.Code, r.Name, r.Unit)
	g.Barcode = r.Barcode
	g.Weight = r.Weight

	if r.UnitCost != "" {
		cost, err := types.NewMoneyFromString(r.UnitCost)
		if err != nil {
			return nil, err
		}
		g.UnitCost = cost
	}
	return g, nil
}

// UpdateGoodsRequest is the request body for updating a goods item.
type UpdateGoodsRequest struct {
	Code     string  `json:"code" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Unit     string  `json:"unit" binding:"required"`
	Barcode  *string `json:"barcode"`
	UnitCost string  `json:"unitCost"`
	Weight   int64   `json:"weight"`
	Version  int     `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update to an existing entity.
func (r *UpdateGoodsRequest) ApplyTo(g *goods.Goods) error {
	g.Code = r.Code
	g.Name = r.Name
	g.Unit = r.Unit
	g.Barcode = r.Barcode
	g.Weight = r.Weight
	g.Version = r.Version

	if r.UnitCost != "" {
		cost, err := types.NewMoneyFromString(r.UnitCost)
		if err != nil {
			return err
		}
		g.UnitCost = cost
	} else {
		g.UnitCost = types.ZeroMoney()
	}
	return nil
}

// --- Location ---

// CreateLocationRequest is the request body for creating a location.
type CreateLocationRequest struct {
	Code         string `json:"code"`
	Name         string `json:"name" binding:"required"`
	WarehouseID  string `json:"warehouseId" binding:"required,uuid"`
	LocationType string `json:"locationType" binding:"required"`
}

// UpdateLocationRequest is the request body for updating a location.
type UpdateLocationRequest struct {
	Code         string `json:"code" binding:"required"`
	Name         string `json:"name" binding:"required"`
	LocationType string `json:"locationType" binding:"required"`
	Version      int    `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update to an existing entity.
func (r *UpdateLocationRequest) ApplyTo(l *location.Location) {
	l.Code = r.Code
	l.Name = r.Name
	l.Type = location.Type(r.LocationType)
	l.Version = r.Version
}

// --- Warehouse ---

// CreateWarehouseRequest is the request body for creating a warehouse.
type CreateWarehouseRequest struct {
	Code         string  `json:"code"`
	Name         string  `json:"name" binding:"required"`
	Address      *string `json:"address"`
	ContactName  *string `json:"contactName"`
	ContactPhone *string `json:"contactPhone"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateWarehouseRequest) ToEntity() *warehouse.Warehouse {
	w := warehouse.New(r.Code, r.Name)
	w.Address = r.Address
	w.ContactName = r.ContactName
	w.ContactPhone = r.ContactPhone
	return w
}

// UpdateWarehouseRequest is the request body for updating a warehouse.
type UpdateWarehouseRequest struct {
	Code         string  `json:"code" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Address      *string `json:"address"`
	ContactName  *string `json:"contactName"`
	ContactPhone *string `json:"contactPhone"`
	Version      int     `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update to an existing entity.
func (r *UpdateWarehouseRequest) ApplyTo(w *warehouse.Warehouse) {
	w.Code = r.Code
	w.Name = r.Name
	w.Address = r.Address
	w.ContactName = r.ContactName
	w.ContactPhone = r.ContactPhone
	w.Version = r.Version
}
