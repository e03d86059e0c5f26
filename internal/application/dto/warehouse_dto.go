package dto

import "time"

// CreateWarehouseRequest entrada para crear una bodega.
type CreateWarehouseRequest struct {
	Code    string `json:"code" validate:"required,min=1,max=50"`
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Country string `json:"country" validate:"required,min=2,max=3"`
}

// SetWarehouseActiveRequest body para PATCH /api/warehouses/:id/active.
type SetWarehouseActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WarehouseListResponse lista de bodegas ordenada por código.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
}
