package dto

import "time"

// RegisterStockRequest registra un activo como AVAILABLE en una bodega.
type RegisterStockRequest struct {
	AssetID     string `json:"asset_id" validate:"required,max=100"`
	WarehouseID string `json:"warehouse_id" validate:"required,max=100"`
}

// StockEntryResponse salida de una entrada de stock.
type StockEntryResponse struct {
	ID          string    `json:"id"`
	AssetID     string    `json:"asset_id"`
	WarehouseID string    `json:"warehouse_id"`
	Status      string    `json:"status"`
	OrderID     string    `json:"order_id,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StockListResponse lista paginada de entradas de stock de una bodega.
type StockListResponse struct {
	Items []StockEntryResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}
