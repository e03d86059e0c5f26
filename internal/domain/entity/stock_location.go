package entity

import "time"

// StockStatus estado de un activo en el stock de una bodega (subsistema de ruteo).
type StockStatus string

const (
	StockAvailable StockStatus = "AVAILABLE"
	StockReserved  StockStatus = "RESERVED"
)

// StockLocationEntry presencia de un activo en una bodega. Una entrada por (AssetID, WarehouseID).
// OrderID solo se informa cuando Status es RESERVED.
type StockLocationEntry struct {
	ID          string
	AssetID     string
	WarehouseID string
	Status      StockStatus
	OrderID     string
	UpdatedAt   time.Time
}
