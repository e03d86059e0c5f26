package entity

import "time"

// Location ubicación física (estantería, zona, muelle) donde puede estar un activo.
// WarehouseID vacío para ubicaciones fuera de bodega (taller, tránsito).
type Location struct {
	ID          string
	Code        string // código legible, único (ej. "PAR-A-01-03")
	Name        string
	WarehouseID string
	CreatedAt   time.Time
}
