package entity

import "time"

// Warehouse representa una bodega candidata para preparar pedidos (multi-bodega).
// Country es el código ISO 3166-1 alfa-2 en mayúsculas.
type Warehouse struct {
	ID        string
	Code      string
	Name      string
	Country   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
