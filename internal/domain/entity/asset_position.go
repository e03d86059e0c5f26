package entity

import "time"

// AssetPosition posición derivada del último movimiento; nunca se almacena.
// LocationID vacío significa ubicación desconocida (sin movimientos).
type AssetPosition struct {
	AssetID      string
	LocationID   string
	LocationCode string
	Since        time.Time
}

// Known indica si el activo tiene una ubicación conocida.
func (p AssetPosition) Known() bool { return p.LocationID != "" }
