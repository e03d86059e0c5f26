package entity

import "time"

// Reservation bloqueo exclusivo de un activo para un pedido. Como máximo una por AssetID.
type Reservation struct {
	ID        string
	AssetID   string
	OrderRef  string
	CreatedAt time.Time
}
