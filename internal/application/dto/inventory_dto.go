package dto

import "time"

// MoveAssetRequest body para POST /api/inventory/movements.
// from_location_id vacío toma la posición actual del activo; reason por defecto MOVE.
type MoveAssetRequest struct {
	AssetID        string `json:"asset_id" validate:"required,max=100"`
	FromLocationID string `json:"from_location_id,omitempty" validate:"omitempty,max=100"`
	ToLocationID   string `json:"to_location_id"`
	Reason         string `json:"reason,omitempty" validate:"omitempty,oneof=INTAKE MOVE RESERVE RELEASE SHIP RETURN"`
}

// MovementResponse salida de un movimiento del ledger.
type MovementResponse struct {
	ID             string    `json:"id"`
	Sequence       int64     `json:"sequence"`
	AssetID        string    `json:"asset_id"`
	FromLocationID *string   `json:"from_location_id"`
	ToLocationID   *string   `json:"to_location_id"`
	Reason         string    `json:"reason"`
	ActorID        string    `json:"actor_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// MovementHistoryResponse historial del activo, del más antiguo al más reciente.
type MovementHistoryResponse struct {
	AssetID string             `json:"asset_id"`
	Items   []MovementResponse `json:"items"`
}

// AssetPositionResponse posición derivada; location_id null si no hay movimientos.
type AssetPositionResponse struct {
	AssetID      string     `json:"asset_id"`
	LocationID   *string    `json:"location_id"`
	LocationCode *string    `json:"location_code"`
	Since        *time.Time `json:"since,omitempty"`
}

// ReserveAssetRequest body para POST /api/inventory/reservations.
type ReserveAssetRequest struct {
	AssetID  string `json:"asset_id" validate:"required,max=100"`
	OrderRef string `json:"order_ref" validate:"required,max=100"`
}

// ReservationResponse salida de una reserva.
type ReservationResponse struct {
	ID        string    `json:"id"`
	AssetID   string    `json:"asset_id"`
	OrderRef  string    `json:"order_ref"`
	CreatedAt time.Time `json:"created_at"`
}

// AvailabilityResponse veredicto de disponibilidad; siempre se devuelve.
type AvailabilityResponse struct {
	AssetID   string  `json:"asset_id"`
	Available bool    `json:"available"`
	Location  *string `json:"location"`
	Reason    string  `json:"reason,omitempty"`
}
