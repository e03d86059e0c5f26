package entity

import "time"

// MovementReason motivo de un movimiento de activo.
type MovementReason string

// Motivos de movimiento (el ledger solo acepta estos valores).
const (
	MovementIntake  MovementReason = "INTAKE"  // entrada al inventario
	MovementMove    MovementReason = "MOVE"    // traslado interno o entre bodegas
	MovementReserve MovementReason = "RESERVE" // reserva (sin desplazamiento físico)
	MovementRelease MovementReason = "RELEASE" // liberación de reserva
	MovementShip    MovementReason = "SHIP"    // despacho al cliente
	MovementReturn  MovementReason = "RETURN"  // devolución (RMA)
)

// Valid indica si el motivo pertenece al catálogo.
func (r MovementReason) Valid() bool {
	switch r {
	case MovementIntake, MovementMove, MovementReserve, MovementRelease, MovementShip, MovementReturn:
		return true
	}
	return false
}

// Movement hecho inmutable: reubicación de un activo serializado.
// Sequence lo asigna el almacenamiento y es estrictamente creciente; define el orden del historial.
// FromLocationID/ToLocationID vacíos equivalen a "sin ubicación".
type Movement struct {
	ID             string
	Sequence       int64
	AssetID        string
	FromLocationID string
	ToLocationID   string
	Reason         MovementReason
	ActorID        string
	CreatedAt      time.Time
}
