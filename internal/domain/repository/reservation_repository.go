package repository

import (
	"context"

	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
)

// ReservationRepository puerto de reservas. Create debe devolver domain.ErrDuplicate
// cuando el activo ya tiene reserva (restricción única sobre asset_id).
type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	GetByAsset(ctx context.Context, assetID string) (*entity.Reservation, error)
	// DeleteByAsset elimina la reserva y devuelve la eliminada, o nil si no existía.
	DeleteByAsset(ctx context.Context, assetID string) (*entity.Reservation, error)
}
