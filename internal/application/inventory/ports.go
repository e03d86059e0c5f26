package inventory

import (
	"context"

	"github.com/jhoicas/refurb-inventory-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza atomicidad del ledger y las reservas: o se confirma todo o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		resRepo repository.ReservationRepository,
	) error) error
}
