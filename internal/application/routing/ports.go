package routing

import (
	"context"

	"github.com/jhoicas/refurb-inventory-api/internal/domain/repository"
)

// TxRunner ejecuta la reserva de stock y la asignación del pedido en una sola transacción.
type TxRunner interface {
	RunRouting(ctx context.Context, fn func(
		stockRepo repository.StockLocationRepository,
		assignRepo repository.RoutingAssignmentRepository,
	) error) error
}

// PickingSlipGenerator renderiza la hoja de preparación de un pedido asignado.
type PickingSlipGenerator interface {
	GeneratePickingSlip(slip PickingSlip) ([]byte, error)
}
