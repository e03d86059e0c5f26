package repository

import (
	"context"

	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
)

// RoutingAssignmentRepository almacén de asignaciones pedido → bodega.
// Create devuelve domain.ErrDuplicate si el pedido ya tiene asignación (clave única order_id).
type RoutingAssignmentRepository interface {
	Create(ctx context.Context, assignment *entity.RoutingAssignment) error
	GetByOrderID(ctx context.Context, orderID string) (*entity.RoutingAssignment, error)
}
