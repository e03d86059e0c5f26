package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/refurb-inventory-api/internal/domain"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/repository"
)

var _ repository.RoutingAssignmentRepository = (*RoutingAssignmentRepo)(nil)

// RoutingAssignmentRepo asignaciones pedido → bodega; PRIMARY KEY(order_id).
type RoutingAssignmentRepo struct {
	db Querier
}

// NewRoutingAssignmentRepository construye el adaptador con un pool o una tx.
func NewRoutingAssignmentRepository(db Querier) *RoutingAssignmentRepo {
	return &RoutingAssignmentRepo{db: db}
}

// Create persiste la asignación; domain.ErrDuplicate si el pedido ya tenía una.
func (r *RoutingAssignmentRepo) Create(ctx context.Context, a *entity.RoutingAssignment) error {
	if a.AssignedAt.IsZero() {
		a.AssignedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO routing_assignments (order_id, warehouse_id, assigned_at) VALUES ($1, $2, $3)`,
		a.OrderID, a.WarehouseID, a.AssignedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert routing assignment: %w", err)
	}
	return nil
}

// GetByOrderID devuelve la asignación del pedido o nil.
func (r *RoutingAssignmentRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.RoutingAssignment, error) {
	var a entity.RoutingAssignment
	err := r.db.QueryRow(ctx,
		`SELECT order_id, warehouse_id, assigned_at FROM routing_assignments WHERE order_id = $1`,
		orderID,
	).Scan(&a.OrderID, &a.WarehouseID, &a.AssignedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get routing assignment: %w", err)
	}
	return &a, nil
}
