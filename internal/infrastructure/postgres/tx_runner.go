package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/refurb-inventory-api/internal/application/inventory"
	"github.com/jhoicas/refurb-inventory-api/internal/application/routing"
	"github.com/jhoicas/refurb-inventory-api/internal/domain"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and routing.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ routing.TxRunner = (*TxRunner)(nil)

// maxTxAttempts intentos ante fallos de serialización antes de devolver domain.ErrTxConflict.
const maxTxAttempts = 5

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL SERIALIZABLE.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	resRepo repository.ReservationRepository,
) error) error {
	return r.serializable(ctx, func(tx pgx.Tx) error {
		return fn(NewMovementRepository(tx), NewReservationRepository(tx))
	})
}

// RunRouting inicia una transacción con los repos de stock y asignaciones (para AssignOrder).
func (r *TxRunner) RunRouting(ctx context.Context, fn func(
	stockRepo repository.StockLocationRepository,
	assignRepo repository.RoutingAssignmentRepository,
) error) error {
	return r.serializable(ctx, func(tx pgx.Tx) error {
		return fn(NewStockLocationRepository(tx), NewRoutingAssignmentRepository(tx))
	})
}

// serializable repite la transacción completa ante 40001/40P01 con espera creciente.
func (r *TxRunner) serializable(ctx context.Context, body func(tx pgx.Tx) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err := r.once(ctx, body)
		if err == nil || !isRetryable(err) {
			return err
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt*attempt) * 5 * time.Millisecond):
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrTxConflict, lastErr)
}

func (r *TxRunner) once(ctx context.Context, body func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := body(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isRetryable(err) {
			return err
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
