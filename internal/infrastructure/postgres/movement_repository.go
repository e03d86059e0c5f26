package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/refurb-inventory-api/internal/domain"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo ledger de movimientos sobre PostgreSQL. seq (BIGSERIAL) define el orden.
type MovementRepo struct {
	db Querier
}

// NewMovementRepository construye el adaptador con un pool o una tx.
func NewMovementRepository(db Querier) *MovementRepo {
	return &MovementRepo{db: db}
}

// LockAsset toma la fila de cabecera del activo dentro de la transacción en curso.
// Un escritor concurrente queda bloqueado hasta el commit del primero y, bajo
// SERIALIZABLE, recibe 40001 en lugar de leer una posición obsoleta; TxRunner
// reintenta con una instantánea nueva. Repetirlo en la misma tx no tiene efecto.
func (r *MovementRepo) LockAsset(ctx context.Context, assetID string) error {
	query := `
		INSERT INTO asset_ledger_heads (asset_id, locked_at)
		VALUES ($1, now())
		ON CONFLICT (asset_id) DO UPDATE SET locked_at = EXCLUDED.locked_at`
	if _, err := r.db.Exec(ctx, query, assetID); err != nil {
		return fmt.Errorf("lock asset movements: %w", err)
	}
	return nil
}

// Append toma el candado del activo antes de insertar: dos escritores del mismo
// activo obtienen secuencias en el orden en que confirman.
func (r *MovementRepo) Append(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if err := r.LockAsset(ctx, m.AssetID); err != nil {
		return err
	}
	query := `
		INSERT INTO asset_movements (id, asset_id, from_location_id, to_location_id, reason, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING seq`
	err := r.db.QueryRow(ctx, query,
		m.ID, m.AssetID, nullString(m.FromLocationID), nullString(m.ToLocationID),
		string(m.Reason), m.ActorID, m.CreatedAt,
	).Scan(&m.Sequence)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert movement: %w", domain.ErrLocationNotFound)
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// ListByAsset devuelve el historial en orden de secuencia.
func (r *MovementRepo) ListByAsset(ctx context.Context, assetID string) ([]entity.Movement, error) {
	query := `
		SELECT seq, id, asset_id, from_location_id, to_location_id, reason, actor_id, created_at
		FROM asset_movements WHERE asset_id = $1 ORDER BY seq ASC`
	rows, err := r.db.Query(ctx, query, assetID)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	list := make([]entity.Movement, 0)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, *m)
	}
	return list, rows.Err()
}

// Latest devuelve el último movimiento del activo o nil.
func (r *MovementRepo) Latest(ctx context.Context, assetID string) (*entity.Movement, error) {
	query := `
		SELECT seq, id, asset_id, from_location_id, to_location_id, reason, actor_id, created_at
		FROM asset_movements WHERE asset_id = $1 ORDER BY seq DESC LIMIT 1`
	m, err := scanMovement(r.db.QueryRow(ctx, query, assetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest movement: %w", err)
	}
	return m, nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var (
		m        entity.Movement
		from, to *string
		reason   string
	)
	if err := row.Scan(&m.Sequence, &m.ID, &m.AssetID, &from, &to, &reason, &m.ActorID, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.FromLocationID = fromNull(from)
	m.ToLocationID = fromNull(to)
	m.Reason = entity.MovementReason(reason)
	return &m, nil
}
