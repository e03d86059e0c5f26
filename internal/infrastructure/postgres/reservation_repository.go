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

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

// ReservationRepo reservas sobre PostgreSQL; UNIQUE(asset_id) arbitra a los escritores concurrentes.
type ReservationRepo struct {
	db Querier
}

// NewReservationRepository construye el adaptador con un pool o una tx.
func NewReservationRepository(db Querier) *ReservationRepo {
	return &ReservationRepo{db: db}
}

// Create inserta la reserva; domain.ErrDuplicate si el activo ya está reservado.
func (r *ReservationRepo) Create(ctx context.Context, res *entity.Reservation) error {
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO reservations (id, asset_id, order_ref, created_at)
		VALUES ($1, $2, $3, $4)`
	if _, err := r.db.Exec(ctx, query, res.ID, res.AssetID, res.OrderRef, res.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert reservation: %w", err)
	}
	return nil
}

// GetByAsset devuelve la reserva del activo o nil.
func (r *ReservationRepo) GetByAsset(ctx context.Context, assetID string) (*entity.Reservation, error) {
	query := `SELECT id, asset_id, order_ref, created_at FROM reservations WHERE asset_id = $1`
	var res entity.Reservation
	err := r.db.QueryRow(ctx, query, assetID).Scan(&res.ID, &res.AssetID, &res.OrderRef, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return &res, nil
}

// DeleteByAsset elimina y devuelve la reserva, o nil si no existía.
func (r *ReservationRepo) DeleteByAsset(ctx context.Context, assetID string) (*entity.Reservation, error) {
	query := `DELETE FROM reservations WHERE asset_id = $1 RETURNING id, asset_id, order_ref, created_at`
	var res entity.Reservation
	err := r.db.QueryRow(ctx, query, assetID).Scan(&res.ID, &res.AssetID, &res.OrderRef, &res.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("delete reservation: %w", err)
	}
	return &res, nil
}
