package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/refurb-inventory-api/internal/domain"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación del puerto LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	db Querier
}

// NewLocationRepository construye el adaptador de persistencia para ubicaciones.
func NewLocationRepository(db Querier) *LocationRepo {
	return &LocationRepo{db: db}
}

// Create persiste una nueva ubicación.
func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	query := `
		INSERT INTO locations (id, code, name, warehouse_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Exec(ctx, query, l.ID, l.Code, l.Name, nullString(l.WarehouseID), l.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert location: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	query := `SELECT id, code, name, warehouse_id, created_at FROM locations WHERE id = $1`
	var (
		l  entity.Location
		wh *string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(&l.ID, &l.Code, &l.Name, &wh, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	l.WarehouseID = fromNull(wh)
	return &l, nil
}

// ListByWarehouse lista ubicaciones ordenadas por código; warehouseID vacío lista todas.
func (r *LocationRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.Location, error) {
	query := `
		SELECT id, code, name, warehouse_id, created_at FROM locations
		WHERE ($1 = '' OR warehouse_id = $1)
		ORDER BY code LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Location, 0)
	for rows.Next() {
		var (
			l  entity.Location
			wh *string
		)
		if err := rows.Scan(&l.ID, &l.Code, &l.Name, &wh, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		l.WarehouseID = fromNull(wh)
		list = append(list, &l)
	}
	return list, rows.Err()
}
