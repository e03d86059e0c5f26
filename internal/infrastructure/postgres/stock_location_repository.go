package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/refurb-inventory-api/internal/domain"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/repository"
)

var _ repository.StockLocationRepository = (*StockLocationRepo)(nil)

// StockLocationRepo stock por bodega sobre PostgreSQL. UNIQUE(asset_id, warehouse_id).
type StockLocationRepo struct {
	db Querier
}

// NewStockLocationRepository construye el adaptador con un pool o una tx.
func NewStockLocationRepository(db Querier) *StockLocationRepo {
	return &StockLocationRepo{db: db}
}

const stockColumns = `id, asset_id, warehouse_id, status, order_id, updated_at`

// Create registra el activo en la bodega.
func (r *StockLocationRepo) Create(ctx context.Context, e *entity.StockLocationEntry) error {
	if e.Status == "" {
		e.Status = entity.StockAvailable
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO stock_locations (id, asset_id, warehouse_id, status, order_id, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query, e.ID, e.AssetID, e.WarehouseID, string(e.Status), nullString(e.OrderID), e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert stock entry: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("insert stock entry: %w", err)
	}
	return nil
}

// ListAvailable devuelve las entradas AVAILABLE de los activos indicados.
func (r *StockLocationRepo) ListAvailable(ctx context.Context, assetIDs []string) ([]entity.StockLocationEntry, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_locations
		WHERE asset_id = ANY($1) AND status = 'AVAILABLE'
		ORDER BY warehouse_id, asset_id`
	return r.list(ctx, query, assetIDs)
}

// ClaimAvailable actualización condicional AVAILABLE → RESERVED.
func (r *StockLocationRepo) ClaimAvailable(ctx context.Context, assetID, warehouseID, orderID string) (bool, error) {
	cmd, err := r.db.Exec(ctx, `
		UPDATE stock_locations SET status = 'RESERVED', order_id = $3, updated_at = $4
		WHERE asset_id = $1 AND warehouse_id = $2 AND status = 'AVAILABLE'`,
		assetID, warehouseID, orderID, time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("claim stock entry: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// ListByWarehouse lista las entradas de una bodega con paginación.
func (r *StockLocationRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]entity.StockLocationEntry, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_locations
		WHERE warehouse_id = $1 ORDER BY asset_id LIMIT $2 OFFSET $3`
	return r.list(ctx, query, warehouseID, limit, offset)
}

// ListByOrder lista las entradas reservadas para el pedido.
func (r *StockLocationRepo) ListByOrder(ctx context.Context, orderID string) ([]entity.StockLocationEntry, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_locations
		WHERE order_id = $1 ORDER BY warehouse_id, asset_id`
	return r.list(ctx, query, orderID)
}

func (r *StockLocationRepo) list(ctx context.Context, query string, args ...any) ([]entity.StockLocationEntry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock entries: %w", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.StockLocationEntry, error) {
		var (
			e       entity.StockLocationEntry
			status  string
			orderID *string
		)
		err := row.Scan(&e.ID, &e.AssetID, &e.WarehouseID, &status, &orderID, &e.UpdatedAt)
		e.Status = entity.StockStatus(status)
		e.OrderID = fromNull(orderID)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan stock entries: %w", err)
	}
	return entries, nil
}
