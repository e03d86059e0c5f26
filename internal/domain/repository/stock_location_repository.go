package repository

import (
	"context"

	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
)

// StockLocationRepository puerto del stock por bodega usado por el router.
type StockLocationRepository interface {
	// Create registra el activo en la bodega; domain.ErrDuplicate si ya existe la pareja.
	Create(ctx context.Context, entry *entity.StockLocationEntry) error
	// ListAvailable devuelve las entradas AVAILABLE de los activos indicados, en cualquier bodega.
	ListAvailable(ctx context.Context, assetIDs []string) ([]entity.StockLocationEntry, error)
	// ClaimAvailable pasa la entrada de AVAILABLE a RESERVED solo si sigue AVAILABLE.
	// Devuelve false si otro pedido la tomó antes (actualización condicional).
	ClaimAvailable(ctx context.Context, assetID, warehouseID, orderID string) (bool, error)
	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]entity.StockLocationEntry, error)
	ListByOrder(ctx context.Context, orderID string) ([]entity.StockLocationEntry, error)
}
