package repository

import (
	"context"

	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	// List devuelve las bodegas ordenadas por código; activeOnly filtra las inactivas.
	List(ctx context.Context, activeOnly bool) ([]*entity.Warehouse, error)
	SetActive(ctx context.Context, id string, active bool) error
}
