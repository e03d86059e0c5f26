package repository

import (
	"context"

	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
)

// MovementRepository puerto del ledger de movimientos. Solo permite anexar y leer:
// no existe Update ni Delete.
type MovementRepository interface {
	// LockAsset serializa a los escritores del activo hasta el fin de la transacción.
	// Debe llamarse antes de leer la posición que se va a anexar.
	LockAsset(ctx context.Context, assetID string) error
	// Append persiste el movimiento y le asigna ID (si falta), Sequence y CreatedAt.
	Append(ctx context.Context, movement *entity.Movement) error
	// ListByAsset devuelve el historial completo del activo, del más antiguo al más reciente.
	ListByAsset(ctx context.Context, assetID string) ([]entity.Movement, error)
	// Latest devuelve el último movimiento del activo o nil si no tiene historial.
	Latest(ctx context.Context, assetID string) (*entity.Movement, error)
}
