package routing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/refurb-inventory-api/internal/domain"
)

// PickingSlip datos de la hoja de preparación de un pedido asignado.
type PickingSlip struct {
	OrderID       string
	WarehouseID   string
	WarehouseCode string
	WarehouseName string
	Country       string
	AssignedAt    time.Time
	GeneratedAt   time.Time
	AssetIDs      []string
}

// PickingSlip genera el PDF de preparación del pedido; domain.ErrNotFound si no está asignado.
func (uc *RouterUseCase) PickingSlip(ctx context.Context, orderID string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "routing.picking_slip")
	defer span.End()

	orderID = strings.TrimSpace(orderID)
	if uc.slips == nil {
		return nil, fmt.Errorf("picking slip: generador no configurado")
	}
	a, err := uc.GetAssignment(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("pedido %s sin asignación: %w", orderID, domain.ErrNotFound)
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, a.WarehouseID)
	if err != nil {
		return nil, err
	}
	slip := PickingSlip{
		OrderID:     a.OrderID,
		WarehouseID: a.WarehouseID,
		AssignedAt:  a.AssignedAt,
		GeneratedAt: time.Now().UTC(),
		AssetIDs:    a.AssetIDs,
	}
	if wh != nil {
		slip.WarehouseCode = wh.Code
		slip.WarehouseName = wh.Name
		slip.Country = wh.Country
	}
	return uc.slips.GeneratePickingSlip(slip)
}
