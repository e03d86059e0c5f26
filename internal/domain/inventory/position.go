package inventory

import "github.com/jhoicas/refurb-inventory-api/internal/domain/entity"

// ProjectPosition deriva la posición actual de un activo a partir de su historial
// (servicio de dominio puro). Gana el movimiento con mayor Sequence; sin movimientos
// la ubicación es desconocida.
func ProjectPosition(assetID string, history []entity.Movement) entity.AssetPosition {
	pos := entity.AssetPosition{AssetID: assetID}
	var latest *entity.Movement
	for i := range history {
		m := &history[i]
		if m.AssetID != assetID {
			continue
		}
		if latest == nil || m.Sequence > latest.Sequence {
			latest = m
		}
	}
	if latest != nil {
		pos.LocationID = latest.ToLocationID
		pos.Since = latest.CreatedAt
	}
	return pos
}
