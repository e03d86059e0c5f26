package entity

import "time"

// Tipos de eventos de dominio emitidos por el motor de inventario y el router.
const (
	EventAssetMoved               = "AssetMoved"
	EventAssetReserved            = "AssetReserved"
	EventAssetReservationReleased = "AssetReservationReleased"
	EventWarehouseAssigned        = "WarehouseAssigned"
	EventAssetReservedAtWarehouse = "AssetReservedAtWarehouse"
	EventRoutingFailed            = "RoutingFailed"
)

// DomainEvent payload con marca de tiempo; AggregateID se usa como clave de partición.
type DomainEvent struct {
	ID          string
	Type        string
	AggregateID string
	OccurredAt  time.Time
	Payload     map[string]any
}
