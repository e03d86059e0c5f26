package entity

import "time"

// RoutingAssignment asignación vinculante pedido → bodega. OrderID es clave única.
type RoutingAssignment struct {
	OrderID     string
	WarehouseID string
	AssignedAt  time.Time
}

// WarehouseScore puntaje calculado por solicitud (no se persiste).
type WarehouseScore struct {
	WarehouseID         string
	WarehouseCode       string
	Country             string
	Score               int
	AvailableAssetCount int
	EstimatedDelayDays  int
	Reasons             []string
}
