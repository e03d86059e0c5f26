package dto

import "time"

// AssignOrderRequest body para POST /api/routing/assignments.
type AssignOrderRequest struct {
	OrderID         string   `json:"order_id" validate:"required,max=100"`
	CustomerCountry string   `json:"customer_country" validate:"required,min=2,max=3"`
	AssetIDs        []string `json:"asset_ids" validate:"required,min=1,max=500,dive,required"`
}

// ScoreRequest body para POST /api/routing/scores (vista previa, sin efectos).
type ScoreRequest struct {
	CustomerCountry string   `json:"customer_country" validate:"required,min=2,max=3"`
	AssetIDs        []string `json:"asset_ids" validate:"required,min=1,max=500,dive,required"`
}

// WarehouseScoreResponse puntaje de una bodega candidata.
type WarehouseScoreResponse struct {
	WarehouseID         string   `json:"warehouse_id"`
	WarehouseCode       string   `json:"warehouse_code"`
	Country             string   `json:"country"`
	Score               int      `json:"score"`
	AvailableAssetCount int      `json:"available_asset_count"`
	EstimatedDelayDays  int      `json:"estimated_delay_days"`
	Reasons             []string `json:"reasons"`
}

// ScoreResponse ranking ordenado (puntaje desc, código asc).
type ScoreResponse struct {
	RequiredAssets int                      `json:"required_assets"`
	Items          []WarehouseScoreResponse `json:"items"`
}

// RoutingResult resultado de asignar un pedido a una bodega.
// Reused indica que se devolvió una asignación previa sin volver a puntuar.
type RoutingResult struct {
	OrderID            string                  `json:"order_id"`
	WarehouseID        string                  `json:"warehouse_id"`
	WarehouseCode      string                  `json:"warehouse_code"`
	Country            string                  `json:"country"`
	EstimatedDelayDays int                     `json:"estimated_delay_days"`
	AssignedAt         time.Time               `json:"assigned_at"`
	Reused             bool                    `json:"reused"`
	AssetIDs           []string                `json:"asset_ids,omitempty"`
	Score              *WarehouseScoreResponse `json:"score,omitempty"`
}

// AssignmentResponse asignación persistida (GET /api/routing/assignments/:orderId).
type AssignmentResponse struct {
	OrderID     string    `json:"order_id"`
	WarehouseID string    `json:"warehouse_id"`
	AssignedAt  time.Time `json:"assigned_at"`
	AssetIDs    []string  `json:"asset_ids"`
}
