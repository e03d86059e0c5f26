package ports

import "context"

// AssetStatusProvider define el puerto de salida hacia asset-service (solo lectura).
// Un activo desconocido devuelve domain.ErrNotFound; un fallo de red, timeout o 5xx
// devuelve *domain.UpstreamError. El contexto debe llevar un timeout.
type AssetStatusProvider interface {
	GetStatus(ctx context.Context, assetID string) (string, error)
}

// FulfillmentStatusProvider define el puerto de salida hacia el WMS.
// HasStarted indica si la preparación física del pedido ya comenzó.
type FulfillmentStatusProvider interface {
	HasStarted(ctx context.Context, orderID string) (bool, error)
}

// SellablePolicy predicado único sobre el vocabulario de estados de asset-service.
type SellablePolicy interface {
	IsSellable(status string) bool
}
