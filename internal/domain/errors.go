package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrTxConflict   = errors.New("conflicto de serialización")

	ErrMissingDestination        = errors.New("la ubicación destino es obligatoria")
	ErrLocationNotFound          = errors.New("ubicación no encontrada")
	ErrAssetNotSellable          = errors.New("el activo no es vendible")
	ErrAssetAlreadyReserved      = errors.New("el activo ya está reservado")
	ErrAssetNotReserved          = errors.New("el activo no tiene reserva activa")
	ErrFulfillmentAlreadyStarted = errors.New("la preparación del pedido ya comenzó")
	ErrNoWarehouseAvailable      = errors.New("ninguna bodega tiene el stock completo")
	ErrStockClaimFailed          = errors.New("no se pudo reservar el stock en la bodega")
	ErrUpstream                  = errors.New("servicio colaborador no disponible")
)

// Códigos estables expuestos a los clientes (ErrorResponse.Code).
const (
	KindValidation                = "VALIDATION"
	KindNotFound                  = "NOT_FOUND"
	KindConflict                  = "CONFLICT"
	KindUnauthorized              = "UNAUTHORIZED"
	KindMissingDestination        = "MISSING_DESTINATION"
	KindLocationNotFound          = "LOCATION_NOT_FOUND"
	KindAssetNotSellable          = "ASSET_NOT_SELLABLE"
	KindAssetAlreadyReserved      = "ASSET_ALREADY_RESERVED"
	KindAssetNotReserved          = "ASSET_NOT_RESERVED"
	KindFulfillmentAlreadyStarted = "FULFILLMENT_ALREADY_STARTED"
	KindNoWarehouseAvailable      = "NO_WAREHOUSE_AVAILABLE"
	KindStockClaimFailed          = "STOCK_CLAIM_FAILED"
	KindUpstream                  = "UPSTREAM_UNAVAILABLE"
	KindInternal                  = "INTERNAL"
)

// kinds se recorre en orden: los errores específicos antes que los genéricos.
var kinds = []struct {
	err  error
	kind string
}{
	{ErrMissingDestination, KindMissingDestination},
	{ErrLocationNotFound, KindLocationNotFound},
	{ErrAssetNotSellable, KindAssetNotSellable},
	{ErrAssetAlreadyReserved, KindAssetAlreadyReserved},
	{ErrAssetNotReserved, KindAssetNotReserved},
	{ErrFulfillmentAlreadyStarted, KindFulfillmentAlreadyStarted},
	{ErrNoWarehouseAvailable, KindNoWarehouseAvailable},
	{ErrStockClaimFailed, KindStockClaimFailed},
	{ErrUpstream, KindUpstream},
	{ErrInvalidInput, KindValidation},
	{ErrNotFound, KindNotFound},
	{ErrDuplicate, KindConflict},
	{ErrConflict, KindConflict},
	{ErrTxConflict, KindConflict},
	{ErrUnauthorized, KindUnauthorized},
}

// Kind devuelve el código estable de err, o KindInternal si no es un error de dominio.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// ValidationError describe un campo inválido; se compara como ErrInvalidInput.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// LocationNotFoundError indica que una ubicación nombrada en un movimiento no existe.
type LocationNotFoundError struct {
	LocationID string
}

func (e *LocationNotFoundError) Error() string {
	return fmt.Sprintf("ubicación %s no encontrada", e.LocationID)
}

func (e *LocationNotFoundError) Unwrap() error { return ErrLocationNotFound }

// AssetNotSellableError incluye el estado real reportado por asset-service.
type AssetNotSellableError struct {
	AssetID string
	Status  string
}

func (e *AssetNotSellableError) Error() string {
	return fmt.Sprintf("activo %s no vendible (estado: %s)", e.AssetID, e.Status)
}

func (e *AssetNotSellableError) Unwrap() error { return ErrAssetNotSellable }

// AssetAlreadyReservedError incluye el pedido que bloquea el activo.
type AssetAlreadyReservedError struct {
	AssetID  string
	OrderRef string
}

func (e *AssetAlreadyReservedError) Error() string {
	return fmt.Sprintf("activo %s ya reservado para el pedido %s", e.AssetID, e.OrderRef)
}

func (e *AssetAlreadyReservedError) Unwrap() error { return ErrAssetAlreadyReserved }

// AssetNotReservedError se devuelve al liberar un activo sin reserva.
type AssetNotReservedError struct {
	AssetID string
}

func (e *AssetNotReservedError) Error() string {
	return fmt.Sprintf("activo %s sin reserva activa", e.AssetID)
}

func (e *AssetNotReservedError) Unwrap() error { return ErrAssetNotReserved }

// FulfillmentAlreadyStartedError: la asignación del pedido ya es irrevocable.
type FulfillmentAlreadyStartedError struct {
	OrderID string
}

func (e *FulfillmentAlreadyStartedError) Error() string {
	return fmt.Sprintf("pedido %s: la preparación en bodega ya comenzó, no se puede reasignar", e.OrderID)
}

func (e *FulfillmentAlreadyStartedError) Unwrap() error { return ErrFulfillmentAlreadyStarted }

// NoWarehouseAvailableError: ninguna bodega activa tiene todos los activos del pedido.
type NoWarehouseAvailableError struct {
	OrderID  string
	Required int
}

func (e *NoWarehouseAvailableError) Error() string {
	return fmt.Sprintf("pedido %s: ninguna bodega tiene los %d activos disponibles (sin envíos parciales)", e.OrderID, e.Required)
}

func (e *NoWarehouseAvailableError) Unwrap() error { return ErrNoWarehouseAvailable }

// StockClaimError: otro pedido tomó alguno de los activos entre el cálculo y la reserva.
type StockClaimError struct {
	OrderID     string
	WarehouseID string
	AssetIDs    []string
}

func (e *StockClaimError) Error() string {
	return fmt.Sprintf("pedido %s: activos ya no disponibles en bodega %s: %s",
		e.OrderID, e.WarehouseID, strings.Join(e.AssetIDs, ", "))
}

func (e *StockClaimError) Unwrap() error { return ErrStockClaimFailed }

// UpstreamError envuelve fallos (timeout, 5xx, red) de un servicio colaborador.
type UpstreamError struct {
	Collaborator string
	Err          error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Collaborator, e.Err)
}

// Is permite errors.Is(err, ErrUpstream) sin perder la causa original en Unwrap.
func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

func (e *UpstreamError) Unwrap() error { return e.Err }
