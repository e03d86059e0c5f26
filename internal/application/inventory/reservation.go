package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/refurb-inventory-api/internal/application/ports"
	"github.com/jhoicas/refurb-inventory-api/internal/domain"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/repository"
)

// ReservationUseCase reserva activos para pedidos: como máximo una reserva activa por activo.
// La exclusión la garantiza el almacenamiento (restricción única dentro de la transacción),
// nunca una comprobación previa.
type ReservationUseCase struct {
	txRunner  TxRunner
	resRepo   repository.ReservationRepository
	assets    ports.AssetStatusProvider
	policy    ports.SellablePolicy
	publisher ports.EventPublisher
	metrics   ports.Metrics
	logger    zerolog.Logger
}

// NewReservationUseCase construye el caso de uso.
func NewReservationUseCase(
	txRunner TxRunner,
	resRepo repository.ReservationRepository,
	assets ports.AssetStatusProvider,
	policy ports.SellablePolicy,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	logger zerolog.Logger,
) *ReservationUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &ReservationUseCase{
		txRunner:  txRunner,
		resRepo:   resRepo,
		assets:    assets,
		policy:    policy,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger.With().Str("component", "reservations").Logger(),
	}
}

// Reserve consulta el estado del activo (fail closed), crea la reserva y anexa un
// movimiento RESERVE sin desplazamiento físico, todo en la misma transacción.
func (uc *ReservationUseCase) Reserve(ctx context.Context, assetID, orderRef string) (res *entity.Reservation, err error) {
	ctx, span := tracer.Start(ctx, "reservations.reserve")
	defer func() {
		endSpan(span, err)
		uc.metrics.RecordOperation("reserve_asset", outcome(err))
	}()

	assetID = strings.TrimSpace(assetID)
	orderRef = strings.TrimSpace(orderRef)
	span.SetAttributes(attribute.String("asset.id", assetID), attribute.String("order.ref", orderRef))
	if assetID == "" {
		return nil, &domain.ValidationError{Field: "asset_id", Reason: "obligatorio"}
	}
	if orderRef == "" {
		return nil, &domain.ValidationError{Field: "order_ref", Reason: "obligatorio"}
	}

	status, err := uc.assets.GetStatus(ctx, assetID)
	if err != nil {
		if errors.Is(err, domain.ErrUpstream) {
			uc.logger.Warn().Err(err).Str("asset_id", assetID).Msg("asset-service no disponible, reserva denegada")
			return nil, err
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("activo %s: %w", assetID, domain.ErrNotFound)
		}
		return nil, err
	}
	if !uc.policy.IsSellable(status) {
		return nil, &domain.AssetNotSellableError{AssetID: assetID, Status: status}
	}

	res = &entity.Reservation{
		ID:       uuid.New().String(),
		AssetID:  assetID,
		OrderRef: orderRef,
	}
	err = uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, resRepo repository.ReservationRepository) error {
		if err := movRepo.LockAsset(ctx, assetID); err != nil {
			return err
		}
		if err := resRepo.Create(ctx, res); err != nil {
			return err
		}
		return appendInPlace(ctx, movRepo, assetID, entity.MovementReserve)
	})
	if errors.Is(err, domain.ErrDuplicate) {
		conflict := &domain.AssetAlreadyReservedError{AssetID: assetID}
		if existing, getErr := uc.resRepo.GetByAsset(ctx, assetID); getErr == nil && existing != nil {
			conflict.OrderRef = existing.OrderRef
		}
		uc.logger.Info().Str("asset_id", assetID).Str("order_ref", orderRef).
			Str("blocking_order_ref", conflict.OrderRef).Msg("reserva rechazada: activo ya reservado")
		return nil, conflict
	}
	if err != nil {
		uc.logger.Error().Err(err).Str("asset_id", assetID).Msg("no se pudo crear la reserva")
		return nil, err
	}

	ports.Emit(ctx, uc.publisher, uc.logger, entity.EventAssetReserved, assetID, map[string]any{
		"reservationId": res.ID,
		"assetId":       assetID,
		"orderRef":      orderRef,
	})
	return res, nil
}

// Release elimina la reserva y anexa un movimiento RELEASE en la misma transacción.
func (uc *ReservationUseCase) Release(ctx context.Context, assetID string) (err error) {
	ctx, span := tracer.Start(ctx, "reservations.release")
	defer func() {
		endSpan(span, err)
		uc.metrics.RecordOperation("release_reservation", outcome(err))
	}()

	assetID = strings.TrimSpace(assetID)
	span.SetAttributes(attribute.String("asset.id", assetID))
	if assetID == "" {
		return &domain.ValidationError{Field: "asset_id", Reason: "obligatorio"}
	}

	var released *entity.Reservation
	err = uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, resRepo repository.ReservationRepository) error {
		if err := movRepo.LockAsset(ctx, assetID); err != nil {
			return err
		}
		deleted, err := resRepo.DeleteByAsset(ctx, assetID)
		if err != nil {
			return err
		}
		if deleted == nil {
			return &domain.AssetNotReservedError{AssetID: assetID}
		}
		released = deleted
		return appendInPlace(ctx, movRepo, assetID, entity.MovementRelease)
	})
	if err != nil {
		return err
	}

	ports.Emit(ctx, uc.publisher, uc.logger, entity.EventAssetReservationReleased, assetID, map[string]any{
		"reservationId": released.ID,
		"assetId":       assetID,
		"orderRef":      released.OrderRef,
	})
	return nil
}

// Get devuelve la reserva activa del activo o nil si no tiene.
func (uc *ReservationUseCase) Get(ctx context.Context, assetID string) (*entity.Reservation, error) {
	assetID = strings.TrimSpace(assetID)
	if assetID == "" {
		return nil, &domain.ValidationError{Field: "asset_id", Reason: "obligatorio"}
	}
	return uc.resRepo.GetByAsset(ctx, assetID)
}

// appendInPlace anexa un movimiento sin desplazamiento (from = to = posición actual).
// Un activo sin historial no tiene ubicación que registrar y se omite. La posición
// se lee con el candado del activo tomado.
func appendInPlace(ctx context.Context, movRepo repository.MovementRepository, assetID string, reason entity.MovementReason) error {
	if err := movRepo.LockAsset(ctx, assetID); err != nil {
		return err
	}
	latest, err := movRepo.Latest(ctx, assetID)
	if err != nil {
		return err
	}
	if latest == nil || latest.ToLocationID == "" {
		return nil
	}
	return movRepo.Append(ctx, &entity.Movement{
		ID:             uuid.New().String(),
		AssetID:        assetID,
		FromLocationID: latest.ToLocationID,
		ToLocationID:   latest.ToLocationID,
		Reason:         reason,
	})
}
