package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/refurb-inventory-api/internal/application/dto"
	"github.com/jhoicas/refurb-inventory-api/internal/application/ports"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/repository"
)

// Motivos de indisponibilidad expuestos en AvailabilityResponse.Reason.
const (
	ReasonStatusUnknown = "not found or service unavailable"
	ReasonNoLocation    = "no known location"
	ReasonStorage       = "inventory storage unavailable"
)

// AvailabilityUseCase combina estado, reserva y posición en un único veredicto.
type AvailabilityUseCase struct {
	assets  ports.AssetStatusProvider
	policy  ports.SellablePolicy
	resRepo repository.ReservationRepository
	ledger  *LedgerUseCase
	metrics ports.Metrics
	logger  zerolog.Logger
}

// NewAvailabilityUseCase construye el caso de uso.
func NewAvailabilityUseCase(
	assets ports.AssetStatusProvider,
	policy ports.SellablePolicy,
	resRepo repository.ReservationRepository,
	ledger *LedgerUseCase,
	metrics ports.Metrics,
	logger zerolog.Logger,
) *AvailabilityUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &AvailabilityUseCase{
		assets:  assets,
		policy:  policy,
		resRepo: resRepo,
		ledger:  ledger,
		metrics: metrics,
		logger:  logger.With().Str("component", "availability").Logger(),
	}
}

// Check siempre devuelve un veredicto; la primera condición que falla decide el motivo.
func (uc *AvailabilityUseCase) Check(ctx context.Context, assetID string) dto.AvailabilityResponse {
	ctx, span := tracer.Start(ctx, "availability.check")
	defer span.End()

	assetID = strings.TrimSpace(assetID)
	out := dto.AvailabilityResponse{AssetID: assetID}
	defer func() {
		if out.Available {
			uc.metrics.RecordOperation("check_availability", "available")
		} else {
			uc.metrics.RecordOperation("check_availability", "unavailable")
		}
	}()

	if assetID == "" {
		out.Reason = ReasonStatusUnknown
		return out
	}
	status, err := uc.assets.GetStatus(ctx, assetID)
	if err != nil {
		uc.logger.Warn().Err(err).Str("asset_id", assetID).Msg("estado del activo no disponible")
		out.Reason = ReasonStatusUnknown
		return out
	}
	if !uc.policy.IsSellable(status) {
		out.Reason = fmt.Sprintf("asset status is %q (not sellable)", status)
		return out
	}

	res, err := uc.resRepo.GetByAsset(ctx, assetID)
	if err != nil {
		uc.logger.Error().Err(err).Str("asset_id", assetID).Msg("no se pudo leer la reserva")
		out.Reason = ReasonStorage
		return out
	}
	if res != nil {
		out.Reason = fmt.Sprintf("reserved for order %s", res.OrderRef)
		return out
	}

	pos, err := uc.ledger.CurrentPosition(ctx, assetID)
	if err != nil {
		uc.logger.Error().Err(err).Str("asset_id", assetID).Msg("no se pudo derivar la posición")
		out.Reason = ReasonStorage
		return out
	}
	if !pos.Known() {
		out.Reason = ReasonNoLocation
		return out
	}

	code := pos.LocationCode
	if code == "" {
		code = pos.LocationID
	}
	out.Available = true
	out.Location = &code
	return out
}
