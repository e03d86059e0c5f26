package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/refurb-inventory-api/internal/application/ports"
	"github.com/jhoicas/refurb-inventory-api/internal/domain"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/inventory"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/repository"
)

var tracer = otel.Tracer("github.com/jhoicas/refurb-inventory-api/internal/application/inventory")

// LedgerUseCase registra movimientos de activos serializados en el ledger (solo anexar)
// y deriva su posición actual del historial.
type LedgerUseCase struct {
	txRunner  TxRunner
	movRepo   repository.MovementRepository
	locRepo   repository.LocationRepository
	publisher ports.EventPublisher
	metrics   ports.Metrics
	logger    zerolog.Logger
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	movRepo repository.MovementRepository,
	locRepo repository.LocationRepository,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	logger zerolog.Logger,
) *LedgerUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &LedgerUseCase{
		txRunner:  txRunner,
		movRepo:   movRepo,
		locRepo:   locRepo,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger.With().Str("component", "ledger").Logger(),
	}
}

// MoveAssetInput entrada de MoveAsset. FromLocationID vacío se completa con la posición actual.
type MoveAssetInput struct {
	AssetID        string
	FromLocationID string
	ToLocationID   string
	Reason         entity.MovementReason
	ActorID        string
}

// MoveAsset valida la entrada antes de mutar nada y anexa el movimiento en una transacción.
func (uc *LedgerUseCase) MoveAsset(ctx context.Context, in MoveAssetInput) (mov *entity.Movement, err error) {
	ctx, span := tracer.Start(ctx, "ledger.move_asset")
	defer func() {
		endSpan(span, err)
		uc.metrics.RecordOperation("move_asset", outcome(err))
	}()

	in.AssetID = strings.TrimSpace(in.AssetID)
	in.FromLocationID = strings.TrimSpace(in.FromLocationID)
	in.ToLocationID = strings.TrimSpace(in.ToLocationID)
	span.SetAttributes(attribute.String("asset.id", in.AssetID))

	if in.AssetID == "" {
		return nil, &domain.ValidationError{Field: "asset_id", Reason: "obligatorio"}
	}
	if in.ToLocationID == "" {
		return nil, domain.ErrMissingDestination
	}
	if in.Reason == "" {
		in.Reason = entity.MovementMove
	}
	if !in.Reason.Valid() {
		return nil, &domain.ValidationError{Field: "reason", Reason: "motivo desconocido: " + string(in.Reason)}
	}
	if err := uc.ensureLocation(ctx, in.ToLocationID); err != nil {
		return nil, err
	}
	if in.FromLocationID != "" {
		if err := uc.ensureLocation(ctx, in.FromLocationID); err != nil {
			return nil, err
		}
	}

	mov = &entity.Movement{
		ID:             uuid.New().String(),
		AssetID:        in.AssetID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Reason:         in.Reason,
		ActorID:        in.ActorID,
	}
	err = uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, _ repository.ReservationRepository) error {
		if err := movRepo.LockAsset(ctx, mov.AssetID); err != nil {
			return err
		}
		if mov.FromLocationID == "" {
			latest, err := movRepo.Latest(ctx, mov.AssetID)
			if err != nil {
				return err
			}
			if latest != nil {
				mov.FromLocationID = latest.ToLocationID
			}
		}
		return movRepo.Append(ctx, mov)
	})
	if err != nil {
		uc.logger.Error().Err(err).Str("asset_id", in.AssetID).Msg("no se pudo registrar el movimiento")
		return nil, err
	}

	ports.Emit(ctx, uc.publisher, uc.logger, entity.EventAssetMoved, mov.AssetID, movementPayload(mov))
	return mov, nil
}

// History devuelve el historial del activo, del más antiguo al más reciente.
func (uc *LedgerUseCase) History(ctx context.Context, assetID string) ([]entity.Movement, error) {
	assetID = strings.TrimSpace(assetID)
	if assetID == "" {
		return nil, &domain.ValidationError{Field: "asset_id", Reason: "obligatorio"}
	}
	return uc.movRepo.ListByAsset(ctx, assetID)
}

// CurrentPosition recalcula la posición desde el historial; nunca se guarda aparte.
func (uc *LedgerUseCase) CurrentPosition(ctx context.Context, assetID string) (entity.AssetPosition, error) {
	assetID = strings.TrimSpace(assetID)
	if assetID == "" {
		return entity.AssetPosition{}, &domain.ValidationError{Field: "asset_id", Reason: "obligatorio"}
	}
	history, err := uc.movRepo.ListByAsset(ctx, assetID)
	if err != nil {
		return entity.AssetPosition{AssetID: assetID}, err
	}
	pos := inventory.ProjectPosition(assetID, history)
	if pos.Known() {
		loc, err := uc.locRepo.GetByID(ctx, pos.LocationID)
		if err != nil {
			return pos, err
		}
		if loc != nil {
			pos.LocationCode = loc.Code
		}
	}
	return pos, nil
}

func (uc *LedgerUseCase) ensureLocation(ctx context.Context, id string) error {
	loc, err := uc.locRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if loc == nil {
		return &domain.LocationNotFoundError{LocationID: id}
	}
	return nil
}

func movementPayload(m *entity.Movement) map[string]any {
	return map[string]any{
		"movementId":   m.ID,
		"sequence":     m.Sequence,
		"assetId":      m.AssetID,
		"fromLocation": nullable(m.FromLocationID),
		"toLocation":   nullable(m.ToLocationID),
		"reason":       string(m.Reason),
		"createdAt":    m.CreatedAt.Format(time.RFC3339Nano),
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return domain.Kind(err)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, domain.Kind(err))
	}
	span.End()
}
