package routing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jhoicas/refurb-inventory-api/internal/application/dto"
	"github.com/jhoicas/refurb-inventory-api/internal/application/ports"
	"github.com/jhoicas/refurb-inventory-api/internal/domain"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/repository"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/routing"
)

// RouterUseCase asigna cada pedido a una única bodega: sin envíos parciales y sin
// reasignación una vez que el WMS comenzó la preparación.
type RouterUseCase struct {
	txRunner      TxRunner
	scoring       *ScoringUseCase
	assignRepo    repository.RoutingAssignmentRepository
	stockRepo     repository.StockLocationRepository
	warehouseRepo repository.WarehouseRepository
	fulfillment   ports.FulfillmentStatusProvider
	locker        ports.OrderLocker
	slips         PickingSlipGenerator
	publisher     ports.EventPublisher
	metrics       ports.Metrics
	logger        zerolog.Logger
}

// NewRouterUseCase construye el caso de uso.
func NewRouterUseCase(
	txRunner TxRunner,
	scoring *ScoringUseCase,
	assignRepo repository.RoutingAssignmentRepository,
	stockRepo repository.StockLocationRepository,
	warehouseRepo repository.WarehouseRepository,
	fulfillment ports.FulfillmentStatusProvider,
	locker ports.OrderLocker,
	slips PickingSlipGenerator,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	logger zerolog.Logger,
) *RouterUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &RouterUseCase{
		txRunner:      txRunner,
		scoring:       scoring,
		assignRepo:    assignRepo,
		stockRepo:     stockRepo,
		warehouseRepo: warehouseRepo,
		fulfillment:   fulfillment,
		locker:        locker,
		slips:         slips,
		publisher:     publisher,
		metrics:       metrics,
		logger:        logger.With().Str("component", "router").Logger(),
	}
}

// AssignOrderInput entrada de AssignOrder.
type AssignOrderInput struct {
	OrderID         string
	CustomerCountry string
	AssetIDs        []string
}

// AssignOrder decide la bodega del pedido y reserva su stock.
// Reintentos con los mismos argumentos devuelven la asignación existente (Reused=true)
// sin volver a puntuar ni tocar el stock.
func (uc *RouterUseCase) AssignOrder(ctx context.Context, in AssignOrderInput) (result *dto.RoutingResult, err error) {
	ctx, span := tracer.Start(ctx, "routing.assign_order")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, domain.Kind(err))
		}
		span.End()
		uc.metrics.RecordOperation("assign_order", outcome(err))
	}()

	orderID := strings.TrimSpace(in.OrderID)
	if orderID == "" {
		return nil, &domain.ValidationError{Field: "order_id", Reason: "obligatorio"}
	}
	country, err := routing.NormalizeCountry("customer_country", in.CustomerCountry)
	if err != nil {
		return nil, err
	}
	required := routing.UniqueIDs(in.AssetIDs)
	if len(required) == 0 {
		return nil, &domain.ValidationError{Field: "asset_ids", Reason: "al menos un activo"}
	}
	span.SetAttributes(attribute.String("order.id", orderID), attribute.String("customer.country", country))
	log := uc.logger.With().Str("order_id", orderID).Logger()

	unlock, err := uc.locker.Lock(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	started, err := uc.fulfillment.HasStarted(ctx, orderID)
	if err != nil {
		log.Warn().Err(err).Msg("wms no disponible, ruteo denegado")
		return nil, err
	}
	if started {
		return nil, &domain.FulfillmentAlreadyStartedError{OrderID: orderID}
	}

	existing, err := uc.assignRepo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		span.SetAttributes(attribute.Bool("routing.reused", true))
		return uc.reused(ctx, existing, country)
	}

	scores, _, err := uc.scoring.Score(ctx, required, country)
	if err != nil {
		return nil, err
	}
	survivors := routing.FullStock(scores, len(required))
	if len(survivors) == 0 {
		nwErr := &domain.NoWarehouseAvailableError{OrderID: orderID, Required: len(required)}
		log.Info().Int("required", len(required)).Int("candidates", len(scores)).Msg("ninguna bodega con stock completo")
		ports.Emit(ctx, uc.publisher, uc.logger, entity.EventRoutingFailed, orderID, map[string]any{
			"orderId":        orderID,
			"reason":         domain.KindNoWarehouseAvailable,
			"requiredAssets": len(required),
			"detail":         nwErr.Error(),
		})
		return nil, nwErr
	}
	winner := survivors[0]

	assignment := &entity.RoutingAssignment{
		OrderID:     orderID,
		WarehouseID: winner.WarehouseID,
		AssignedAt:  time.Now().UTC(),
	}
	err = uc.txRunner.RunRouting(ctx, func(stockRepo repository.StockLocationRepository, assignRepo repository.RoutingAssignmentRepository) error {
		var lost []string
		for _, assetID := range required {
			ok, err := stockRepo.ClaimAvailable(ctx, assetID, winner.WarehouseID, orderID)
			if err != nil {
				return err
			}
			if !ok {
				lost = append(lost, assetID)
			}
		}
		if len(lost) > 0 {
			return &domain.StockClaimError{OrderID: orderID, WarehouseID: winner.WarehouseID, AssetIDs: lost}
		}
		return assignRepo.Create(ctx, assignment)
	})
	if errors.Is(err, domain.ErrDuplicate) {
		// Otra réplica asignó el pedido entre la lectura y el commit: gana su fila.
		current, getErr := uc.assignRepo.GetByOrderID(ctx, orderID)
		if getErr != nil {
			return nil, getErr
		}
		if current == nil {
			return nil, err
		}
		return uc.reused(ctx, current, country)
	}
	var claimErr *domain.StockClaimError
	if errors.As(err, &claimErr) {
		log.Warn().Strs("lost_assets", claimErr.AssetIDs).Str("warehouse_id", winner.WarehouseID).Msg("stock tomado por otro pedido")
		ports.Emit(ctx, uc.publisher, uc.logger, entity.EventRoutingFailed, orderID, map[string]any{
			"orderId":     orderID,
			"reason":      domain.KindStockClaimFailed,
			"warehouseId": winner.WarehouseID,
			"assetIds":    claimErr.AssetIDs,
		})
		return nil, err
	}
	if err != nil {
		log.Error().Err(err).Msg("no se pudo confirmar la asignación")
		return nil, err
	}

	for _, assetID := range required {
		ports.Emit(ctx, uc.publisher, uc.logger, entity.EventAssetReservedAtWarehouse, assetID, map[string]any{
			"assetId":     assetID,
			"warehouseId": winner.WarehouseID,
			"orderId":     orderID,
		})
	}
	ports.Emit(ctx, uc.publisher, uc.logger, entity.EventWarehouseAssigned, orderID, map[string]any{
		"orderId":            orderID,
		"warehouseId":        winner.WarehouseID,
		"warehouseCode":      winner.WarehouseCode,
		"score":              winner.Score,
		"estimatedDelayDays": winner.EstimatedDelayDays,
		"reasons":            winner.Reasons,
	})
	log.Info().Str("warehouse_id", winner.WarehouseID).Int("score", winner.Score).Msg("pedido asignado")

	ws := toScoreResponse(winner)
	return &dto.RoutingResult{
		OrderID:            orderID,
		WarehouseID:        winner.WarehouseID,
		WarehouseCode:      winner.WarehouseCode,
		Country:            winner.Country,
		EstimatedDelayDays: winner.EstimatedDelayDays,
		AssignedAt:         assignment.AssignedAt,
		AssetIDs:           required,
		Score:              &ws,
	}, nil
}

// GetAssignment devuelve la asignación del pedido con sus activos reservados, o nil.
func (uc *RouterUseCase) GetAssignment(ctx context.Context, orderID string) (*dto.AssignmentResponse, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, &domain.ValidationError{Field: "order_id", Reason: "obligatorio"}
	}
	a, err := uc.assignRepo.GetByOrderID(ctx, orderID)
	if err != nil || a == nil {
		return nil, err
	}
	assets, err := uc.assetsOf(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &dto.AssignmentResponse{
		OrderID:     a.OrderID,
		WarehouseID: a.WarehouseID,
		AssignedAt:  a.AssignedAt,
		AssetIDs:    assets,
	}, nil
}

// Preview devuelve el ranking sin efectos (POST /api/routing/scores).
func (uc *RouterUseCase) Preview(ctx context.Context, assetIDs []string, customerCountry string) (*dto.ScoreResponse, error) {
	scores, required, err := uc.scoring.Score(ctx, assetIDs, customerCountry)
	if err != nil {
		return nil, err
	}
	out := &dto.ScoreResponse{RequiredAssets: len(required), Items: make([]dto.WarehouseScoreResponse, 0, len(scores))}
	for _, s := range scores {
		out.Items = append(out.Items, toScoreResponse(s))
	}
	return out, nil
}

// reused reconstruye el resultado de una asignación existente; el plazo se recalcula
// con las tablas actuales, sin puntuar ni reservar stock.
func (uc *RouterUseCase) reused(ctx context.Context, a *entity.RoutingAssignment, country string) (*dto.RoutingResult, error) {
	wh, err := uc.warehouseRepo.GetByID(ctx, a.WarehouseID)
	if err != nil {
		return nil, err
	}
	assets, err := uc.assetsOf(ctx, a.OrderID)
	if err != nil {
		return nil, err
	}
	out := &dto.RoutingResult{
		OrderID:     a.OrderID,
		WarehouseID: a.WarehouseID,
		AssignedAt:  a.AssignedAt,
		Reused:      true,
		AssetIDs:    assets,
	}
	if wh != nil {
		out.WarehouseCode = wh.Code
		out.Country = wh.Country
		out.EstimatedDelayDays = uc.scoring.Delays().Estimate(wh.Country, country)
	}
	return out, nil
}

func (uc *RouterUseCase) assetsOf(ctx context.Context, orderID string) ([]string, error) {
	entries, err := uc.stockRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.AssetID)
	}
	return ids, nil
}

func toScoreResponse(s entity.WarehouseScore) dto.WarehouseScoreResponse {
	return dto.WarehouseScoreResponse{
		WarehouseID:         s.WarehouseID,
		WarehouseCode:       s.WarehouseCode,
		Country:             s.Country,
		Score:               s.Score,
		AvailableAssetCount: s.AvailableAssetCount,
		EstimatedDelayDays:  s.EstimatedDelayDays,
		Reasons:             s.Reasons,
	}
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return domain.Kind(err)
}
