package routing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/refurb-inventory-api/internal/domain"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/repository"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/routing"
)

var tracer = otel.Tracer("github.com/jhoicas/refurb-inventory-api/internal/application/routing")

// ScoringUseCase carga la instantánea de bodegas activas y stock AVAILABLE y delega el
// cálculo en el servicio de dominio routing.Score.
type ScoringUseCase struct {
	warehouseRepo repository.WarehouseRepository
	stockRepo     repository.StockLocationRepository
	delays        routing.DelayTable
}

// NewScoringUseCase construye el caso de uso. delays nil usa la tabla por defecto.
func NewScoringUseCase(
	warehouseRepo repository.WarehouseRepository,
	stockRepo repository.StockLocationRepository,
	delays routing.DelayTable,
) *ScoringUseCase {
	if delays == nil {
		delays = routing.DefaultDelays
	}
	return &ScoringUseCase{warehouseRepo: warehouseRepo, stockRepo: stockRepo, delays: delays}
}

// Score devuelve el ranking de bodegas activas para los activos y el país del cliente.
// Los ids se deduplican; el resultado es determinista para una misma instantánea.
func (uc *ScoringUseCase) Score(ctx context.Context, assetIDs []string, customerCountry string) ([]entity.WarehouseScore, []string, error) {
	ctx, span := tracer.Start(ctx, "routing.score")
	defer span.End()

	country, err := routing.NormalizeCountry("customer_country", customerCountry)
	if err != nil {
		return nil, nil, err
	}
	required := routing.UniqueIDs(assetIDs)
	if len(required) == 0 {
		return nil, nil, &domain.ValidationError{Field: "asset_ids", Reason: "al menos un activo"}
	}
	span.SetAttributes(attribute.String("customer.country", country), attribute.Int("order.assets", len(required)))

	warehouses, err := uc.warehouseRepo.List(ctx, true)
	if err != nil {
		return nil, nil, err
	}
	entries, err := uc.stockRepo.ListAvailable(ctx, required)
	if err != nil {
		return nil, nil, err
	}

	available := make(map[string]map[string]struct{})
	for _, e := range entries {
		if e.Status != entity.StockAvailable {
			continue
		}
		if available[e.WarehouseID] == nil {
			available[e.WarehouseID] = make(map[string]struct{})
		}
		available[e.WarehouseID][e.AssetID] = struct{}{}
	}
	list := make([]entity.Warehouse, 0, len(warehouses))
	for _, w := range warehouses {
		list = append(list, *w)
	}

	scores := routing.Score(routing.ScoreInput{
		Warehouses:      list,
		Available:       available,
		AssetIDs:        required,
		CustomerCountry: country,
		Delays:          uc.delays,
	})
	span.SetAttributes(attribute.Int("routing.candidates", len(scores)))
	return scores, required, nil
}

// Delays tabla de plazos usada por el motor.
func (uc *ScoringUseCase) Delays() routing.DelayTable { return uc.delays }
