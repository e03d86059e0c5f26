package routing_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/refurb-inventory-api/internal/application/routing"
	"github.com/jhoicas/refurb-inventory-api/internal/domain"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
	"github.com/jhoicas/refurb-inventory-api/internal/infrastructure/memory"
	"github.com/jhoicas/refurb-inventory-api/internal/infrastructure/redislock"
)

// fakeWMS estado de preparación por pedido; failing simula un WMS caído.
type fakeWMS struct {
	mu      sync.Mutex
	started map[string]bool
	failing bool
}

func (f *fakeWMS) HasStarted(_ context.Context, orderID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return false, &domain.UpstreamError{Collaborator: "wms-service", Err: context.DeadlineExceeded}
	}
	return f.started[orderID], nil
}

func (f *fakeWMS) start(orderID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started[orderID] = true
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []entity.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, evt entity.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

// fakeSlips devuelve la hoja recibida para inspeccionarla.
type fakeSlips struct {
	last routing.PickingSlip
}

func (g *fakeSlips) GeneratePickingSlip(slip routing.PickingSlip) ([]byte, error) {
	g.last = slip
	return []byte("%PDF-fake"), nil
}

type fixture struct {
	store     *memory.Store
	wms       *fakeWMS
	publisher *recordingPublisher
	slips     *fakeSlips
	scoring   *routing.ScoringUseCase
	router    *routing.RouterUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		store:     store,
		wms:       &fakeWMS{started: map[string]bool{}},
		publisher: &recordingPublisher{},
		slips:     &fakeSlips{},
	}
	f.scoring = routing.NewScoringUseCase(store.Warehouses(), store.Stock(), nil)
	f.router = routing.NewRouterUseCase(
		store, f.scoring, store.Assignments(), store.Stock(), store.Warehouses(),
		f.wms, redislock.NewLocal(), f.slips, f.publisher, nil, zerolog.Nop(),
	)
	return f
}

func (f *fixture) warehouse(t *testing.T, id, code, country string) {
	t.Helper()
	require.NoError(t, f.store.Warehouses().Create(context.Background(), &entity.Warehouse{
		ID: id, Code: code, Name: "Bodega " + code, Country: country, Active: true,
	}))
}

func (f *fixture) stock(t *testing.T, warehouseID string, assetIDs ...string) {
	t.Helper()
	for _, assetID := range assetIDs {
		require.NoError(t, f.store.Stock().Create(context.Background(), &entity.StockLocationEntry{
			AssetID: assetID, WarehouseID: warehouseID,
		}))
	}
}
