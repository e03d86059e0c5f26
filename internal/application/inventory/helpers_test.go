package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/refurb-inventory-api/internal/application/inventory"
	"github.com/jhoicas/refurb-inventory-api/internal/domain"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
	"github.com/jhoicas/refurb-inventory-api/internal/infrastructure/memory"
)

// fakeAssets asset-service en memoria: id → estado; failing simula un timeout.
type fakeAssets struct {
	mu       sync.Mutex
	statuses map[string]string
	failing  bool
	calls    int
}

func (f *fakeAssets) GetStatus(_ context.Context, assetID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failing {
		return "", &domain.UpstreamError{Collaborator: "asset-service", Err: context.DeadlineExceeded}
	}
	status, ok := f.statuses[assetID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return status, nil
}

// recordingPublisher guarda los eventos publicados.
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

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// recordingMetrics cuenta operaciones por resultado.
type recordingMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func (m *recordingMetrics) RecordOperation(op, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = make(map[string]int)
	}
	m.counts[op+":"+outcome]++
}

type fixture struct {
	store        *memory.Store
	assets       *fakeAssets
	publisher    *recordingPublisher
	metrics      *recordingMetrics
	ledger       *inventory.LedgerUseCase
	reservations *inventory.ReservationUseCase
	availability *inventory.AvailabilityUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{
		store:     store,
		assets:    &fakeAssets{statuses: map[string]string{}},
		publisher: &recordingPublisher{},
		metrics:   &recordingMetrics{},
	}
	policy := inventory.NewSellablePolicy("sellable")
	log := zerolog.Nop()
	f.ledger = inventory.NewLedgerUseCase(store, store.Movements(), store.Locations(), f.publisher, f.metrics, log)
	f.reservations = inventory.NewReservationUseCase(store, store.Reservations(), f.assets, policy, f.publisher, f.metrics, log)
	f.availability = inventory.NewAvailabilityUseCase(f.assets, policy, store.Reservations(), f.ledger, f.metrics, log)
	return f
}

func (f *fixture) location(t *testing.T, id, code string) {
	t.Helper()
	require.NoError(t, f.store.Locations().Create(context.Background(), &entity.Location{ID: id, Code: code}))
}
