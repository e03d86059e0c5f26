package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/refurb-inventory-api/internal/application/inventory"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/repository"
)

// callLog registra el orden de las llamadas al ledger dentro de las transacciones.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.calls...)
}

type tracingMovements struct {
	repository.MovementRepository
	log *callLog
}

func (r tracingMovements) LockAsset(ctx context.Context, assetID string) error {
	r.log.add("LockAsset")
	return r.MovementRepository.LockAsset(ctx, assetID)
}

func (r tracingMovements) Latest(ctx context.Context, assetID string) (*entity.Movement, error) {
	r.log.add("Latest")
	return r.MovementRepository.Latest(ctx, assetID)
}

func (r tracingMovements) Append(ctx context.Context, m *entity.Movement) error {
	r.log.add("Append")
	return r.MovementRepository.Append(ctx, m)
}

// tracingRunner envuelve el TxRunner real y entrega un repo de movimientos instrumentado.
type tracingRunner struct {
	inner inventory.TxRunner
	log   *callLog
}

func (r tracingRunner) Run(ctx context.Context, fn func(repository.MovementRepository, repository.ReservationRepository) error) error {
	return r.inner.Run(ctx, func(movRepo repository.MovementRepository, resRepo repository.ReservationRepository) error {
		return fn(tracingMovements{MovementRepository: movRepo, log: r.log}, resRepo)
	})
}

func newTracingFixture(t *testing.T) (*fixture, *callLog) {
	t.Helper()
	f := newFixture(t)
	log := &callLog{}
	runner := tracingRunner{inner: f.store, log: log}
	policy := inventory.NewSellablePolicy("sellable")
	f.ledger = inventory.NewLedgerUseCase(runner, f.store.Movements(), f.store.Locations(), f.publisher, f.metrics, zerolog.Nop())
	f.reservations = inventory.NewReservationUseCase(runner, f.store.Reservations(), f.assets, policy, f.publisher, f.metrics, zerolog.Nop())
	return f, log
}

// ──────────────────────────────────────────────────────────────────────────────
// Candado por activo antes de leer la posición
// ──────────────────────────────────────────────────────────────────────────────

func TestMoveAsset_TomaElCandadoAntesDeLeerLaPosicion(t *testing.T) {
	ctx := context.Background()
	f, log := newTracingFixture(t)
	f.location(t, "loc-a", "A")
	f.location(t, "loc-b", "B")

	_, err := f.ledger.MoveAsset(ctx, inventory.MoveAssetInput{AssetID: "X", ToLocationID: "loc-a"})
	require.NoError(t, err)
	_, err = f.ledger.MoveAsset(ctx, inventory.MoveAssetInput{AssetID: "X", ToLocationID: "loc-b"})
	require.NoError(t, err)

	calls := log.snapshot()
	require.NotEmpty(t, calls)
	assert.Equal(t, "LockAsset", calls[0])
	assertLockedBeforeRead(t, calls)
}

func TestReserveYRelease_TomanElCandadoAntesDeLeerLaPosicion(t *testing.T) {
	ctx := context.Background()
	f, log := newTracingFixture(t)
	f.location(t, "loc-a", "A")
	f.assets.statuses["X"] = "sellable"
	_, err := f.ledger.MoveAsset(ctx, inventory.MoveAssetInput{AssetID: "X", ToLocationID: "loc-a"})
	require.NoError(t, err)

	_, err = f.reservations.Reserve(ctx, "X", "ORDER-1")
	require.NoError(t, err)
	require.NoError(t, f.reservations.Release(ctx, "X"))

	assertLockedBeforeRead(t, log.snapshot())
}

// assertLockedBeforeRead exige que cada Latest tenga un LockAsset previo en la misma tx.
func assertLockedBeforeRead(t *testing.T, calls []string) {
	t.Helper()
	locked := false
	for i, c := range calls {
		switch c {
		case "LockAsset":
			locked = true
		case "Latest":
			assert.True(t, locked, "Latest en la posición %d sin candado previo: %v", i, calls)
		case "Append":
			locked = false
		}
	}
}

// Un movimiento confirmado entre la reserva y su anotación no debe revertirse: la
// anotación sin desplazamiento usa la posición vigente.
func TestReserve_ConMovimientosConcurrentesNoRevierteLaPosicion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.location(t, "loc-a", "A")
	f.location(t, "loc-b", "B")
	f.assets.statuses["X"] = "sellable"
	_, err := f.ledger.MoveAsset(ctx, inventory.MoveAssetInput{AssetID: "X", ToLocationID: "loc-a"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := f.reservations.Reserve(ctx, "X", "ORDER-1")
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := f.ledger.MoveAsset(ctx, inventory.MoveAssetInput{AssetID: "X", FromLocationID: "loc-a", ToLocationID: "loc-b"})
		assert.NoError(t, err)
	}()
	wg.Wait()

	history, err := f.ledger.History(ctx, "X")
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i := 1; i < len(history); i++ {
		if history[i].Reason == entity.MovementReserve {
			assert.Equal(t, history[i-1].ToLocationID, history[i].ToLocationID, "la reserva no desplaza el activo")
		}
	}
	pos, err := f.ledger.CurrentPosition(ctx, "X")
	require.NoError(t, err)
	assert.Equal(t, "loc-b", pos.LocationID)
}
