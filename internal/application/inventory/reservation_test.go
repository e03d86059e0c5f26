package inventory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/refurb-inventory-api/internal/application/inventory"
	"github.com/jhoicas/refurb-inventory-api/internal/domain"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Reserve / Release
// ──────────────────────────────────────────────────────────────────────────────

// Reservar, rechazar la segunda reserva, liberar y volver a reservar.
func TestReserve_ExclusivaLiberacionYNuevaReserva(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.assets.statuses["X"] = "sellable"

	res, err := f.reservations.Reserve(ctx, "X", "ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, "ORDER-1", res.OrderRef)

	_, err = f.reservations.Reserve(ctx, "X", "ORDER-2")
	var conflict *domain.AssetAlreadyReservedError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "ORDER-1", conflict.OrderRef)
	assert.Contains(t, err.Error(), "ORDER-1")

	require.NoError(t, f.reservations.Release(ctx, "X"))

	res, err = f.reservations.Reserve(ctx, "X", "ORDER-2")
	require.NoError(t, err)
	assert.Equal(t, "ORDER-2", res.OrderRef)

	assert.Equal(t, []string{
		entity.EventAssetReserved,
		entity.EventAssetReservationReleased,
		entity.EventAssetReserved,
	}, f.publisher.types())
}

func TestReserve_ConcurrenciaSoloUnGanador(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.assets.statuses["X"] = "sellable"

	const k = 25
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.reservations.Reserve(ctx, "X", fmt.Sprintf("ORDER-%d", i))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case assert.ErrorIs(t, err, domain.ErrAssetAlreadyReserved):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, k-1, conflicts)
}

func TestReserve_AnexaMovimientoSinDesplazamiento(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.location(t, "loc-a", "PAR-A-01")
	f.assets.statuses["X"] = "sellable"
	_, err := f.ledger.MoveAsset(ctx, inventory.MoveAssetInput{AssetID: "X", ToLocationID: "loc-a", Reason: entity.MovementIntake})
	require.NoError(t, err)

	_, err = f.reservations.Reserve(ctx, "X", "ORDER-1")
	require.NoError(t, err)
	require.NoError(t, f.reservations.Release(ctx, "X"))

	history, err := f.ledger.History(ctx, "X")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, entity.MovementReserve, history[1].Reason)
	assert.Equal(t, "loc-a", history[1].FromLocationID)
	assert.Equal(t, "loc-a", history[1].ToLocationID)
	assert.Equal(t, entity.MovementRelease, history[2].Reason)

	pos, err := f.ledger.CurrentPosition(ctx, "X")
	require.NoError(t, err)
	assert.Equal(t, "loc-a", pos.LocationID, "reservar no cambia la posición")
}

func TestReserve_EstadoNoVendible(t *testing.T) {
	f := newFixture(t)
	f.assets.statuses["X"] = "in_repair"

	_, err := f.reservations.Reserve(context.Background(), "X", "ORDER-1")
	var notSellable *domain.AssetNotSellableError
	require.ErrorAs(t, err, &notSellable)
	assert.Equal(t, "in_repair", notSellable.Status)

	res, err := f.reservations.Get(context.Background(), "X")
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestReserve_AssetServiceCaidoFallaCerrado(t *testing.T) {
	f := newFixture(t)
	f.assets.statuses["X"] = "sellable"
	f.assets.failing = true

	_, err := f.reservations.Reserve(context.Background(), "X", "ORDER-1")
	require.ErrorIs(t, err, domain.ErrUpstream)
	assert.Equal(t, domain.KindUpstream, domain.Kind(err))

	res, err := f.reservations.Get(context.Background(), "X")
	require.NoError(t, err)
	assert.Nil(t, res, "sin estado confirmado no se reserva")
	assert.Empty(t, f.publisher.types())
}

func TestReserve_ActivoDesconocidoEsNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.reservations.Reserve(context.Background(), "ghost", "ORDER-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReserve_Validacion(t *testing.T) {
	f := newFixture(t)
	_, err := f.reservations.Reserve(context.Background(), "", "ORDER-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.reservations.Reserve(context.Background(), "X", "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, f.assets.calls, "la validación ocurre antes de consultar asset-service")
}

func TestRelease_SinReservaDevuelveAssetNotReserved(t *testing.T) {
	f := newFixture(t)
	err := f.reservations.Release(context.Background(), "X")
	assert.ErrorIs(t, err, domain.ErrAssetNotReserved)
	assert.Equal(t, domain.KindAssetNotReserved, domain.Kind(err))
}
