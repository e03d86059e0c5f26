package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/refurb-inventory-api/internal/application/inventory"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
)

// Vendible, sin reserva y sin movimientos → no disponible por ubicación.
func TestCheck_SinUbicacionConocida(t *testing.T) {
	f := newFixture(t)
	f.assets.statuses["X"] = "sellable"

	got := f.availability.Check(context.Background(), "X")
	assert.False(t, got.Available)
	assert.Contains(t, got.Reason, "no known location")
	assert.Nil(t, got.Location)
}

func TestCheck_OrdenDeDecision(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.location(t, "loc-a", "PAR-A-01")
	f.assets.statuses["X"] = "sellable"
	f.assets.statuses["R"] = "in_repair"

	_, err := f.ledger.MoveAsset(ctx, inventory.MoveAssetInput{AssetID: "X", ToLocationID: "loc-a", Reason: entity.MovementIntake})
	require.NoError(t, err)

	got := f.availability.Check(ctx, "X")
	assert.True(t, got.Available)
	require.NotNil(t, got.Location)
	assert.Equal(t, "PAR-A-01", *got.Location)
	assert.Empty(t, got.Reason)

	_, err = f.reservations.Reserve(ctx, "X", "ORDER-7")
	require.NoError(t, err)
	got = f.availability.Check(ctx, "X")
	assert.False(t, got.Available)
	assert.Equal(t, "reserved for order ORDER-7", got.Reason)

	got = f.availability.Check(ctx, "R")
	assert.False(t, got.Available)
	assert.Contains(t, got.Reason, "in_repair")
	assert.Contains(t, got.Reason, "not sellable")

	got = f.availability.Check(ctx, "ghost")
	assert.False(t, got.Available)
	assert.Equal(t, inventory.ReasonStatusUnknown, got.Reason)
}

func TestCheck_AssetServiceCaidoNoDisponible(t *testing.T) {
	f := newFixture(t)
	f.assets.statuses["X"] = "sellable"
	f.assets.failing = true

	got := f.availability.Check(context.Background(), "X")
	assert.False(t, got.Available)
	assert.Equal(t, inventory.ReasonStatusUnknown, got.Reason)
	assert.Equal(t, 1, f.metrics.counts["check_availability:unavailable"])
}

func TestSellablePolicy_SinDistinguirMayusculas(t *testing.T) {
	p := inventory.NewSellablePolicy("sellable", " Refurbished ", "")
	assert.True(t, p.IsSellable("SELLABLE"))
	assert.True(t, p.IsSellable("refurbished"))
	assert.False(t, p.IsSellable(""))
	assert.False(t, p.IsSellable("scrapped"))
}
