package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/refurb-inventory-api/internal/application/inventory"
	"github.com/jhoicas/refurb-inventory-api/internal/domain"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/repository"
	"github.com/jhoicas/refurb-inventory-api/internal/infrastructure/postgres"
)

// setupTestDB conecta a TEST_DATABASE_URL y aplica el esquema. Sin la variable se omite:
// los datos usan IDs únicos por ejecución y no se borra nada.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL no definida: se omiten las pruebas contra PostgreSQL")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.EnsureSchema(ctx, pool))
	return pool
}

func uniq(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}

type sellableAssets struct{}

func (sellableAssets) GetStatus(context.Context, string) (string, error) { return "sellable", nil }

type pgFixture struct {
	pool         *pgxpool.Pool
	ledger       *inventory.LedgerUseCase
	reservations *inventory.ReservationUseCase
}

func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()
	pool := setupTestDB(t)
	tx := postgres.NewTxRunner(pool)
	log := zerolog.Nop()
	return &pgFixture{
		pool:   pool,
		ledger: inventory.NewLedgerUseCase(tx, postgres.NewMovementRepository(pool), postgres.NewLocationRepository(pool), nil, nil, log),
		reservations: inventory.NewReservationUseCase(tx, postgres.NewReservationRepository(pool), sellableAssets{},
			inventory.NewSellablePolicy("sellable"), nil, nil, log),
	}
}

func (f *pgFixture) location(t *testing.T) string {
	t.Helper()
	id := uniq("loc")
	require.NoError(t, postgres.NewLocationRepository(f.pool).Create(context.Background(),
		&entity.Location{ID: id, Code: id, CreatedAt: time.Now().UTC()}))
	return id
}

func (f *pgFixture) warehouse(t *testing.T) string {
	t.Helper()
	id := uniq("wh")
	now := time.Now().UTC()
	require.NoError(t, postgres.NewWarehouseRepository(f.pool).Create(context.Background(),
		&entity.Warehouse{ID: id, Code: id, Name: id, Country: "FR", Active: true, CreatedAt: now, UpdatedAt: now}))
	return id
}

// ──────────────────────────────────────────────────────────────────────────────
// Ledger de movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementRepo_SecuenciaCrecienteYSoloAnexado(t *testing.T) {
	ctx := context.Background()
	f := newPGFixture(t)
	asset := uniq("asset")
	locs := []string{f.location(t), f.location(t), f.location(t)}

	for _, to := range locs {
		_, err := f.ledger.MoveAsset(ctx, inventory.MoveAssetInput{AssetID: asset, ToLocationID: to})
		require.NoError(t, err)
	}
	history, err := f.ledger.History(ctx, asset)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i := 1; i < len(history); i++ {
		assert.Greater(t, history[i].Sequence, history[i-1].Sequence)
		assert.Equal(t, history[i-1].ToLocationID, history[i].FromLocationID)
	}

	_, err = f.pool.Exec(ctx, `UPDATE asset_movements SET actor_id = 'x' WHERE asset_id = $1`, asset)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "solo de anexado")
	_, err = f.pool.Exec(ctx, `DELETE FROM asset_movements WHERE asset_id = $1`, asset)
	require.Error(t, err)

	after, err := f.ledger.History(ctx, asset)
	require.NoError(t, err)
	assert.Len(t, after, 3)
}

func TestMovementRepo_UbicacionInexistente(t *testing.T) {
	f := newPGFixture(t)
	err := postgres.NewMovementRepository(f.pool).Append(context.Background(), &entity.Movement{
		AssetID: uniq("asset"), ToLocationID: uniq("ghost"), Reason: entity.MovementMove,
	})
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reservas
// ──────────────────────────────────────────────────────────────────────────────

func TestReservationRepo_DuplicadoEsErrDuplicate(t *testing.T) {
	ctx := context.Background()
	f := newPGFixture(t)
	repo := postgres.NewReservationRepository(f.pool)
	asset := uniq("asset")

	require.NoError(t, repo.Create(ctx, &entity.Reservation{ID: uuid.New().String(), AssetID: asset, OrderRef: "ORDER-1"}))
	err := repo.Create(ctx, &entity.Reservation{ID: uuid.New().String(), AssetID: asset, OrderRef: "ORDER-2"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	deleted, err := repo.DeleteByAsset(ctx, asset)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.Equal(t, "ORDER-1", deleted.OrderRef)
}

func TestReserve_ConcurrenciaSoloUnGanadorEnPostgres(t *testing.T) {
	ctx := context.Background()
	f := newPGFixture(t)
	asset := uniq("asset")
	_, err := f.ledger.MoveAsset(ctx, inventory.MoveAssetInput{AssetID: asset, ToLocationID: f.location(t)})
	require.NoError(t, err)

	const k = 8
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
			_, err := f.reservations.Reserve(ctx, asset, fmt.Sprintf("ORDER-%d", i))
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
	history, err := f.ledger.History(ctx, asset)
	require.NoError(t, err)
	assert.Len(t, history, 2, "solo el ganador anota RESERVE")
}

// Reservar y mover a la vez: la anotación RESERVE siempre repite la posición vigente
// y la posición final es la del movimiento físico.
func TestReserveYMoveConcurrentes_NoRevierteLaPosicion(t *testing.T) {
	ctx := context.Background()
	f := newPGFixture(t)
	l1, l2 := f.location(t), f.location(t)

	for round := 0; round < 10; round++ {
		asset := uniq("asset")
		_, err := f.ledger.MoveAsset(ctx, inventory.MoveAssetInput{AssetID: asset, ToLocationID: l1})
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.reservations.Reserve(ctx, asset, "ORDER-1")
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := f.ledger.MoveAsset(ctx, inventory.MoveAssetInput{AssetID: asset, FromLocationID: l1, ToLocationID: l2})
			assert.NoError(t, err)
		}()
		wg.Wait()

		history, err := f.ledger.History(ctx, asset)
		require.NoError(t, err)
		require.Len(t, history, 3)
		for i := 1; i < len(history); i++ {
			if history[i].Reason == entity.MovementReserve {
				assert.Equal(t, history[i-1].ToLocationID, history[i].FromLocationID)
				assert.Equal(t, history[i-1].ToLocationID, history[i].ToLocationID)
			}
		}
		pos, err := f.ledger.CurrentPosition(ctx, asset)
		require.NoError(t, err)
		assert.Equal(t, l2, pos.LocationID)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock y asignaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestStockLocationRepo_ClaimAvailableUnaSolaVez(t *testing.T) {
	ctx := context.Background()
	f := newPGFixture(t)
	wh := f.warehouse(t)
	asset := uniq("asset")
	repo := postgres.NewStockLocationRepository(f.pool)
	require.NoError(t, repo.Create(ctx, &entity.StockLocationEntry{ID: uuid.New().String(), AssetID: asset, WarehouseID: wh}))

	ok, err := repo.ClaimAvailable(ctx, asset, wh, "ORDER-1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.ClaimAvailable(ctx, asset, wh, "ORDER-2")
	require.NoError(t, err)
	assert.False(t, ok)

	entries, err := repo.ListByOrder(ctx, "ORDER-1")
	require.NoError(t, err)
	var found bool
	for _, e := range entries {
		if e.AssetID == asset {
			found = true
			assert.Equal(t, entity.StockReserved, e.Status)
		}
	}
	assert.True(t, found)
}

func TestRoutingAssignmentRepo_PedidoDuplicado(t *testing.T) {
	ctx := context.Background()
	f := newPGFixture(t)
	wh := f.warehouse(t)
	order := uniq("order")

	err := postgres.NewTxRunner(f.pool).RunRouting(ctx, func(_ repository.StockLocationRepository, assignRepo repository.RoutingAssignmentRepository) error {
		return assignRepo.Create(ctx, &entity.RoutingAssignment{OrderID: order, WarehouseID: wh})
	})
	require.NoError(t, err)

	repo := postgres.NewRoutingAssignmentRepository(f.pool)
	err = repo.Create(ctx, &entity.RoutingAssignment{OrderID: order, WarehouseID: wh})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := repo.GetByOrderID(ctx, order)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, wh, got.WarehouseID)
}
