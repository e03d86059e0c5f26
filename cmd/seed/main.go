// seed carga warehouses, ubicaciones y stock inicial desde una exportación XML del WMS.
//
// Uso: go run ./cmd/seed [ruta/catalog.xml]
// Por defecto busca catalog.xml en el directorio actual. Usa la base de datos configurada
// (DATABASE_URL o DB_*) y aplica el esquema si falta.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/refurb-inventory-api/internal/application/inventory"
	"github.com/jhoicas/refurb-inventory-api/internal/application/usecase"
	"github.com/jhoicas/refurb-inventory-api/internal/infrastructure/postgres"
	"github.com/jhoicas/refurb-inventory-api/pkg/config"
	"github.com/jhoicas/refurb-inventory-api/pkg/logger"
)

func main() {
	path := "catalog.xml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("abrir catálogo")
	}
	defer f.Close()

	cat, err := decodeCatalog(f)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("leer catálogo")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}

	warehouseRepo := postgres.NewWarehouseRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	s := &seeder{
		warehouses: usecase.NewWarehouseUseCase(warehouseRepo),
		locations:  usecase.NewLocationUseCase(locationRepo, warehouseRepo),
		stock:      usecase.NewStockUseCase(postgres.NewStockLocationRepository(pool), warehouseRepo),
		ledger: inventory.NewLedgerUseCase(
			postgres.NewTxRunner(pool), postgres.NewMovementRepository(pool), locationRepo,
			nil, nil, log.Component("ledger"),
		),
	}

	sum, err := s.apply(ctx, cat)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar catálogo")
	}
	log.Info().
		Int("warehouses", sum.Warehouses).
		Int("locations", sum.Locations).
		Int("stock", sum.Stock).
		Int("movements", sum.Movements).
		Int("skipped", sum.Skipped).
		Msg("catálogo cargado")
}
