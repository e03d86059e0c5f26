package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/refurb-inventory-api/internal/application/inventory"
	"github.com/jhoicas/refurb-inventory-api/internal/application/ports"
	"github.com/jhoicas/refurb-inventory-api/internal/application/routing"
	"github.com/jhoicas/refurb-inventory-api/internal/application/usecase"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/repository"
	"github.com/jhoicas/refurb-inventory-api/internal/infrastructure/collaborators"
	"github.com/jhoicas/refurb-inventory-api/internal/infrastructure/events"
	"github.com/jhoicas/refurb-inventory-api/internal/infrastructure/memory"
	"github.com/jhoicas/refurb-inventory-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/refurb-inventory-api/internal/infrastructure/pdf"
	"github.com/jhoicas/refurb-inventory-api/internal/infrastructure/postgres"
	"github.com/jhoicas/refurb-inventory-api/internal/infrastructure/redislock"
	"github.com/jhoicas/refurb-inventory-api/internal/infrastructure/telemetry"
	httpRouter "github.com/jhoicas/refurb-inventory-api/internal/interfaces/http"
	"github.com/jhoicas/refurb-inventory-api/pkg/config"
	"github.com/jhoicas/refurb-inventory-api/pkg/logger"
)

var version = "dev"

// txRunner lo cumplen postgres.TxRunner y memory.Store.
type txRunner interface {
	inventory.TxRunner
	routing.TxRunner
}

// storage agrupa los repositorios del backend elegido por STORE_DRIVER.
type storage struct {
	tx           txRunner
	movements    repository.MovementRepository
	reservations repository.ReservationRepository
	locations    repository.LocationRepository
	warehouses   repository.WarehouseRepository
	stock        repository.StockLocationRepository
	assignments  repository.RoutingAssignmentRepository
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry, version)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de trazas")
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	// Colaboradores externos (solo lectura)
	httpClient := &http.Client{}
	assets := collaborators.NewAssetStatusClient(cfg.Collaborators.AssetServiceURL, cfg.Collaborators.Timeout, httpClient)
	wms := collaborators.NewFulfillmentStatusClient(cfg.Collaborators.WMSServiceURL, cfg.Collaborators.Timeout, httpClient)

	// Eventos: siempre al log; a Kafka si hay brokers
	publishers := events.FanOut{events.NewLogPublisher(log.Component("events"))}
	var kafkaPub *events.KafkaPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPub = events.NewKafkaPublisher(
			events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic),
			log.Component("kafka"),
			cfg.Kafka.Buffer,
		)
		publishers = append(publishers, kafkaPub)
	}
	var publisher ports.EventPublisher = publishers

	// Candado del router: Redis entre réplicas o en proceso
	var locker ports.OrderLocker = redislock.NewLocal()
	if cfg.Redis.Addr != "" {
		client, err := redislock.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		locker = redislock.New(client, cfg.Redis.RoutingLock)
	}

	m := metrics.New()
	zl := log.Zerolog()
	policy := inventory.NewSellablePolicy(cfg.Routing.SellableStatuses...)

	ledgerUC := inventory.NewLedgerUseCase(store.tx, store.movements, store.locations, publisher, m, zl)
	reservationUC := inventory.NewReservationUseCase(store.tx, store.reservations, assets, policy, publisher, m, zl)
	availabilityUC := inventory.NewAvailabilityUseCase(assets, policy, store.reservations, ledgerUC, m, zl)
	scoringUC := routing.NewScoringUseCase(store.warehouses, store.stock, nil)
	routerUC := routing.NewRouterUseCase(
		store.tx, scoringUC, store.assignments, store.stock, store.warehouses,
		wms, locker, infrapdf.NewMarotoPickingSlipGenerator(), publisher, m, zl,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log.Component("http")),
	})
	app.Use(recover.New())
	app.Use(httpRouter.Tracing())
	app.Use(httpRouter.Metrics(m))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Refurb Inventory API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:       ledgerUC,
		Reservations: reservationUC,
		Availability: availabilityUC,
		Router:       routerUC,
		WarehouseUC:  usecase.NewWarehouseUseCase(store.warehouses),
		LocationUC:   usecase.NewLocationUseCase(store.locations, store.warehouses),
		StockUC:      usecase.NewStockUseCase(store.stock, store.warehouses),
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			log.Error().Err(err).Msg("cierre del productor Kafka")
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("vaciado de trazas")
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage abre PostgreSQL (aplicando el esquema) o el almacén en memoria.
func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		mem := memory.NewStore()
		return &storage{
			tx:           mem,
			movements:    mem.Movements(),
			reservations: mem.Reservations(),
			locations:    mem.Locations(),
			warehouses:   mem.Warehouses(),
			stock:        mem.Stock(),
			assignments:  mem.Assignments(),
			close:        func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &storage{
		tx:           postgres.NewTxRunner(pool),
		movements:    postgres.NewMovementRepository(pool),
		reservations: postgres.NewReservationRepository(pool),
		locations:    postgres.NewLocationRepository(pool),
		warehouses:   postgres.NewWarehouseRepository(pool),
		stock:        postgres.NewStockLocationRepository(pool),
		assignments:  postgres.NewRoutingAssignmentRepository(pool),
		close:        pool.Close,
	}, nil
}
