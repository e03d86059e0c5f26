package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/refurb-inventory-api/internal/application/inventory"
	"github.com/jhoicas/refurb-inventory-api/internal/application/routing"
	"github.com/jhoicas/refurb-inventory-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger       *inventory.LedgerUseCase
	Reservations *inventory.ReservationUseCase
	Availability *inventory.AvailabilityUseCase
	Router       *routing.RouterUseCase
	WarehouseUC  *usecase.WarehouseUseCase
	LocationUC   *usecase.LocationUseCase
	StockUC      *usecase.StockUseCase
	JWTSecret    string // vacío: API sin Bearer (entornos internos)
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret))
	}

	// Inventario: ledger, reservas, disponibilidad
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Reservations, deps.Availability)
	inv.Post("/movements", inventoryHandler.MoveAsset)
	inv.Get("/assets/:assetId/history", inventoryHandler.History)
	inv.Get("/assets/:assetId/position", inventoryHandler.Position)
	inv.Get("/assets/:assetId/availability", inventoryHandler.Availability)
	inv.Post("/reservations", inventoryHandler.Reserve)
	inv.Get("/reservations/:assetId", inventoryHandler.GetReservation)
	inv.Delete("/reservations/:assetId", inventoryHandler.Release)

	// Ruteo de pedidos
	rt := api.Group("/routing")
	routingHandler := NewRoutingHandler(deps.Router)
	rt.Post("/assignments", routingHandler.AssignOrder)
	rt.Get("/assignments/:orderId", routingHandler.GetAssignment)
	rt.Get("/assignments/:orderId/picking-slip", routingHandler.PickingSlip)
	rt.Post("/scores", routingHandler.Scores)

	// Bodegas
	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Patch("/:id/active", warehouseHandler.SetActive)

	// Ubicaciones y stock
	locationHandler := NewLocationHandler(deps.LocationUC, deps.StockUC)
	locations := api.Group("/locations")
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	stock := api.Group("/stock")
	stock.Post("/", locationHandler.RegisterStock)
	stock.Get("/", locationHandler.ListStock)
}
