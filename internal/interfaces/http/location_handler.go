package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/refurb-inventory-api/internal/application/dto"
	"github.com/jhoicas/refurb-inventory-api/internal/application/usecase"
)

// LocationHandler ubicaciones físicas y stock por bodega.
type LocationHandler struct {
	locations *usecase.LocationUseCase
	stock     *usecase.StockUseCase
}

// NewLocationHandler construye el handler.
func NewLocationHandler(locations *usecase.LocationUseCase, stock *usecase.StockUseCase) *LocationHandler {
	return &LocationHandler{locations: locations, stock: stock}
}

// Create godoc
// @Summary      Crear ubicación
// @Tags         locations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "code, name, warehouse_id opcional"
// @Success      201   {object}  dto.LocationResponse
// @Router       /api/locations [post]
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	out, err := h.locations.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener ubicación por ID
// @Tags         locations
// @Produce      json
// @Param        id   path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.LocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{id} [get]
func (h *LocationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.locations.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	if out == nil {
		return notFound(c, "ubicación no encontrada")
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ubicaciones
// @Tags         locations
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.LocationListResponse
// @Router       /api/locations [get]
func (h *LocationHandler) List(c *fiber.Ctx) error {
	p := page(c)
	out, err := h.locations.List(c.UserContext(), c.Query("warehouse_id"), p.Limit, p.Offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// RegisterStock godoc
// @Summary      Registrar activo disponible en una bodega
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterStockRequest  true  "asset_id, warehouse_id"
// @Success      201   {object}  dto.StockEntryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *LocationHandler) RegisterStock(c *fiber.Ctx) error {
	var in dto.RegisterStockRequest
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	out, err := h.stock.Register(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListStock godoc
// @Summary      Stock de una bodega
// @Tags         stock
// @Produce      json
// @Param        warehouse_id  query  string  true   "ID de la bodega"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.StockListResponse
// @Router       /api/stock [get]
func (h *LocationHandler) ListStock(c *fiber.Ctx) error {
	p := page(c)
	out, err := h.stock.ListByWarehouse(c.UserContext(), c.Query("warehouse_id"), p.Limit, p.Offset)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
