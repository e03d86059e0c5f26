package http

import (
	"mime"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/refurb-inventory-api/internal/application/dto"
	"github.com/jhoicas/refurb-inventory-api/internal/application/routing"
)

// RoutingHandler asignación de pedidos a bodegas.
type RoutingHandler struct {
	router *routing.RouterUseCase
}

// NewRoutingHandler construye el handler.
func NewRoutingHandler(router *routing.RouterUseCase) *RoutingHandler {
	return &RoutingHandler{router: router}
}

// AssignOrder godoc
// @Summary      Asignar un pedido a una bodega
// @Description  201 para una asignación nueva; 200 con reused=true si el pedido ya estaba asignado.
// @Tags         routing
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AssignOrderRequest  true  "order_id, customer_country, asset_ids"
// @Success      201   {object}  dto.RoutingResult
// @Success      200   {object}  dto.RoutingResult
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/routing/assignments [post]
func (h *RoutingHandler) AssignOrder(c *fiber.Ctx) error {
	var in dto.AssignOrderRequest
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	out, err := h.router.AssignOrder(c.UserContext(), routing.AssignOrderInput{
		OrderID:         in.OrderID,
		CustomerCountry: in.CustomerCountry,
		AssetIDs:        in.AssetIDs,
	})
	if err != nil {
		return fail(c, err)
	}
	if out.Reused {
		return c.JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetAssignment godoc
// @Summary      Asignación vigente de un pedido
// @Tags         routing
// @Produce      json
// @Param        orderId  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.AssignmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/routing/assignments/{orderId} [get]
func (h *RoutingHandler) GetAssignment(c *fiber.Ctx) error {
	out, err := h.router.GetAssignment(c.UserContext(), pathParam(c, "orderId"))
	if err != nil {
		return fail(c, err)
	}
	if out == nil {
		return notFound(c, "pedido sin asignación")
	}
	return c.JSON(out)
}

// PickingSlip godoc
// @Summary      Hoja de preparación (PDF) del pedido asignado
// @Tags         routing
// @Produce      application/pdf
// @Param        orderId  path  string  true  "ID del pedido"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/routing/assignments/{orderId}/picking-slip [get]
func (h *RoutingHandler) PickingSlip(c *fiber.Ctx) error {
	orderID := pathParam(c, "orderId")
	pdf, err := h.router.PickingSlip(c.UserContext(), orderID)
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, contentDisposition("picking-"+orderID+".pdf"))
	return c.Send(pdf)
}

// contentDisposition cita el nombre de archivo (RFC 2231 si no es ASCII).
func contentDisposition(filename string) string {
	if v := mime.FormatMediaType("inline", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "inline"
}

// Scores godoc
// @Summary      Ranking de bodegas sin efectos
// @Tags         routing
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ScoreRequest  true  "customer_country, asset_ids"
// @Success      200   {object}  dto.ScoreResponse
// @Router       /api/routing/scores [post]
func (h *RoutingHandler) Scores(c *fiber.Ctx) error {
	var in dto.ScoreRequest
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	out, err := h.router.Preview(c.UserContext(), in.AssetIDs, in.CustomerCountry)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
