package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/refurb-inventory-api/internal/application/dto"
	"github.com/jhoicas/refurb-inventory-api/internal/application/inventory"
	"github.com/jhoicas/refurb-inventory-api/internal/domain/entity"
)

// InventoryHandler maneja movimientos, reservas y disponibilidad de activos serializados.
type InventoryHandler struct {
	ledger       *inventory.LedgerUseCase
	reservations *inventory.ReservationUseCase
	availability *inventory.AvailabilityUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	ledger *inventory.LedgerUseCase,
	reservations *inventory.ReservationUseCase,
	availability *inventory.AvailabilityUseCase,
) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, reservations: reservations, availability: availability}
}

// MoveAsset godoc
// @Summary      Registrar movimiento de un activo
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MoveAssetRequest  true  "asset_id, to_location_id, from_location_id opcional, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) MoveAsset(c *fiber.Ctx) error {
	var in dto.MoveAssetRequest
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	mov, err := h.ledger.MoveAsset(c.UserContext(), inventory.MoveAssetInput{
		AssetID:        in.AssetID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Reason:         entity.MovementReason(in.Reason),
		ActorID:        GetUserID(c),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(*mov))
}

// History godoc
// @Summary      Historial de movimientos del activo
// @Tags         inventory
// @Produce      json
// @Param        assetId  path  string  true  "ID del activo"
// @Success      200  {object}  dto.MovementHistoryResponse
// @Router       /api/inventory/assets/{assetId}/history [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	assetID := c.Params("assetId")
	history, err := h.ledger.History(c.UserContext(), assetID)
	if err != nil {
		return fail(c, err)
	}
	out := dto.MovementHistoryResponse{AssetID: assetID, Items: make([]dto.MovementResponse, 0, len(history))}
	for _, m := range history {
		out.Items = append(out.Items, toMovementResponse(m))
	}
	return c.JSON(out)
}

// Position godoc
// @Summary      Posición actual derivada del historial
// @Tags         inventory
// @Produce      json
// @Param        assetId  path  string  true  "ID del activo"
// @Success      200  {object}  dto.AssetPositionResponse
// @Router       /api/inventory/assets/{assetId}/position [get]
func (h *InventoryHandler) Position(c *fiber.Ctx) error {
	pos, err := h.ledger.CurrentPosition(c.UserContext(), c.Params("assetId"))
	if err != nil {
		return fail(c, err)
	}
	out := dto.AssetPositionResponse{AssetID: pos.AssetID}
	if pos.Known() {
		out.LocationID = strPtr(pos.LocationID)
		out.LocationCode = strPtr(pos.LocationCode)
		since := pos.Since
		out.Since = &since
	}
	return c.JSON(out)
}

// Availability godoc
// @Summary      Disponibilidad para la venta
// @Description  Siempre responde 200 con el veredicto y el motivo cuando no está disponible.
// @Tags         inventory
// @Produce      json
// @Param        assetId  path  string  true  "ID del activo"
// @Success      200  {object}  dto.AvailabilityResponse
// @Router       /api/inventory/assets/{assetId}/availability [get]
func (h *InventoryHandler) Availability(c *fiber.Ctx) error {
	return c.JSON(h.availability.Check(c.UserContext(), c.Params("assetId")))
}

// Reserve godoc
// @Summary      Reservar un activo para un pedido
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveAssetRequest  true  "asset_id, order_ref"
// @Success      201   {object}  dto.ReservationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/inventory/reservations [post]
func (h *InventoryHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReserveAssetRequest
	if err := bind(c, &in); err != nil {
		return fail(c, err)
	}
	res, err := h.reservations.Reserve(c.UserContext(), in.AssetID, in.OrderRef)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toReservationResponse(res))
}

// Release godoc
// @Summary      Liberar la reserva de un activo
// @Tags         inventory
// @Param        assetId  path  string  true  "ID del activo"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/reservations/{assetId} [delete]
func (h *InventoryHandler) Release(c *fiber.Ctx) error {
	if err := h.reservations.Release(c.UserContext(), c.Params("assetId")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetReservation godoc
// @Summary      Reserva activa del activo
// @Tags         inventory
// @Produce      json
// @Param        assetId  path  string  true  "ID del activo"
// @Success      200  {object}  dto.ReservationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/reservations/{assetId} [get]
func (h *InventoryHandler) GetReservation(c *fiber.Ctx) error {
	res, err := h.reservations.Get(c.UserContext(), c.Params("assetId"))
	if err != nil {
		return fail(c, err)
	}
	if res == nil {
		return notFound(c, "el activo no tiene reserva activa")
	}
	return c.JSON(toReservationResponse(res))
}

func toMovementResponse(m entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		Sequence:       m.Sequence,
		AssetID:        m.AssetID,
		FromLocationID: strPtr(m.FromLocationID),
		ToLocationID:   strPtr(m.ToLocationID),
		Reason:         string(m.Reason),
		ActorID:        m.ActorID,
		CreatedAt:      m.CreatedAt,
	}
}

func toReservationResponse(r *entity.Reservation) dto.ReservationResponse {
	return dto.ReservationResponse{ID: r.ID, AssetID: r.AssetID, OrderRef: r.OrderRef, CreatedAt: r.CreatedAt}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
