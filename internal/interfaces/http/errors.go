package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/refurb-inventory-api/internal/application/dto"
	"github.com/jhoicas/refurb-inventory-api/internal/domain"
)

// statusByKind traduce el código estable del error a estado HTTP.
var statusByKind = map[string]int{
	domain.KindValidation:                fiber.StatusBadRequest,
	domain.KindMissingDestination:        fiber.StatusBadRequest,
	domain.KindLocationNotFound:          fiber.StatusBadRequest,
	domain.KindNotFound:                  fiber.StatusNotFound,
	domain.KindUnauthorized:              fiber.StatusUnauthorized,
	domain.KindConflict:                  fiber.StatusConflict,
	domain.KindAssetAlreadyReserved:      fiber.StatusConflict,
	domain.KindFulfillmentAlreadyStarted: fiber.StatusConflict,
	domain.KindStockClaimFailed:          fiber.StatusConflict,
	domain.KindAssetNotSellable:          fiber.StatusConflict,
	domain.KindAssetNotReserved:          fiber.StatusConflict,
	domain.KindNoWarehouseAvailable:      fiber.StatusUnprocessableEntity,
	domain.KindUpstream:                  fiber.StatusBadGateway,
}

// StatusFor devuelve el estado HTTP de err; 500 para errores no tipificados.
func StatusFor(err error) int {
	if status, ok := statusByKind[domain.Kind(err)]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// fail responde los errores de dominio con dto.ErrorResponse. Los internos se devuelven
// a Fiber para que ErrorHandler los registre sin exponer el detalle.
func fail(c *fiber.Ctx, err error) error {
	kind := domain.Kind(err)
	if kind == domain.KindInternal {
		return err
	}
	return c.Status(StatusFor(err)).JSON(dto.ErrorResponse{Code: kind, Message: err.Error()})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: domain.KindNotFound, Message: message})
}

// ErrorHandler manejador de errores de la app Fiber.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := domain.KindInternal
			switch fe.Code {
			case fiber.StatusNotFound:
				code = domain.KindNotFound
			case fiber.StatusMethodNotAllowed, fiber.StatusBadRequest:
				code = domain.KindValidation
			}
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
		}
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: domain.KindInternal, Message: "error interno"})
	}
}
