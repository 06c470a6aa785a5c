package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
)

const genericError = "Something went wrong. Please try again."

// fail maps a service error onto a status code and JSON body. Anything that
// is not a known domain error is logged and hidden behind a generic message.
func fail(c *fiber.Ctx, action string, err error) error {
	var (
		ve  *domain.ValidationError
		nf  *domain.NotFoundError
		ise *domain.InsufficientStockError
		ite *domain.InvalidTransitionError
		um  *domain.UnitMismatchError
	)
	switch {
	case errors.As(err, &ve):
		c.Status(fiber.StatusBadRequest)
		applog.Security(c, "validation.fail", map[string]any{"action": action, "field": ve.Field})
		return c.JSON(fiber.Map{"error": ve.Message, "field": ve.Field})
	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": nf.Entity + " not found"})
	case errors.As(err, &ise):
		c.Status(fiber.StatusConflict)
		applog.Info(c, action+".stock", map[string]any{"variant": ise.VariantID, "requested": ise.Requested, "available": ise.Available})
		return c.JSON(fiber.Map{"error": "insufficient stock", "variantId": ise.VariantID, "available": ise.Available})
	case errors.As(err, &ite):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": ite.Error()})
	case errors.Is(err, domain.ErrOrderConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "order changed, reload and retry"})
	case errors.As(err, &um):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": um.Error()})
	}
	c.Status(fiber.StatusInternalServerError)
	applog.Error(c, action+".fail", err, nil)
	return c.JSON(fiber.Map{"error": genericError})
}

func badRequest(c *fiber.Ctx, field, msg string) error {
	c.Status(fiber.StatusBadRequest)
	applog.Security(c, "validation.fail", map[string]any{"field": field})
	return c.JSON(fiber.Map{"error": msg, "field": field})
}

// ErrorHandler is the app-level fallback for errors returned by handlers or
// middleware.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	applog.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": genericError})
}
