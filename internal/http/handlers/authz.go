package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/validate"
)

const ActorHeader = "X-Actor-ID"

// RequireActor rejects mutating requests that do not name who is acting.
// The actor ends up in the audit columns of every row they touch.
func RequireActor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := validate.ID(c.Get(ActorHeader))
		if !ok {
			c.Status(fiber.StatusUnauthorized)
			applog.Security(c, "access.denied.actor", map[string]any{"header": ActorHeader})
			return c.JSON(fiber.Map{"error": "missing or invalid " + ActorHeader})
		}
		c.Locals("actor", actor)
		return c.Next()
	}
}

func actorOf(c *fiber.Ctx) string {
	a, _ := c.Locals("actor").(string)
	return a
}
