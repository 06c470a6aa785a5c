package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type UnitHandler struct {
	Units *services.UnitService
}

// GET /api/v1/units?active=true
func (h *UnitHandler) List(c *fiber.Ctx) error {
	activeOnly, _ := strconv.ParseBool(c.Query("active"))
	units, err := h.Units.List(c.UserContext(), activeOnly)
	if err != nil {
		return fail(c, "units.list", err)
	}
	return c.JSON(units)
}

func (h *UnitHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid unit id")
	}
	u, err := h.Units.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "units.get", err)
	}
	return c.JSON(u)
}

// POST /api/v1/units
func (h *UnitHandler) Create(c *fiber.Ctx) error {
	var spec services.UnitSpec
	if err := c.BodyParser(&spec); err != nil {
		return badRequest(c, "body", "invalid JSON body")
	}
	u, err := h.Units.Create(c.UserContext(), actorOf(c), spec)
	if err != nil {
		return fail(c, "units.create", err)
	}
	applog.Audit(c, "units.create", map[string]any{"unit_id": u.ID, "name": u.Name, "actor": actorOf(c)})
	return c.Status(fiber.StatusCreated).JSON(u)
}

// PUT /api/v1/units/:id
func (h *UnitHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid unit id")
	}
	var spec services.UnitSpec
	if err := c.BodyParser(&spec); err != nil {
		return badRequest(c, "body", "invalid JSON body")
	}
	u, err := h.Units.Update(c.UserContext(), actorOf(c), id, spec)
	if err != nil {
		return fail(c, "units.update", err)
	}
	applog.Audit(c, "units.update", map[string]any{"unit_id": u.ID, "actor": actorOf(c)})
	return c.JSON(u)
}

// POST /api/v1/units/:id/deactivate
func (h *UnitHandler) Deactivate(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid unit id")
	}
	if err := h.Units.Deactivate(c.UserContext(), actorOf(c), id); err != nil {
		return fail(c, "units.deactivate", err)
	}
	applog.Audit(c, "units.deactivate", map[string]any{"unit_id": id, "actor": actorOf(c)})
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/v1/units/convert?qty=2&from=<id>&to=<id>
func (h *UnitHandler) Convert(c *fiber.Ctx) error {
	qty, err := decimal.NewFromString(c.Query("qty"))
	if err != nil {
		return badRequest(c, "qty", "qty must be a number")
	}
	from, ok := validate.ID(c.Query("from"))
	if !ok {
		return badRequest(c, "from", "invalid unit id")
	}
	to, ok := validate.ID(c.Query("to"))
	if !ok {
		return badRequest(c, "to", "invalid unit id")
	}
	out, err := h.Units.Convert(c.UserContext(), qty, from, to)
	if err != nil {
		return fail(c, "units.convert", err)
	}
	return c.JSON(fiber.Map{"qty": out, "from": from, "to": to})
}
