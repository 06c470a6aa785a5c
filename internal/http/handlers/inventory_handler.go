package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type InventoryHandler struct {
	Inv     *services.InventoryService
	Catalog *services.CatalogService
}

// GET /api/v1/variants/:id/availability
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid variant id")
	}
	avail, err := h.Inv.CheckAvailability(c.UserContext(), id)
	if err != nil {
		return fail(c, "availability.check", err)
	}
	return c.JSON(avail)
}

// POST /api/v1/variants/:id/stock {"delta": -3}
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid variant id")
	}
	var body struct {
		Delta *int `json:"delta"`
	}
	if err := c.BodyParser(&body); err != nil || body.Delta == nil {
		return badRequest(c, "delta", "delta is required")
	}
	stock, err := h.Catalog.AdjustStock(c.UserContext(), actorOf(c), id, *body.Delta)
	if err != nil {
		return fail(c, "inventory.adjust", err)
	}
	applog.Audit(c, "inventory.adjust", map[string]any{"variant_id": id, "delta": *body.Delta, "stock": stock, "actor": actorOf(c)})
	return c.JSON(fiber.Map{"variantId": id, "stock": stock})
}

// PUT /api/v1/variants/:id/price {"price": "749.00"}
func (h *InventoryHandler) UpdatePrice(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid variant id")
	}
	var body struct {
		Price *decimal.Decimal `json:"price"`
	}
	if err := c.BodyParser(&body); err != nil || body.Price == nil {
		return badRequest(c, "price", "price is required")
	}
	if err := h.Catalog.UpdateVariantPrice(c.UserContext(), actorOf(c), id, *body.Price); err != nil {
		return fail(c, "variants.price", err)
	}
	applog.Audit(c, "variants.price", map[string]any{"variant_id": id, "price": body.Price.String(), "actor": actorOf(c)})
	return c.JSON(fiber.Map{"variantId": id, "price": body.Price})
}

// GET /api/v1/variants/:id/unit-price
func (h *InventoryHandler) UnitPrice(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid variant id")
	}
	p, err := h.Catalog.UnitPrice(c.UserContext(), id)
	if err != nil {
		return fail(c, "variants.unit_price", err)
	}
	return c.JSON(fiber.Map{"variantId": id, "pricePerBaseUnit": p})
}
