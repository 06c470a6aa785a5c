package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type AdminHandler struct {
	Order *services.OrderService
	Inv   *services.InventoryService
}

// GET /api/v1/orders?limit=100
func (h *AdminHandler) Orders(c *fiber.Ctx) error {
	ords, err := h.Order.ListOrders(c.UserContext(), validate.Limit(c.Query("limit"), 100, 500))
	if err != nil {
		return fail(c, "admin.orders.list", err)
	}
	return c.JSON(ords)
}

// POST /api/v1/orders/:id/status {"status": "shipped"}
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid order id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "body", "invalid JSON body")
	}
	to, ok := domain.ParseOrderStatus(body.Status)
	if !ok {
		return badRequest(c, "status", "unknown status")
	}
	o, err := h.Order.Transition(c.UserContext(), actorOf(c), id, to)
	if err != nil {
		return fail(c, "admin.orders.update", err)
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": string(to), "actor": actorOf(c)})
	return c.JSON(o)
}

// GET /api/v1/inventory
func (h *AdminHandler) Inventory(c *fiber.Ctx) error {
	rows, err := h.Inv.List(c.UserContext())
	if err != nil {
		return fail(c, "admin.inventory.list", err)
	}
	return c.JSON(rows)
}
