package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type OrderHandler struct {
	Order *services.OrderService
}

type placeOrderRequest struct {
	Items []services.LineItemRequest `json:"items"`
}

// POST /api/v1/orders
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var req placeOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "invalid JSON body")
	}
	if len(req.Items) > 100 {
		return badRequest(c, "items", "too many lines")
	}
	res, err := h.Order.CreateOrder(c.UserContext(), actorOf(c), req.Items)
	if err != nil {
		return fail(c, "order.place", err)
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id": res.OrderID,
		"lines":    len(req.Items),
		"actor":    actorOf(c),
	})
	return c.Status(fiber.StatusCreated).JSON(res)
}

// GET /api/v1/orders/:id
func (h *OrderHandler) View(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid order id")
	}
	o, err := h.Order.GetOrder(c.UserContext(), id)
	if err != nil {
		return fail(c, "order.view", err)
	}
	return c.JSON(o)
}
