package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return fail(c, "categories.list", err)
	}
	return c.JSON(cats)
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "body", "invalid JSON body")
	}
	cat, err := h.Catalog.CreateCategory(c.UserContext(), actorOf(c), body.Name)
	if err != nil {
		return fail(c, "categories.create", err)
	}
	applog.Audit(c, "categories.create", map[string]any{"category_id": cat.ID, "actor": actorOf(c)})
	return c.Status(fiber.StatusCreated).JSON(cat)
}

// DELETE /api/v1/categories/:id removes products and variants too.
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid category id")
	}
	if err := h.Catalog.DeleteCategory(c.UserContext(), actorOf(c), id); err != nil {
		return fail(c, "categories.delete", err)
	}
	applog.Audit(c, "categories.delete", map[string]any{"category_id": id, "actor": actorOf(c)})
	return c.SendStatus(fiber.StatusNoContent)
}
