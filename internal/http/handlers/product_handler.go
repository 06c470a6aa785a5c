package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/products?category=&bestSelling=true&page=1&pageSize=20
func (h *ProductHandler) List(c *fiber.Ctx) error {
	f := repos.ProductFilter{}
	if cat := c.Query("category"); cat != "" {
		id, ok := validate.ID(cat)
		if !ok {
			return badRequest(c, "category", "invalid category id")
		}
		f.CategoryID = id
	}
	f.BestSellingOnly, _ = strconv.ParseBool(c.Query("bestSelling"))
	f.Limit = validate.Limit(c.Query("pageSize"), 20, 100)
	page := validate.Limit(c.Query("page"), 1, 10000)
	f.Offset = (page - 1) * f.Limit

	products, err := h.Catalog.ListProducts(c.UserContext(), f)
	if err != nil {
		return fail(c, "products.list", err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return fail(c, "products.get", err)
	}
	return c.JSON(p)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var spec services.ProductSpec
	if err := c.BodyParser(&spec); err != nil {
		return badRequest(c, "body", "invalid JSON body")
	}
	p, err := h.Catalog.CreateProduct(c.UserContext(), actorOf(c), spec)
	if err != nil {
		return fail(c, "products.create", err)
	}
	applog.Audit(c, "products.create", map[string]any{"product_id": p.ID, "actor": actorOf(c)})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// DELETE /api/v1/products/:id answers {"archived": true} when open orders
// kept the product alive.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	res, err := h.Catalog.DeleteProduct(c.UserContext(), actorOf(c), id)
	if err != nil {
		return fail(c, "products.delete", err)
	}
	applog.Audit(c, "products.delete", map[string]any{"product_id": id, "archived": res.Archived, "actor": actorOf(c)})
	return c.JSON(res)
}

// POST /api/v1/products/:id/variants
func (h *ProductHandler) AddVariant(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "id", "invalid product id")
	}
	var spec services.VariantSpec
	if err := c.BodyParser(&spec); err != nil {
		return badRequest(c, "body", "invalid JSON body")
	}
	v, err := h.Catalog.AddVariant(c.UserContext(), actorOf(c), id, spec)
	if err != nil {
		return fail(c, "variants.create", err)
	}
	applog.Audit(c, "variants.create", map[string]any{"product_id": id, "variant_id": v.ID, "sku": v.SKU, "actor": actorOf(c)})
	return c.Status(fiber.StatusCreated).JSON(v)
}
