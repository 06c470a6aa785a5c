package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	applog "storefront/internal/log"
)

type Limits struct {
	// Global per-IP request budget.
	Max    int
	Window time.Duration
	// Order placement budget, tighter than the global one.
	OrderMax    int
	OrderWindow time.Duration
}

func DefaultLimits() Limits {
	return Limits{Max: 120, Window: time.Minute, OrderMax: 10, OrderWindow: time.Minute}
}

// NewApp builds the fiber app with middlewares and every route.
func NewApp(deps *Deps, lim Limits) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          ErrorHandler,
		BodyLimit:             1 << 20, // 1 MiB
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        lim.Max,
		Expiration: lim.Window,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/healthz"
		},
		LimitReached: func(c *fiber.Ctx) error {
			c.Status(fiber.StatusTooManyRequests)
			applog.Security(c, "rate.global.hit", nil)
			return c.JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		applog.Debug(c, "http.access", nil)
		return err
	})

	Register(app, deps, lim)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})
	return app
}

// Register mounts the JSON API under /api/v1.
func Register(app *fiber.App, deps *Deps, lim Limits) {
	api := app.Group("/api/v1")
	write := RequireActor()

	orderLimiter := limiter.New(limiter.Config{
		Max:        lim.OrderMax,
		Expiration: lim.OrderWindow,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|orders"
		},
		LimitReached: func(c *fiber.Ctx) error {
			c.Status(fiber.StatusTooManyRequests)
			applog.Security(c, "rate.orders.hit", nil)
			return c.JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})

	// Units
	api.Get("/units", deps.UnitHandler.List)
	api.Get("/units/convert", deps.UnitHandler.Convert)
	api.Get("/units/:id", deps.UnitHandler.Get)
	api.Post("/units", write, deps.UnitHandler.Create)
	api.Put("/units/:id", write, deps.UnitHandler.Update)
	api.Post("/units/:id/deactivate", write, deps.UnitHandler.Deactivate)

	// Catalog
	api.Get("/categories", deps.CategoryHandler.List)
	api.Post("/categories", write, deps.CategoryHandler.Create)
	api.Delete("/categories/:id", write, deps.CategoryHandler.Delete)

	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Detail)
	api.Post("/products", write, deps.ProductHandler.Create)
	api.Delete("/products/:id", write, deps.ProductHandler.Delete)
	api.Post("/products/:id/variants", write, deps.ProductHandler.AddVariant)

	api.Get("/variants/:id/availability", deps.InventoryHandler.Check)
	api.Get("/variants/:id/unit-price", deps.InventoryHandler.UnitPrice)
	api.Post("/variants/:id/stock", write, deps.InventoryHandler.AdjustStock)
	api.Put("/variants/:id/price", write, deps.InventoryHandler.UpdatePrice)
	api.Get("/inventory", deps.AdminHandler.Inventory)

	// Orders
	api.Post("/orders", orderLimiter, write, deps.OrderHandler.Place)
	api.Get("/orders", deps.AdminHandler.Orders)
	api.Get("/orders/:id", deps.OrderHandler.View)
	api.Post("/orders/:id/status", write, deps.AdminHandler.UpdateOrderStatus)
}
