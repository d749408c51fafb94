package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "erpvendas/internal/log"
	"erpvendas/internal/services"
)

// Register wires the API routes onto the app. Kept separate from main so
// handler tests can mount the same surface on an in-memory database.
func Register(app *fiber.App, deps *Deps, auth *services.AuthService) {
	api := app.Group("/api/v1")

	// Auth (login throttled)
	api.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, retry later"})
		},
	}), deps.AuthHandler.Login)
	api.Post("/logout", deps.AuthHandler.Logout)

	// Everything below requires a logged-in staff user.
	authed := api.Group("", RequireUser(auth))

	authed.Get("/me", deps.UserHandler.Me)
	authed.Put("/me/password", deps.AuthHandler.ChangePassword)
	authed.Get("/users", deps.UserHandler.List)

	authed.Get("/customers", deps.CustomerHandler.List)
	authed.Post("/customers", deps.CustomerHandler.Create)
	authed.Get("/customers/:id", deps.CustomerHandler.Get)
	authed.Put("/customers/:id", deps.CustomerHandler.Update)

	authed.Get("/products", deps.ProductHandler.List)
	authed.Post("/products", deps.ProductHandler.Create)
	authed.Get("/products/:id", deps.ProductHandler.Get)
	authed.Put("/products/:id", deps.ProductHandler.Update)

	authed.Get("/sales", deps.SaleHandler.List)
	authed.Post("/sales", deps.SaleHandler.Create)
	authed.Get("/sales/:id", deps.SaleHandler.Get)
	authed.Put("/sales/:id", deps.SaleHandler.Update)
	authed.Patch("/sales/:id/status", deps.SaleHandler.UpdateStatus)

	authed.Post("/sales/:id/items", deps.SaleItemHandler.Add)
	authed.Put("/items/:id", deps.SaleItemHandler.Update)
	authed.Delete("/items/:id", deps.SaleItemHandler.Delete)

	// Record deletion is admin-only; sellers cancel sales instead.
	admin := api.Group("", RequireAdmin(auth))

	admin.Delete("/customers/:id", deps.CustomerHandler.Delete)
	admin.Delete("/products/:id", deps.ProductHandler.Delete)
	admin.Delete("/sales/:id", deps.SaleHandler.Delete)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
}
