package handlers

import (
	"github.com/gofiber/fiber/v2"

	"erpvendas/internal/repos"
)

// Staff lookups back the seller picker on the sale form.
type UserHandler struct {
	Users *repos.UserRepo
}

// GET /api/v1/users
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.Users.List()
	if err != nil {
		return fail(c, "users.list", err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// GET /api/v1/me
func (h *UserHandler) Me(c *fiber.Ctx) error {
	return c.JSON(c.Locals("user"))
}
