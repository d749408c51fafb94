package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "erpvendas/internal/log"
	"erpvendas/internal/services"
	"erpvendas/internal/validate"
)

type CustomerHandler struct {
	Customers *services.CustomerService
}

// POST /api/v1/customers
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in services.CustomerInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	cust, err := h.Customers.Create(in)
	if err != nil {
		return fail(c, "customer.create", err)
	}
	applog.Audit(c, "customer.create", map[string]any{"customer_id": cust.ID})
	return c.Status(fiber.StatusCreated).JSON(cust)
}

// GET /api/v1/customers
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	out, err := h.Customers.List(c.Query("name"), c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		return fail(c, "customer.list", err)
	}
	return c.JSON(out)
}

// GET /api/v1/customers/:id
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid customer id")
	}
	cust, err := h.Customers.Get(id)
	if err != nil {
		return fail(c, "customer.get", err)
	}
	return c.JSON(cust)
}

// PUT /api/v1/customers/:id
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid customer id")
	}
	var in services.CustomerInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	cust, err := h.Customers.Update(id, in)
	if err != nil {
		return fail(c, "customer.update", err)
	}
	applog.Audit(c, "customer.update", map[string]any{"customer_id": id})
	return c.JSON(cust)
}

// DELETE /api/v1/customers/:id
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid customer id")
	}
	if err := h.Customers.Delete(id); err != nil {
		return fail(c, "customer.delete", err)
	}
	applog.Audit(c, "customer.delete", map[string]any{"customer_id": id})
	return c.JSON(fiber.Map{"deleted": true})
}
