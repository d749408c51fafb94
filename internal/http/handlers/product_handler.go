package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "erpvendas/internal/log"
	"erpvendas/internal/services"
	"erpvendas/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// POST /api/v1/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	p, err := h.Catalog.Create(in)
	if err != nil {
		return fail(c, "product.create", err)
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID, "kind": p.Kind})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// GET /api/v1/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.Catalog.List(
		c.Query("kind"), c.Query("status"), c.Query("name"),
		c.QueryInt("page", 1), c.QueryInt("limit", 20),
	)
	if err != nil {
		return fail(c, "product.list", err)
	}
	return c.JSON(out)
}

// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		return fail(c, "product.get", err)
	}
	return c.JSON(p)
}

// PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	p, err := h.Catalog.Update(id, in)
	if err != nil {
		return fail(c, "product.update", err)
	}
	applog.Audit(c, "product.update", map[string]any{"product_id": id})
	return c.JSON(p)
}

// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	if err := h.Catalog.Delete(id); err != nil {
		return fail(c, "product.delete", err)
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"deleted": true})
}
