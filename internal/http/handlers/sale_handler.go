package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "erpvendas/internal/log"
	"erpvendas/internal/repos"
	"erpvendas/internal/services"
	"erpvendas/internal/validate"
)

type SaleHandler struct {
	Sales *services.SaleService
}

// POST /api/v1/sales
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in services.CreateSaleInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	sale, err := h.Sales.Create(in)
	if err != nil {
		return fail(c, "sale.create", err)
	}
	applog.Audit(c, "sale.create", map[string]any{
		"sale_id": sale.ID,
		"status":  sale.Status,
		"total":   sale.Total,
		"lines":   len(sale.Items),
	})
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// GET /api/v1/sales
func (h *SaleHandler) List(c *fiber.Ctx) error {
	f := repos.SaleFilter{
		CustomerID: c.Query("customerId"),
		UserID:     c.Query("userId"),
		Status:     c.Query("status"),
		From:       c.Query("from"),
		To:         c.Query("to"),
	}
	out, err := h.Sales.List(f, c.QueryInt("page", 1), c.QueryInt("limit", 20))
	if err != nil {
		return fail(c, "sale.list", err)
	}
	return c.JSON(out)
}

// GET /api/v1/sales/:id
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid sale id")
	}
	sale, err := h.Sales.Get(id)
	if err != nil {
		return fail(c, "sale.get", err)
	}
	return c.JSON(sale)
}

// PUT /api/v1/sales/:id
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid sale id")
	}
	var in services.UpdateSaleInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	sale, err := h.Sales.Update(id, in)
	if err != nil {
		return fail(c, "sale.update", err)
	}
	applog.Audit(c, "sale.update", map[string]any{"sale_id": id, "status": sale.Status})
	return c.JSON(sale)
}

// PATCH /api/v1/sales/:id/status
func (h *SaleHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid sale id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	sale, err := h.Sales.UpdateStatus(id, body.Status)
	if err != nil {
		return fail(c, "sale.status", err)
	}
	applog.Audit(c, "sale.status", map[string]any{"sale_id": id, "status": sale.Status})
	return c.JSON(sale)
}

// DELETE /api/v1/sales/:id
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid sale id")
	}
	if err := h.Sales.Delete(id); err != nil {
		return fail(c, "sale.delete", err)
	}
	applog.Audit(c, "sale.delete", map[string]any{"sale_id": id})
	return c.JSON(fiber.Map{"deleted": true})
}
