package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "erpvendas/internal/log"
	"erpvendas/internal/services"
	"erpvendas/internal/validate"
)

type SaleItemHandler struct {
	Items *services.SaleItemService
	Sales *services.SaleService
}

// POST /api/v1/sales/:id/items
func (h *SaleItemHandler) Add(c *fiber.Ctx) error {
	saleID, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid sale id")
	}
	var in services.AddLineInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	item, err := h.Items.AddLine(saleID, in)
	if err != nil {
		return fail(c, "sale.item.add", err)
	}
	sale, err := h.Sales.Get(saleID)
	if err != nil {
		return fail(c, "sale.item.add", err)
	}
	applog.Audit(c, "sale.item.add", map[string]any{"sale_id": saleID, "line_id": item.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"item": item, "total": sale.Total})
}

// PUT /api/v1/items/:id
func (h *SaleItemHandler) Update(c *fiber.Ctx) error {
	lineID, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid line id")
	}
	var in services.UpdateLineInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "malformed JSON body")
	}
	item, err := h.Items.UpdateLine(lineID, in)
	if err != nil {
		return fail(c, "sale.item.update", err)
	}
	sale, err := h.Sales.Get(item.SaleID)
	if err != nil {
		return fail(c, "sale.item.update", err)
	}
	applog.Audit(c, "sale.item.update", map[string]any{"sale_id": item.SaleID, "line_id": lineID})
	return c.JSON(fiber.Map{"item": item, "total": sale.Total})
}

// DELETE /api/v1/items/:id
func (h *SaleItemHandler) Delete(c *fiber.Ctx) error {
	lineID, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid line id")
	}
	if err := h.Items.DeleteLine(lineID); err != nil {
		return fail(c, "sale.item.delete", err)
	}
	applog.Audit(c, "sale.item.delete", map[string]any{"line_id": lineID})
	return c.JSON(fiber.Map{"deleted": true})
}
