package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"erpvendas/internal/domain"
	applog "erpvendas/internal/log"
)

// fail translates an error into the API's JSON error envelope. Domain errors
// carry a machine-checkable kind; anything else is logged and masked as 500.
func fail(c *fiber.Ctx, action string, err error) error {
	var derr *domain.Error
	if errors.As(err, &derr) {
		code := fiber.StatusBadRequest
		if derr.Kind == domain.KindNotFound {
			code = fiber.StatusNotFound
		}
		applog.Security(c, action+".reject", map[string]any{"kind": string(derr.Kind), "error": derr.Message})
		body := fiber.Map{"error": derr.Message, "kind": derr.Kind}
		if len(derr.Details) > 0 {
			body["details"] = derr.Details
		}
		return c.Status(code).JSON(body)
	}
	applog.Error(c, action, err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "unexpected error"})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg, "kind": domain.KindValidation})
}
