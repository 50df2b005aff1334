package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"lapak/internal/apperrors"
)

// respondError translates an application error into the HTTP status and
// JSON envelope of this API.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperrors.KindValidation:
			status = fiber.StatusBadRequest
		case apperrors.KindNotFound:
			status = fiber.StatusNotFound
		case apperrors.KindConflict:
			status = fiber.StatusConflict
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// parseID extracts the numeric :id path parameter. A non-numeric or
// non-positive value is treated as a missing resource, matching the route
// contract.
func parseID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
