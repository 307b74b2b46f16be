package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/kyotenhq/kyoten-backend/internal/apperr"
	"github.com/kyotenhq/kyoten-backend/internal/dto"
)

// fail converts a service error into an HTTP response. Typed errors map to
// their status with their message; anything else is a 500 with a generic
// body so internals never leak to clients.
func fail(c *fiber.Ctx, err error) error {
	var status int
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		status = fiber.StatusNotFound
	case apperr.KindBadRequest:
		status = fiber.StatusBadRequest
	case apperr.KindUnauthorized:
		status = fiber.StatusUnauthorized
	case apperr.KindForbidden:
		status = fiber.StatusForbidden
	case apperr.KindConflict:
		status = fiber.StatusConflict
	default:
		slog.ErrorContext(c.UserContext(), "request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.Status(status).JSON(dto.ErrorResponse{
		Error: true, Message: err.Error(),
	})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid request body",
	})
}

// pathID parses a numeric path parameter. Fiber's ParamsInt accepts
// negatives, so parse unsigned here.
func pathID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id < 1 {
		return 0, apperr.BadRequest("invalid %s", name)
	}
	return uint(id), nil
}
