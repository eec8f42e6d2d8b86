package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/h4j4x/expenses/internal/adapter/middleware"
	"github.com/h4j4x/expenses/internal/core/domain"
)

var validate = validator.New()

// currentUser returns the authenticated user placed in locals by the auth
// middleware.
func currentUser(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(middleware.UserKey).(*domain.User)
	return user
}

// parseBody decodes and validates the request body, replying 400 on failure.
// The bool return tells the handler whether to continue.
func parseBody(c *fiber.Ctx, out any) bool {
	if err := c.BodyParser(out); err != nil {
		slog.Warn("Invalid request body", "error", err, "path", c.Path())
		_ = c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		return false
	}
	if err := validate.Struct(out); err != nil {
		_ = c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		return false
	}
	return true
}

// fail maps domain errors to HTTP responses. Unknown errors become opaque 500s.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, domain.ErrDuplicateName),
		errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrValidation):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	default:
		slog.Error("Request failed", "error", err, "path", c.Path())
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Internal error"})
	}
}
