package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/h4j4x/expenses/internal/core/security"
	"github.com/h4j4x/expenses/internal/core/service"
)

// UserKey is the fiber locals key holding the authenticated *domain.User.
const UserKey = "auth_user"

// Protected verifies the bearer token and resolves the authenticated user,
// making the caller identity an explicit request value for downstream
// handlers.
func Protected(tokens *security.TokenManager, users *service.Users) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Missing access token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid header format"})
		}

		userID, err := tokens.Verify(parts[1])
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid access token"})
		}

		user, err := users.FindByID(c.Context(), userID)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid access token"})
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}
