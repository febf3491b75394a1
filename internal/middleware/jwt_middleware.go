package middleware

import (
	"log"
	"strings"

	"contactbook/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserKey is the Locals key under which AuthRequired stores the
// authenticated *models.User.
const UserKey = "current_user"

// AuthRequired is a Fiber middleware that resolves the bearer access token to
// its user and stores the user in the request context. A missing, malformed,
// expired or wrong-scope token fails with 401, as does a token whose subject
// no longer exists.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := BearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		user, err := authService.GetCurrentUser(c.Context(), tokenString)
		if err != nil {
			log.Printf("Access token rejected: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Could not validate credentials",
			})
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. ok is false when the header is missing or malformed.
func BearerToken(c *fiber.Ctx) (token string, ok bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}
