package middleware

import (
	"log"
	"strings"

	"brutarie/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware that checks for a valid JWT token and
// loads the account behind it. A blocked account never passes, whatever the
// state of its token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := parseBearer(c, authService)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": err.Error(),
			})
		}

		userID, _ := claims["user_id"].(string)
		user, err := authService.GetUser(userID)
		if err != nil {
			log.Printf("Token referenced unknown user %s: %v", userID, err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}
		if user.Blocked {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Your account has been blocked. Contact the administrator for more information.",
			})
		}

		c.Locals("user_id", user.ID)
		c.Locals("username", user.Username)
		return c.Next()
	}
}

// OptionalAuth populates the request identity when a valid token is present
// and otherwise lets the request through as a guest.
func OptionalAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := parseBearer(c, authService)
		if err == nil {
			if userID, ok := claims["user_id"].(string); ok {
				if user, err := authService.GetUser(userID); err == nil && !user.Blocked {
					c.Locals("user_id", user.ID)
					c.Locals("username", user.Username)
				}
			}
		}
		return c.Next()
	}
}

func parseBearer(c *fiber.Ctx, authService *services.AuthService) (map[string]interface{}, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Authorization header is required")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Authorization header format must be 'Bearer <token>'")
	}

	claims, err := authService.ValidateToken(parts[1])
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}
	return claims, nil
}
