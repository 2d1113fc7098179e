package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"lapak/internal/services"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			zap.L().Debug("JWT validation failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		c.Locals("user_id", claims["user_id"])
		c.Locals("username", claims["username"])
		isSeller, _ := claims["is_seller"].(bool)
		c.Locals("is_seller", isSeller)

		return c.Next()
	}
}

// SellerRequired gates dashboard routes. It must run after AuthRequired.
func SellerRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		isSeller, _ := c.Locals("is_seller").(bool)
		if !isSeller {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "You don't have permission to access the dashboard",
			})
		}
		return c.Next()
	}
}
