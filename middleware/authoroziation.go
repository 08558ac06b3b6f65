package middleware

import (
	"strings"

	"rental-marketplace-backend/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProtectedRoute verifies the access token from the Authorization
// header or the access_token cookie and stashes the payload in locals.
func ProtectedRoute(ctx *AppContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := c.Cookies("access_token")
		if accessToken == "" {
			header := c.Get("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				accessToken = strings.TrimPrefix(header, "Bearer ")
			}
		}

		if accessToken == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized",
				"error":   "Authentication required",
			})
		}

		payload, err := ctx.PasetoMaker.VerifyToken(accessToken)
		if err != nil {
			config.Logger.Debug("Invalid access token encountered", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized",
				"error":   "Session expired or invalid. Please log in again.",
			})
		}

		c.Locals("user", payload)
		return c.Next()
	}
}

// RequireRole gates a route to specific roles. Runs after
// ProtectedRoute, which populates the user local.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(c *fiber.Ctx) error {
		payload := UserFromLocals(c)
		if payload == nil || !allowed[payload.Role] {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Forbidden",
				"error":   "Insufficient permissions",
			})
		}
		return c.Next()
	}
}
