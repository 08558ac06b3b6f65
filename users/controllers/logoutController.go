package controllers

import (
	"os"
	"time"

	"rental-marketplace-backend/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (lc *LoginController) LogoutUser(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   os.Getenv("APP_ENV") == "production",
		SameSite: "Lax",
		Path:     "/",
	})

	config.Logger.Info("User logged out",
		zap.String("client_ip", c.IP()),
	)

	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
		"data":    nil,
		"error":   nil,
	})
}
