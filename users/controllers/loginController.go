package controllers

import (
	"context"
	"os"
	"time"

	"rental-marketplace-backend/config"
	"rental-marketplace-backend/token"
	"rental-marketplace-backend/users/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type LoginController struct {
	UserRepo    repositories.UserRepository
	PasetoMaker token.Maker
	Ctx         context.Context
	RedisClient *redis.Client
}

func accessTokenDuration() time.Duration {
	if raw := os.Getenv("ACCESS_TOKEN_DURATION"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			return d
		}
		config.Logger.Warn("Invalid ACCESS_TOKEN_DURATION, using default", zap.String("value", raw))
	}
	return 24 * time.Hour
}

func (lc *LoginController) LoginUser(c *fiber.Ctx) error {
	type LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		config.Logger.Error("Error parsing login request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request",
			"data":    nil,
			"error":   "Invalid request format.",
		})
	}

	user, err := lc.UserRepo.GetUserByEmail(req.Email)
	if err != nil || !repositories.CheckPasswordHash(req.Password, user.Password) {
		if err != nil {
			config.Logger.Warn("Login attempt: user not found or database error",
				zap.String("email", req.Email),
				zap.Error(err),
			)
		} else {
			config.Logger.Warn("Login attempt: invalid password",
				zap.String("email", req.Email),
			)
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"data":    nil,
			"error":   "Invalid email or password.",
		})
	}

	if !user.Active {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Account disabled",
			"data":    nil,
			"error":   "This account has been deactivated.",
		})
	}

	duration := accessTokenDuration()
	accessToken, err := lc.PasetoMaker.CreateToken(user.Email, string(user.Role), duration)
	if err != nil {
		config.Logger.Error("Failed to create access token",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Authentication failed",
			"data":    nil,
			"error":   "Could not create session.",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  time.Now().Add(duration),
		HTTPOnly: true,
		Secure:   os.Getenv("APP_ENV") == "production",
		SameSite: "Lax",
		Path:     "/",
	})

	if err := lc.UserRepo.RecordLogin(user.ID); err != nil {
		config.Logger.Warn("Failed to record login timestamp",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
	}

	config.Logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
	)

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"data": fiber.Map{
			"user":         user,
			"access_token": accessToken,
			"expires_at":   time.Now().Add(duration),
		},
		"error": nil,
	})
}
