package controllers

import (
	"context"

	indexing_repository "rental-marketplace-backend/bleve/repositories"
	"rental-marketplace-backend/config"
	"rental-marketplace-backend/db/models"
	"rental-marketplace-backend/middleware"
	"rental-marketplace-backend/users/repositories"
	"rental-marketplace-backend/users/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserController struct {
	UserRepo  repositories.UserRepository
	DB        *gorm.DB
	Ctx       context.Context
	BleveRepo indexing_repository.BleveRepositoryInterface
}

func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var user models.User

	if err := c.BodyParser(&user); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	if validationError := services.ValidateUser(&user); validationError != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation error: " + validationError,
			"data":    nil,
			"error":   validationError,
		})
	}

	if validationError := services.ValidatePassword(user.Password); validationError != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation error: " + validationError,
			"data":    nil,
			"error":   validationError,
		})
	}

	if validationError := services.ValidateEmail(user.Email, uc.UserRepo); validationError != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation error: " + validationError,
			"data":    nil,
			"error":   validationError,
		})
	}

	if payload := middleware.UserFromLocals(c); payload != nil {
		user.CreatedBy = payload.Email
	}
	user.Active = true

	createdUser, err := uc.UserRepo.CreateUser(&user)
	if err != nil {
		config.Logger.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to create user",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	if uc.BleveRepo != nil {
		if err := uc.BleveRepo.IndexSingleUser(*createdUser); err != nil {
			// The row is committed; search lags until the next reindex.
			config.Logger.Error("Failed to index new user in Bleve",
				zap.Error(err),
				zap.String("user_id", createdUser.ID.String()),
			)
		}
	}

	config.Logger.Info("User created",
		zap.String("user_id", createdUser.ID.String()),
		zap.String("email", createdUser.Email),
		zap.String("role", string(createdUser.Role)),
	)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"data":    createdUser,
		"error":   nil,
	})
}
