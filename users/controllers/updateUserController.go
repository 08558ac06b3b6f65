package controllers

import (
	"rental-marketplace-backend/config"
	"rental-marketplace-backend/db/models"
	"rental-marketplace-backend/middleware"
	"rental-marketplace-backend/users/repositories"
	"rental-marketplace-backend/users/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UpdateUserPayload struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Phone       *string `json:"phone"`
	Role        string  `json:"role"`
	Active      *bool   `json:"active"`
	Password    string  `json:"password"`     // Current password, required for a password change
	NewPassword string  `json:"new_password"` // New password to set
}

func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid user ID format",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	tx := uc.DB.Begin()
	if tx.Error != nil {
		config.Logger.Error("Failed to begin transaction", zap.Error(tx.Error))
		return c.Status(500).JSON(fiber.Map{
			"message": "Internal server error",
			"error":   tx.Error.Error(),
		})
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			config.Logger.Error("Panic during user update", zap.Any("panic", r))
			panic(r)
		}
	}()

	txUserRepo := repositories.NewUserRepository(tx)
	existingUser, err := txUserRepo.GetUserByID(id)
	if err != nil {
		tx.Rollback()
		return c.Status(404).JSON(fiber.Map{
			"message": "User not found",
			"error":   err.Error(),
		})
	}

	var payload UpdateUserPayload
	if err := c.BodyParser(&payload); err != nil {
		tx.Rollback()
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if payload.FirstName != "" {
		existingUser.FirstName = payload.FirstName
	}
	if payload.LastName != "" {
		existingUser.LastName = payload.LastName
	}
	if payload.Phone != nil {
		existingUser.Phone = payload.Phone
	}
	if payload.Role != "" {
		role := models.Role(payload.Role)
		if role != models.AdminRole && role != models.ManagerRole && role != models.StaffRole {
			tx.Rollback()
			return c.Status(400).JSON(fiber.Map{
				"message": "Validation error",
				"error":   "Invalid role",
			})
		}
		existingUser.Role = role
	}
	if payload.Active != nil {
		existingUser.Active = *payload.Active
	}

	if payload.NewPassword != "" {
		if !repositories.CheckPasswordHash(payload.Password, existingUser.Password) {
			tx.Rollback()
			return c.Status(401).JSON(fiber.Map{
				"message": "Password change rejected",
				"error":   "Current password is incorrect",
			})
		}
		if validationError := services.ValidatePassword(payload.NewPassword); validationError != "" {
			tx.Rollback()
			return c.Status(400).JSON(fiber.Map{
				"message": "Validation error: " + validationError,
				"error":   validationError,
			})
		}
		hashed, err := repositories.HashPassword(payload.NewPassword)
		if err != nil {
			tx.Rollback()
			return c.Status(500).JSON(fiber.Map{
				"message": "Failed to update password",
				"error":   err.Error(),
			})
		}
		existingUser.Password = hashed
	}

	if requester := middleware.UserFromLocals(c); requester != nil {
		existingUser.UpdatedBy = &requester.Email
	}

	updatedUser, err := txUserRepo.UpdateUser(existingUser)
	if err != nil {
		tx.Rollback()
		config.Logger.Error("Failed to update user", zap.Error(err), zap.String("user_id", id))
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to update user",
			"error":   err.Error(),
		})
	}

	if uc.BleveRepo != nil {
		if err := uc.BleveRepo.UpdateUser(*updatedUser); err != nil {
			tx.Rollback()
			config.Logger.Error("Bleve update failed, rolled back user update",
				zap.Error(err),
				zap.String("user_id", id),
			)
			return c.Status(500).JSON(fiber.Map{
				"message": "User update failed due to search index error",
				"error":   err.Error(),
			})
		}
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to commit user update",
			"error":   err.Error(),
		})
	}

	config.Logger.Info("User updated",
		zap.String("user_id", id),
		zap.String("email", updatedUser.Email),
	)

	return c.Status(200).JSON(fiber.Map{
		"message": "User updated successfully",
		"data":    updatedUser,
		"error":   nil,
	})
}
