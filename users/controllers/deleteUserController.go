package controllers

import (
	"rental-marketplace-backend/config"
	"rental-marketplace-backend/users/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeleteUser soft-deletes a back-office account and removes it from the
// search index. The DB delete and index delete commit together.
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	userID := c.Params("id")
	if _, err := uuid.Parse(userID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid user ID format",
			"error":   err.Error(),
		})
	}

	tx := uc.DB.Begin()
	if tx.Error != nil {
		config.Logger.Error("Failed to begin database transaction", zap.Error(tx.Error))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error: Could not start database transaction",
			"error":   tx.Error.Error(),
		})
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			config.Logger.Error("Panic during user deletion", zap.Any("panic", r))
			panic(r)
		}
	}()

	txUserRepo := repositories.NewUserRepository(tx)
	if err := txUserRepo.DeleteUser(userID); err != nil {
		tx.Rollback()
		config.Logger.Error("Database deletion failed", zap.Error(err), zap.String("user_id", userID))
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Failed to delete user",
			"error":   err.Error(),
		})
	}

	if uc.BleveRepo != nil {
		if err := uc.BleveRepo.DeleteUser(userID); err != nil {
			tx.Rollback()
			config.Logger.Error("Bleve deletion failed, rolled back DB soft-delete",
				zap.Error(err),
				zap.String("user_id", userID),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "User deletion failed due to search index error",
				"error":   err.Error(),
			})
		}
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to commit user deletion",
			"error":   err.Error(),
		})
	}

	config.Logger.Info("User deleted", zap.String("user_id", userID))

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "User deleted successfully",
		"data":    nil,
		"error":   nil,
	})
}
