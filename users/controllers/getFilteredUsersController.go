package controllers

import (
	"strings"

	"rental-marketplace-backend/config"
	"rental-marketplace-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (uc *UserController) GetFilteredUsers(c *fiber.Ctx) error {
	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	filters := make(map[string]string)
	for key, value := range params.Filters {
		value = strings.TrimSpace(value)
		if value == "" || strings.ToLower(value) == "null" {
			continue
		}
		filters[key] = value
	}

	users, total, err := uc.UserRepo.GetFilteredUsers(params.PageSize, params.Offset(), filters)
	if err != nil {
		config.Logger.Error("Failed to fetch filtered users", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch filtered users"})
	}

	return c.Status(fiber.StatusOK).JSON(pagination.NewPaginatedResponse(c, users, total, params))
}

// GetUserByID returns one back-office user.
func (uc *UserController) GetUserByID(c *fiber.Ctx) error {
	user, err := uc.UserRepo.GetUserByID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "User not found",
			"data":    nil,
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": user})
}
