package controllers

import (
	"strings"

	"rental-marketplace-backend/config"
	"rental-marketplace-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (oc *OrderController) GetFilteredOrders(c *fiber.Ctx) error {
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

	orders, total, err := oc.OrderRepo.GetFilteredOrders(params.PageSize, params.Offset(), filters)
	if err != nil {
		config.Logger.Error("Failed to fetch filtered orders", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch filtered orders"})
	}

	return c.Status(fiber.StatusOK).JSON(pagination.NewPaginatedResponse(c, orders, total, params))
}
