package controllers

import (
	"strings"

	"rental-marketplace-backend/config"
	"rental-marketplace-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (pc *ProductController) GetFilteredProducts(c *fiber.Ctx) error {
	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	// Clean up and sanitize the query parameters
	filters := make(map[string]string)
	for key, value := range params.Filters {
		value = strings.TrimSpace(value)
		if value == "" || strings.ToLower(value) == "null" {
			continue
		}
		filters[key] = value
	}

	products, total, err := pc.ProductRepo.GetFilteredProducts(filters, params.PageSize, params.Offset())
	if err != nil {
		config.Logger.Error("Failed to fetch filtered products", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch filtered products"})
	}

	return c.Status(fiber.StatusOK).JSON(pagination.NewPaginatedResponse(c, products, total, params))
}

func (pc *ProductController) GetProductByID(c *fiber.Ctx) error {
	id := c.Params("id")

	product, err := pc.ProductRepo.GetProductByID(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		config.Logger.Error("Failed to fetch product", zap.Error(err), zap.String("productID", id))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch product"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": product})
}
