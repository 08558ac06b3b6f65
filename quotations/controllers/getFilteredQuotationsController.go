package controllers

import (
	"strings"

	"rental-marketplace-backend/config"
	"rental-marketplace-backend/db/models"
	"rental-marketplace-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (qc *QuotationController) GetFilteredQuotations(c *fiber.Ctx) error {
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

	quotations, total, err := qc.QuotationRepo.GetFilteredQuotations(params.PageSize, params.Offset(), filters)
	if err != nil {
		config.Logger.Error("Failed to fetch filtered quotations", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch filtered quotations"})
	}

	return c.Status(fiber.StatusOK).JSON(pagination.NewPaginatedResponse(c, quotations, total, params))
}

func (qc *QuotationController) CreateCustomer(c *fiber.Ctx) error {
	var customer models.Customer
	if err := c.BodyParser(&customer); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid request",
			"error":   err.Error(),
		})
	}

	if customer.FirstName == "" || customer.LastName == "" || customer.Email == "" {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "First name, last name and email are required",
		})
	}

	existingCustomer, _ := qc.QuotationRepo.GetCustomerByEmail(customer.Email)
	if existingCustomer != nil {
		return c.Status(409).JSON(fiber.Map{
			"message": "Duplicate customer",
			"error":   "A customer with this email already exists.",
		})
	}

	createdCustomer, err := qc.QuotationRepo.CreateCustomer(&customer)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to create customer",
			"error":   err.Error(),
		})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Customer created successfully",
		"data":    createdCustomer,
	})
}
