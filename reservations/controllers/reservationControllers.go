package controllers

import (
	"errors"

	"rental-marketplace-backend/reservations/repositories"
	"rental-marketplace-backend/reservations/services"
	ws "rental-marketplace-backend/websocket"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ReservationController struct {
	Service *services.ReservationService
	Repo    repositories.ReservationRepository
	DB      *gorm.DB
	Hub     *ws.Hub
}

// respondServiceError translates the service error taxonomy into HTTP
// responses. Unrecognized errors fall through as 500s.
func respondServiceError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   validationErr.Error(),
			"field":   validationErr.Field,
		})
	}

	var notFoundErr *services.NotFoundError
	if errors.As(err, &notFoundErr) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
			"error":   notFoundErr.Error(),
		})
	}

	var capacityErr *services.CapacityError
	if errors.As(err, &capacityErr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message":            "Insufficient stock",
			"error":              capacityErr.Error(),
			"requested_quantity": capacityErr.RequestedQuantity,
			"available_quantity": capacityErr.AvailableQuantity,
		})
	}

	var transitionErr *services.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Invalid transition",
			"error":   transitionErr.Error(),
		})
	}

	var conflictErr *services.ConcurrencyConflictError
	if errors.As(err, &conflictErr) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "Concurrent update conflict, please retry",
			"error":   conflictErr.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal error",
		"error":   err.Error(),
	})
}
