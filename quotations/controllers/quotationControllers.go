package controllers

import (
	"errors"

	orders_repositories "rental-marketplace-backend/orders/repositories"
	products_repositories "rental-marketplace-backend/products/repositories"
	"rental-marketplace-backend/quotations/repositories"
	reservation_services "rental-marketplace-backend/reservations/services"
	ws "rental-marketplace-backend/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type QuotationController struct {
	QuotationRepo      repositories.QuotationRepository
	OrderRepo          orders_repositories.OrderRepository
	ProductRepo        products_repositories.ProductRepository
	ReservationService *reservation_services.ReservationService
	DB                 *gorm.DB
	AsynqClient        *asynq.Client
	Hub                *ws.Hub
	VATRate            decimal.Decimal
}

// respondReservationError maps the reservation service error taxonomy
// onto quotation endpoints.
func respondReservationError(c *fiber.Ctx, err error) error {
	var validationErr *reservation_services.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   validationErr.Error(),
		})
	}

	var notFoundErr *reservation_services.NotFoundError
	if errors.As(err, &notFoundErr) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
			"error":   notFoundErr.Error(),
		})
	}

	var capacityErr *reservation_services.CapacityError
	if errors.As(err, &capacityErr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message":            "Insufficient stock",
			"error":              capacityErr.Error(),
			"product_id":         capacityErr.ProductID,
			"requested_quantity": capacityErr.RequestedQuantity,
			"available_quantity": capacityErr.AvailableQuantity,
		})
	}

	var conflictErr *reservation_services.ConcurrencyConflictError
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
