package controllers

import (
	"rental-marketplace-backend/config"
	"rental-marketplace-backend/reservations/services"
	"rental-marketplace-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckAvailability answers how many units of a product are free over a
// half-open [start_date, end_date) window. Results are cached briefly
// in Redis; any mutation of the product's ledger invalidates the cache.
func (rc *ReservationController) CheckAvailability(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "Invalid or missing product_id",
		})
	}

	startDate, err := utils.ParseDate(c.Query("start_date"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "Invalid start_date, expected YYYY-MM-DD",
		})
	}
	endDate, err := utils.ParseDate(c.Query("end_date"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "Invalid end_date, expected YYYY-MM-DD",
		})
	}

	cacheKey := utils.AvailabilityCacheKey(productID, startDate, endDate)

	var cached services.AvailabilityResult
	hit, err := utils.GetCachedJSON(c.Context(), cacheKey, &cached)
	if err != nil {
		config.Logger.Error("Availability cache read failed", zap.Error(err))
	}
	if hit {
		return c.Status(200).JSON(fiber.Map{
			"data":   cached,
			"cached": true,
		})
	}

	result, err := rc.Service.CheckAvailability(c.Context(), productID, startDate, endDate, nil)
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := utils.CacheJSON(c.Context(), cacheKey, result); err != nil {
		config.Logger.Error("Availability cache write failed", zap.Error(err))
	}

	return c.Status(200).JSON(fiber.Map{
		"data":   result,
		"cached": false,
	})
}
