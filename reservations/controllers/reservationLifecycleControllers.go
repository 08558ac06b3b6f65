package controllers

import (
	"time"

	"rental-marketplace-backend/config"
	"rental-marketplace-backend/middleware"
	"rental-marketplace-backend/utils"
	ws "rental-marketplace-backend/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReleaseReservation cancels one active hold and frees its quantity for
// the whole window. Terminal holds are rejected.
func (rc *ReservationController) ReleaseReservation(c *fiber.Ctx) error {
	reservationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "Invalid reservation id",
		})
	}

	updatedBy := ""
	if payload := middleware.UserFromLocals(c); payload != nil {
		updatedBy = payload.Email
	}

	reservation, err := rc.Service.Release(c.Context(), reservationID, updatedBy)
	if err != nil {
		return respondServiceError(c, err)
	}

	utils.InvalidateProductAvailability(reservation.ProductID)

	if rc.Hub != nil {
		rc.Hub.BroadcastToProduct(reservation.ProductID.String(), ws.WebSocketMessage{
			Type: ws.MessageTypeReservationCancelled,
			Payload: map[string]interface{}{
				"reservation_id": reservation.ID,
				"product_id":     reservation.ProductID,
				"quantity":       reservation.Quantity,
			},
			Timestamp: time.Now(),
			ProductID: reservation.ProductID.String(),
		})
	}

	config.Logger.Info("Reservation released",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("updated_by", updatedBy),
	)

	return c.Status(200).JSON(fiber.Map{
		"message": "Reservation released successfully",
		"data":    reservation,
	})
}

// GetReservation returns one ledger entry by ID.
func (rc *ReservationController) GetReservation(c *fiber.Ctx) error {
	reservationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "Invalid reservation id",
		})
	}

	reservation, err := rc.Service.GetReservation(c.Context(), reservationID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(200).JSON(fiber.Map{"data": reservation})
}

// RunExpirySweep lets an admin trigger the stale-hold sweep outside the
// schedule, e.g. after bulk-importing quotations.
func (rc *ReservationController) RunExpirySweep(c *fiber.Ctx) error {
	expired, err := rc.Service.ExpireStale(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}

	for _, reservation := range expired {
		utils.InvalidateProductAvailability(reservation.ProductID)
	}

	config.Logger.Info("Manual expiry sweep finished", zap.Int("expired", len(expired)))

	return c.Status(200).JSON(fiber.Map{
		"message": "Expiry sweep finished",
		"expired": len(expired),
		"data":    expired,
	})
}
