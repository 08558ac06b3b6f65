package controllers

import (
	"time"

	"rental-marketplace-backend/config"
	"rental-marketplace-backend/db/models"
	"rental-marketplace-backend/middleware"
	"rental-marketplace-backend/utils"
	ws "rental-marketplace-backend/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CancelQuotation voids a live quotation and releases all of its holds.
func (qc *QuotationController) CancelQuotation(c *fiber.Ctx) error {
	quotationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "Invalid quotation id",
		})
	}

	updatedBy := ""
	if payload := middleware.UserFromLocals(c); payload != nil {
		updatedBy = payload.Email
	}

	quotation, err := qc.QuotationRepo.GetQuotationByID(quotationID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"message": "Quotation not found",
			"error":   err.Error(),
		})
	}

	if quotation.Status != models.DraftQuotationStatus && quotation.Status != models.SentQuotationStatus {
		return c.Status(409).JSON(fiber.Map{
			"message": "Invalid quotation state",
			"error":   "Quotation is " + string(quotation.Status) + " and cannot be cancelled",
		})
	}

	released, err := qc.ReservationService.CancelBySource(c.Context(), models.QuotationSource, quotation.ID, updatedBy)
	if err != nil {
		return respondReservationError(c, err)
	}

	if err := qc.QuotationRepo.UpdateQuotationStatus(quotation.ID, models.CancelledQuotationStatus, updatedBy); err != nil {
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to cancel quotation",
			"error":   err.Error(),
		})
	}

	for _, item := range quotation.Items {
		utils.InvalidateProductAvailability(item.ProductID)
		if qc.Hub != nil {
			qc.Hub.BroadcastToProduct(item.ProductID.String(), ws.WebSocketMessage{
				Type: ws.MessageTypeReservationCancelled,
				Payload: map[string]interface{}{
					"quotation_id": quotation.ID,
					"product_id":   item.ProductID,
					"quantity":     item.Quantity,
				},
				Timestamp: time.Now(),
				ProductID: item.ProductID.String(),
			})
		}
	}

	config.Logger.Info("Quotation cancelled",
		zap.String("quotation_id", quotation.ID.String()),
		zap.Int64("holds_released", released),
		zap.String("updated_by", updatedBy),
	)

	return c.Status(200).JSON(fiber.Map{
		"message":        "Quotation cancelled successfully",
		"holds_released": released,
	})
}

// GetQuotation returns one quotation with its items.
func (qc *QuotationController) GetQuotation(c *fiber.Ctx) error {
	quotationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "Invalid quotation id",
		})
	}

	quotation, err := qc.QuotationRepo.GetQuotationByID(quotationID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"message": "Quotation not found",
			"error":   err.Error(),
		})
	}

	return c.Status(200).JSON(fiber.Map{"data": quotation})
}
