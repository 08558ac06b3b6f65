package controllers

import (
	"time"

	"rental-marketplace-backend/config"
	"rental-marketplace-backend/db/models"
	"rental-marketplace-backend/middleware"
	"rental-marketplace-backend/reservations/services"
	"rental-marketplace-backend/utils"
	ws "rental-marketplace-backend/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type createReservationRequest struct {
	ProductID  uuid.UUID  `json:"product_id"`
	Quantity   int        `json:"quantity"`
	StartDate  string     `json:"start_date"`
	EndDate    string     `json:"end_date"`
	SourceType string     `json:"source_type"`
	SourceID   uuid.UUID  `json:"source_id"`
	CustomerID uuid.UUID  `json:"customer_id"`
	VendorID   uuid.UUID  `json:"vendor_id"`
	ExpiresAt  *time.Time `json:"expires_at"`
	Notes      *string    `json:"notes"`
}

// CreateReservation places a hold directly on the ledger. Quotation and
// order flows go through their own controllers; this endpoint exists
// for back-office adjustments.
func (rc *ReservationController) CreateReservation(c *fiber.Ctx) error {
	var req createReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid request",
			"error":   err.Error(),
		})
	}

	startDate, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "Invalid start_date, expected YYYY-MM-DD",
		})
	}
	endDate, err := utils.ParseDate(req.EndDate)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "Invalid end_date, expected YYYY-MM-DD",
		})
	}

	createdBy := ""
	if payload := middleware.UserFromLocals(c); payload != nil {
		createdBy = payload.Email
	}

	reservation, err := rc.Service.Reserve(c.Context(), services.ReserveParams{
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		StartDate:  startDate,
		EndDate:    endDate,
		SourceType: models.ReservationSourceType(req.SourceType),
		SourceID:   req.SourceID,
		CustomerID: req.CustomerID,
		VendorID:   req.VendorID,
		ExpiresAt:  req.ExpiresAt,
		Notes:      req.Notes,
		CreatedBy:  createdBy,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	utils.InvalidateProductAvailability(reservation.ProductID)

	if rc.Hub != nil {
		rc.Hub.BroadcastToProduct(reservation.ProductID.String(), ws.WebSocketMessage{
			Type: ws.MessageTypeReservationCreated,
			Payload: map[string]interface{}{
				"reservation_id": reservation.ID,
				"product_id":     reservation.ProductID,
				"quantity":       reservation.Quantity,
				"start_date":     reservation.StartDate,
				"end_date":       reservation.EndDate,
			},
			Timestamp: time.Now(),
			ProductID: reservation.ProductID.String(),
		})
	}

	config.Logger.Info("Reservation created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("product_id", reservation.ProductID.String()),
		zap.Int("quantity", reservation.Quantity),
		zap.String("created_by", createdBy),
	)

	return c.Status(201).JSON(fiber.Map{
		"message": "Reservation created successfully",
		"data":    reservation,
	})
}
