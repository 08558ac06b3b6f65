package controllers

import (
	"time"

	"rental-marketplace-backend/config"
	"rental-marketplace-backend/db/models"
	"rental-marketplace-backend/internal/tasks"
	"rental-marketplace-backend/middleware"
	"rental-marketplace-backend/quotations/services"
	reservation_services "rental-marketplace-backend/reservations/services"
	"rental-marketplace-backend/utils"
	ws "rental-marketplace-backend/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type quotationLineRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
}

type createQuotationRequest struct {
	CustomerID uuid.UUID              `json:"customer_id"`
	VendorID   uuid.UUID              `json:"vendor_id"`
	Notes      *string                `json:"notes"`
	Items      []quotationLineRequest `json:"items"`
}

// CreateQuotation prices the requested lines and places one
// quotation-sourced hold per line. Holds and the quotation share the
// same expiry so the sweep releases them together.
func (qc *QuotationController) CreateQuotation(c *fiber.Ctx) error {
	var req createQuotationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid request",
			"error":   err.Error(),
		})
	}

	createdBy := ""
	if payload := middleware.UserFromLocals(c); payload != nil {
		createdBy = payload.Email
	}

	// Parse and validate the lines up front
	lines := make([]services.QuotationLineInput, 0, len(req.Items))
	starts := make([]time.Time, len(req.Items))
	ends := make([]time.Time, len(req.Items))
	for i, item := range req.Items {
		start, err := utils.ParseDate(item.StartDate)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{
				"message": "Validation failed",
				"error":   "Invalid start_date, expected YYYY-MM-DD",
			})
		}
		end, err := utils.ParseDate(item.EndDate)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{
				"message": "Validation failed",
				"error":   "Invalid end_date, expected YYYY-MM-DD",
			})
		}
		starts[i], ends[i] = start, end
		lines = append(lines, services.QuotationLineInput{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			StartDate: start,
			EndDate:   end,
		})
	}
	if validationError := services.ValidateQuotationLines(lines); validationError != "" {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   validationError,
		})
	}

	customer, err := qc.QuotationRepo.GetCustomerByID(req.CustomerID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"message": "Customer not found",
			"error":   err.Error(),
		})
	}

	// Price each line from the current rate card
	quotationItems := make([]models.QuotationItem, 0, len(req.Items))
	lineTotals := make([]decimal.Decimal, 0, len(req.Items))
	for i, item := range req.Items {
		product, err := qc.ProductRepo.GetProductByID(item.ProductID.String())
		if err != nil {
			return c.Status(404).JSON(fiber.Map{
				"message": "Product not found",
				"error":   err.Error(),
			})
		}
		if !product.IsRentable || !product.IsActive {
			return c.Status(409).JSON(fiber.Map{
				"message": "Product not rentable",
				"error":   "Product " + product.SKU + " is not currently rentable",
			})
		}

		unitRate, lineTotal := services.PriceLine(product, item.Quantity, starts[i], ends[i])
		lineTotals = append(lineTotals, lineTotal)
		quotationItems = append(quotationItems, models.QuotationItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			StartDate: starts[i],
			EndDate:   ends[i],
			UnitRate:  unitRate,
			LineTotal: lineTotal,
		})
	}

	subTotal, vatAmount, total := services.ComputeTotals(lineTotals, qc.VATRate)

	year := time.Now().Year()
	sequence, err := qc.QuotationRepo.CountQuotationsForYear(year)
	if err != nil {
		config.Logger.Error("Failed to count quotations for numbering", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to create quotation",
			"error":   err.Error(),
		})
	}

	expiresAt := time.Now().UTC().Add(reservation_services.DefaultQuotationTTL)
	quotation := &models.Quotation{
		QuotationNumber: utils.FormatQuotationNumber(sequence + 1),
		CustomerID:      req.CustomerID,
		VendorID:        req.VendorID,
		Status:          models.SentQuotationStatus,
		ExpiresAt:       &expiresAt,
		SubTotal:        subTotal,
		VATAmount:       vatAmount,
		Total:           total,
		Items:           quotationItems,
		Notes:           req.Notes,
		CreatedBy:       createdBy,
	}

	if _, err := qc.QuotationRepo.CreateQuotation(quotation); err != nil {
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to create quotation",
			"error":   err.Error(),
		})
	}

	// Place one hold per line. On failure, release holds already placed
	// and void the quotation so nothing stays half-reserved.
	placed := make([]uuid.UUID, 0, len(quotation.Items))
	for i := range quotation.Items {
		item := &quotation.Items[i]
		reservation, err := qc.ReservationService.Reserve(c.Context(), reservation_services.ReserveParams{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			StartDate:  item.StartDate,
			EndDate:    item.EndDate,
			SourceType: models.QuotationSource,
			SourceID:   quotation.ID,
			CustomerID: req.CustomerID,
			VendorID:   req.VendorID,
			ExpiresAt:  &expiresAt,
			CreatedBy:  createdBy,
		})
		if err != nil {
			for _, reservationID := range placed {
				if _, releaseErr := qc.ReservationService.Release(c.Context(), reservationID, createdBy); releaseErr != nil {
					config.Logger.Error("Failed to release hold while rolling back quotation",
						zap.Error(releaseErr),
						zap.String("reservation_id", reservationID.String()))
				}
			}
			if statusErr := qc.QuotationRepo.UpdateQuotationStatus(quotation.ID, models.CancelledQuotationStatus, createdBy); statusErr != nil {
				config.Logger.Error("Failed to void quotation after hold failure",
					zap.Error(statusErr),
					zap.String("quotation_id", quotation.ID.String()))
			}
			return respondReservationError(c, err)
		}

		placed = append(placed, reservation.ID)
		if err := qc.QuotationRepo.SetItemReservation(item.ID, &reservation.ID); err != nil {
			config.Logger.Error("Failed to link reservation to quotation item",
				zap.Error(err),
				zap.String("item_id", item.ID.String()))
		}
		item.ReservationID = &reservation.ID

		utils.InvalidateProductAvailability(item.ProductID)
		if qc.Hub != nil {
			qc.Hub.BroadcastToProduct(item.ProductID.String(), ws.WebSocketMessage{
				Type: ws.MessageTypeReservationCreated,
				Payload: map[string]interface{}{
					"reservation_id": reservation.ID,
					"product_id":     item.ProductID,
					"quantity":       item.Quantity,
					"source_type":    models.QuotationSource,
				},
				Timestamp: time.Now(),
				ProductID: item.ProductID.String(),
			})
		}
	}

	if qc.AsynqClient != nil {
		task, err := tasks.NewQuotationCreatedTask(tasks.QuotationCreatedPayload{
			QuotationID:     quotation.ID,
			QuotationNumber: quotation.QuotationNumber,
			CustomerEmail:   customer.Email,
			CustomerName:    customer.FirstName + " " + customer.LastName,
			ValidUntil:      expiresAt,
		})
		if err != nil {
			config.Logger.Error("Failed to build quotation email task", zap.Error(err))
		} else if _, err := qc.AsynqClient.Enqueue(task); err != nil {
			config.Logger.Error("Failed to enqueue quotation email task", zap.Error(err))
		}
	}

	config.Logger.Info("Quotation created",
		zap.String("quotation_id", quotation.ID.String()),
		zap.String("quotation_number", quotation.QuotationNumber),
		zap.Int("lines", len(quotation.Items)),
		zap.String("created_by", createdBy),
	)

	return c.Status(201).JSON(fiber.Map{
		"message": "Quotation created successfully",
		"data":    quotation,
	})
}
