package controllers

import (
	"time"

	"rental-marketplace-backend/config"
	"rental-marketplace-backend/db/models"
	"rental-marketplace-backend/internal/tasks"
	"rental-marketplace-backend/middleware"
	reservation_services "rental-marketplace-backend/reservations/services"
	"rental-marketplace-backend/utils"
	ws "rental-marketplace-backend/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConfirmQuotation converts a live quotation into a rental order. Each
// line swaps its quotation hold for a non-expiring order hold, then an
// invoice is raised for the order total.
func (qc *QuotationController) ConfirmQuotation(c *fiber.Ctx) error {
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
			"error":   "Quotation is " + string(quotation.Status) + " and cannot be confirmed",
		})
	}
	if quotation.ExpiresAt != nil && time.Now().UTC().After(*quotation.ExpiresAt) {
		return c.Status(409).JSON(fiber.Map{
			"message": "Quotation expired",
			"error":   "The quotation validity window has passed, request a new quotation",
		})
	}

	year := time.Now().Year()
	orderSequence, err := qc.OrderRepo.CountOrdersForYear(year)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to confirm quotation",
			"error":   err.Error(),
		})
	}

	orderItems := make([]models.RentalOrderItem, 0, len(quotation.Items))
	for _, item := range quotation.Items {
		orderItems = append(orderItems, models.RentalOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			StartDate: item.StartDate,
			EndDate:   item.EndDate,
			UnitRate:  item.UnitRate,
			LineTotal: item.LineTotal,
		})
	}

	order := &models.RentalOrder{
		OrderNumber: utils.FormatOrderNumber(orderSequence + 1),
		QuotationID: &quotation.ID,
		CustomerID:  quotation.CustomerID,
		VendorID:    quotation.VendorID,
		Status:      models.ConfirmedOrderStatus,
		SubTotal:    quotation.SubTotal,
		VATAmount:   quotation.VATAmount,
		Total:       quotation.Total,
		Items:       orderItems,
		CreatedBy:   updatedBy,
	}

	if _, err := qc.OrderRepo.CreateOrder(order); err != nil {
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to create rental order",
			"error":   err.Error(),
		})
	}

	// Swap each quotation hold for an order hold. Releasing first means
	// the new hold does not collide with the old one in the overlap
	// check; the per-product lock keeps the swap safe from other writers.
	type convertedLine struct {
		quotationItem *models.QuotationItem
		orderHoldID   uuid.UUID
	}
	converted := make([]convertedLine, 0, len(quotation.Items))

	rollback := func() {
		for _, line := range converted {
			if _, err := qc.ReservationService.Release(c.Context(), line.orderHoldID, updatedBy); err != nil {
				config.Logger.Error("Failed to release order hold during confirm rollback",
					zap.Error(err),
					zap.String("reservation_id", line.orderHoldID.String()))
			}
			// Put the quotation hold back so the quotation stays live
			item := line.quotationItem
			reservation, err := qc.ReservationService.Reserve(c.Context(), reservation_services.ReserveParams{
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				StartDate:  item.StartDate,
				EndDate:    item.EndDate,
				SourceType: models.QuotationSource,
				SourceID:   quotation.ID,
				CustomerID: quotation.CustomerID,
				VendorID:   quotation.VendorID,
				ExpiresAt:  quotation.ExpiresAt,
				CreatedBy:  updatedBy,
			})
			if err != nil {
				config.Logger.Error("Failed to restore quotation hold during confirm rollback",
					zap.Error(err),
					zap.String("quotation_item_id", item.ID.String()))
				continue
			}
			if err := qc.QuotationRepo.SetItemReservation(item.ID, &reservation.ID); err != nil {
				config.Logger.Error("Failed to relink restored quotation hold",
					zap.Error(err),
					zap.String("quotation_item_id", item.ID.String()))
			}
		}
		if err := qc.OrderRepo.UpdateOrderStatus(order.ID, models.CancelledOrderStatus, updatedBy); err != nil {
			config.Logger.Error("Failed to void order during confirm rollback",
				zap.Error(err),
				zap.String("order_id", order.ID.String()))
		}
	}

	for i := range quotation.Items {
		item := &quotation.Items[i]

		if item.ReservationID != nil {
			if _, err := qc.ReservationService.Release(c.Context(), *item.ReservationID, updatedBy); err != nil {
				config.Logger.Error("Failed to release quotation hold during confirm",
					zap.Error(err),
					zap.String("reservation_id", item.ReservationID.String()))
				rollback()
				return respondReservationError(c, err)
			}
		}

		reservation, err := qc.ReservationService.Reserve(c.Context(), reservation_services.ReserveParams{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			StartDate:  item.StartDate,
			EndDate:    item.EndDate,
			SourceType: models.RentalOrderSource,
			SourceID:   order.ID,
			CustomerID: quotation.CustomerID,
			VendorID:   quotation.VendorID,
			CreatedBy:  updatedBy,
		})
		if err != nil {
			rollback()
			return respondReservationError(c, err)
		}

		converted = append(converted, convertedLine{quotationItem: item, orderHoldID: reservation.ID})
		if err := qc.OrderRepo.SetItemReservation(order.Items[i].ID, &reservation.ID); err != nil {
			config.Logger.Error("Failed to link reservation to order item",
				zap.Error(err),
				zap.String("item_id", order.Items[i].ID.String()))
		}
		utils.InvalidateProductAvailability(item.ProductID)
	}

	if err := qc.QuotationRepo.UpdateQuotationStatus(quotation.ID, models.ConfirmedQuotationStatus, updatedBy); err != nil {
		config.Logger.Error("Failed to mark quotation confirmed",
			zap.Error(err),
			zap.String("quotation_id", quotation.ID.String()))
	}

	// Raise the invoice for the confirmed order
	invoiceSequence, err := qc.OrderRepo.CountInvoicesForYear(year)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"message": "Order confirmed but invoice numbering failed",
			"error":   err.Error(),
		})
	}
	invoice := &models.Invoice{
		InvoiceNumber: utils.FormatInvoiceNumber(invoiceSequence + 1),
		RentalOrderID: order.ID,
		CustomerID:    order.CustomerID,
		Status:        models.IssuedInvoiceStatus,
		DueDate:       time.Now().UTC().AddDate(0, 0, 7),
		SubTotal:      order.SubTotal,
		VATAmount:     order.VATAmount,
		Total:         order.Total,
		CreatedBy:     updatedBy,
	}
	if _, err := qc.OrderRepo.CreateInvoice(invoice); err != nil {
		config.Logger.Error("Failed to create invoice for confirmed order",
			zap.Error(err),
			zap.String("order_id", order.ID.String()))
		return c.Status(500).JSON(fiber.Map{
			"message": "Order confirmed but invoice creation failed",
			"error":   err.Error(),
		})
	}

	if qc.AsynqClient != nil && quotation.Customer != nil {
		task, err := tasks.NewOrderConfirmedTask(tasks.OrderConfirmedPayload{
			OrderID:       order.ID,
			OrderNumber:   order.OrderNumber,
			InvoiceNumber: invoice.InvoiceNumber,
			CustomerEmail: quotation.Customer.Email,
			CustomerName:  quotation.Customer.FirstName + " " + quotation.Customer.LastName,
		})
		if err != nil {
			config.Logger.Error("Failed to build order confirmation task", zap.Error(err))
		} else if _, err := qc.AsynqClient.Enqueue(task); err != nil {
			config.Logger.Error("Failed to enqueue order confirmation task", zap.Error(err))
		}
	}

	if qc.Hub != nil {
		for _, line := range converted {
			qc.Hub.BroadcastToProduct(line.quotationItem.ProductID.String(), ws.WebSocketMessage{
				Type: ws.MessageTypeReservationCreated,
				Payload: map[string]interface{}{
					"order_id":    order.ID,
					"product_id":  line.quotationItem.ProductID,
					"quantity":    line.quotationItem.Quantity,
					"source_type": models.RentalOrderSource,
				},
				Timestamp: time.Now(),
				ProductID: line.quotationItem.ProductID.String(),
			})
		}
	}

	config.Logger.Info("Quotation confirmed",
		zap.String("quotation_id", quotation.ID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("invoice_number", invoice.InvoiceNumber),
	)

	return c.Status(201).JSON(fiber.Map{
		"message": "Quotation confirmed successfully",
		"data": fiber.Map{
			"order":   order,
			"invoice": invoice,
		},
	})
}
