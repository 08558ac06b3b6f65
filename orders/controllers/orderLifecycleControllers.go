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

// MarkPickedUp records that the customer collected the rented stock.
// The order holds stay active until the return.
func (oc *OrderController) MarkPickedUp(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "Invalid order id",
		})
	}

	updatedBy := ""
	if payload := middleware.UserFromLocals(c); payload != nil {
		updatedBy = payload.Email
	}

	if err := oc.OrderRepo.MarkPickedUp(orderID, time.Now().UTC(), updatedBy); err != nil {
		return c.Status(409).JSON(fiber.Map{
			"message": "Pickup failed",
			"error":   err.Error(),
		})
	}

	config.Logger.Info("Order marked as picked up",
		zap.String("order_id", orderID.String()),
		zap.String("updated_by", updatedBy),
	)

	return c.Status(200).JSON(fiber.Map{"message": "Order marked as picked up"})
}

// ProcessReturn closes out a rental: the order is marked returned and
// every ledger hold backing it is completed, freeing the stock.
func (oc *OrderController) ProcessReturn(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "Invalid order id",
		})
	}

	updatedBy := ""
	if payload := middleware.UserFromLocals(c); payload != nil {
		updatedBy = payload.Email
	}

	order, err := oc.OrderRepo.GetOrderByID(orderID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"message": "Order not found",
			"error":   err.Error(),
		})
	}

	if err := oc.OrderRepo.MarkReturned(orderID, time.Now().UTC(), updatedBy); err != nil {
		return c.Status(409).JSON(fiber.Map{
			"message": "Return failed",
			"error":   err.Error(),
		})
	}

	completed, err := oc.ReservationService.CompleteBySource(c.Context(), models.RentalOrderSource, orderID, updatedBy)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"message": "Order returned but completing holds failed",
			"error":   err.Error(),
		})
	}

	for _, item := range order.Items {
		utils.InvalidateProductAvailability(item.ProductID)
		if oc.Hub != nil {
			oc.Hub.BroadcastToProduct(item.ProductID.String(), ws.WebSocketMessage{
				Type: ws.MessageTypeReservationCompleted,
				Payload: map[string]interface{}{
					"order_id":   order.ID,
					"product_id": item.ProductID,
					"quantity":   item.Quantity,
				},
				Timestamp: time.Now(),
				ProductID: item.ProductID.String(),
			})
		}
	}

	config.Logger.Info("Order returned",
		zap.String("order_id", orderID.String()),
		zap.Int64("holds_completed", completed),
		zap.String("updated_by", updatedBy),
	)

	return c.Status(200).JSON(fiber.Map{
		"message":         "Order returned successfully",
		"holds_completed": completed,
	})
}

// CancelOrder voids a confirmed order before pickup, releasing its
// holds and voiding any unpaid invoices.
func (oc *OrderController) CancelOrder(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "Invalid order id",
		})
	}

	updatedBy := ""
	if payload := middleware.UserFromLocals(c); payload != nil {
		updatedBy = payload.Email
	}

	order, err := oc.OrderRepo.GetOrderByID(orderID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"message": "Order not found",
			"error":   err.Error(),
		})
	}

	if order.Status != models.ConfirmedOrderStatus {
		return c.Status(409).JSON(fiber.Map{
			"message": "Invalid order state",
			"error":   "Only confirmed orders can be cancelled; picked up stock must be returned instead",
		})
	}

	released, err := oc.ReservationService.CancelBySource(c.Context(), models.RentalOrderSource, orderID, updatedBy)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to release order holds",
			"error":   err.Error(),
		})
	}

	if err := oc.OrderRepo.UpdateOrderStatus(orderID, models.CancelledOrderStatus, updatedBy); err != nil {
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to cancel order",
			"error":   err.Error(),
		})
	}

	voided, err := oc.OrderRepo.VoidInvoicesForOrder(orderID, updatedBy)
	if err != nil {
		config.Logger.Error("Failed to void invoices for cancelled order",
			zap.Error(err),
			zap.String("order_id", orderID.String()))
	}

	for _, item := range order.Items {
		utils.InvalidateProductAvailability(item.ProductID)
		if oc.Hub != nil {
			oc.Hub.BroadcastToProduct(item.ProductID.String(), ws.WebSocketMessage{
				Type: ws.MessageTypeReservationCancelled,
				Payload: map[string]interface{}{
					"order_id":   order.ID,
					"product_id": item.ProductID,
					"quantity":   item.Quantity,
				},
				Timestamp: time.Now(),
				ProductID: item.ProductID.String(),
			})
		}
	}

	config.Logger.Info("Order cancelled",
		zap.String("order_id", orderID.String()),
		zap.Int64("holds_released", released),
		zap.Int64("invoices_voided", voided),
		zap.String("updated_by", updatedBy),
	)

	return c.Status(200).JSON(fiber.Map{
		"message":         "Order cancelled successfully",
		"holds_released":  released,
		"invoices_voided": voided,
	})
}

// GetOrder returns one rental order with its items and invoices.
func (oc *OrderController) GetOrder(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "Invalid order id",
		})
	}

	order, err := oc.OrderRepo.GetOrderByID(orderID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"message": "Order not found",
			"error":   err.Error(),
		})
	}

	return c.Status(200).JSON(fiber.Map{"data": order})
}
