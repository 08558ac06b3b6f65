package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"rental-marketplace-backend/config"
	"rental-marketplace-backend/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NewServeMux registers all background task handlers.
func NewServeMux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReservationExpired, HandleReservationExpiredTask)
	mux.HandleFunc(TypeQuotationCreated, HandleQuotationCreatedTask)
	mux.HandleFunc(TypeOrderConfirmed, HandleOrderConfirmedTask)
	return mux
}

func HandleReservationExpiredTask(ctx context.Context, t *asynq.Task) error {
	var payload ReservationExpiredPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal reservation expired payload: %w", err)
	}

	if payload.OwnerEmail == "" {
		config.Logger.Warn("Expired reservation has no owner email, skipping notification",
			zap.String("reservation_id", payload.ReservationID.String()))
		return nil
	}

	subject := "Your quotation hold has expired"
	body := fmt.Sprintf(
		"<p>Your reservation hold of %d unit(s) placed from quotation %s has expired and the stock has been released.</p>"+
			"<p>If you still need the items, please request a new quotation.</p>",
		payload.Quantity, payload.SourceID,
	)

	if err := utils.SendEmail(payload.OwnerEmail, subject, body); err != nil {
		config.Logger.Error("Failed to send expiry notification",
			zap.Error(err),
			zap.String("reservation_id", payload.ReservationID.String()))
		return err
	}

	config.Logger.Info("Expiry notification sent",
		zap.String("reservation_id", payload.ReservationID.String()),
		zap.String("to", payload.OwnerEmail))
	return nil
}

func HandleQuotationCreatedTask(ctx context.Context, t *asynq.Task) error {
	var payload QuotationCreatedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal quotation created payload: %w", err)
	}

	subject := fmt.Sprintf("Quotation %s", payload.QuotationNumber)
	body := fmt.Sprintf(
		"<p>Dear %s,</p>"+
			"<p>Your quotation %s has been prepared. The quoted stock is held for you until %s.</p>"+
			"<p>Confirm the quotation before then to convert it into a rental order.</p>",
		payload.CustomerName, payload.QuotationNumber, payload.ValidUntil.Format("02 Jan 2006 15:04"),
	)

	if err := utils.SendEmail(payload.CustomerEmail, subject, body); err != nil {
		config.Logger.Error("Failed to send quotation email",
			zap.Error(err),
			zap.String("quotation_id", payload.QuotationID.String()))
		return err
	}
	return nil
}

func HandleOrderConfirmedTask(ctx context.Context, t *asynq.Task) error {
	var payload OrderConfirmedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal order confirmed payload: %w", err)
	}

	subject := fmt.Sprintf("Rental order %s confirmed", payload.OrderNumber)
	body := fmt.Sprintf(
		"<p>Dear %s,</p>"+
			"<p>Your rental order %s has been confirmed and invoice %s has been raised.</p>"+
			"<p>The reserved stock will be held for the full rental period.</p>",
		payload.CustomerName, payload.OrderNumber, payload.InvoiceNumber,
	)

	if err := utils.SendEmail(payload.CustomerEmail, subject, body); err != nil {
		config.Logger.Error("Failed to send order confirmation email",
			zap.Error(err),
			zap.String("order_id", payload.OrderID.String()))
		return err
	}
	return nil
}
