package controllers

import (
	"encoding/json"
	"time"

	"rental-marketplace-backend/config"
	"rental-marketplace-backend/db/models"
	"rental-marketplace-backend/middleware"
	"rental-marketplace-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type recordPaymentRequest struct {
	Method           string          `json:"method"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	GatewayReference *string         `json:"gateway_reference"`
	GatewayPayload   json.RawMessage `json:"gateway_payload"`
	PaidAt           *time.Time      `json:"paid_at"`
}

// RecordPayment writes a payment row against an invoice and rolls the
// invoice balance forward. Gateway integration lives outside this
// service; the raw payload is stored verbatim for reconciliation.
func (oc *OrderController) RecordPayment(c *fiber.Ctx) error {
	invoiceID, err := uuid.Parse(c.Params("invoiceId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "Invalid invoice id",
		})
	}

	var req recordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid request",
			"error":   err.Error(),
		})
	}

	if req.Amount.IsZero() || req.Amount.IsNegative() {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "Amount must be a positive value",
		})
	}

	method := models.PaymentMethod(req.Method)
	switch method {
	case models.CashPaymentMethod, models.BankDepositPaymentMethod,
		models.CardPaymentMethod, models.MobileMoneyPaymentMethod:
	default:
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "Invalid payment method",
		})
	}

	invoice, err := oc.OrderRepo.GetInvoiceByID(invoiceID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"message": "Invoice not found",
			"error":   err.Error(),
		})
	}
	if invoice.Status == models.VoidedInvoiceStatus {
		return c.Status(409).JSON(fiber.Map{
			"message": "Invoice voided",
			"error":   "Payments cannot be recorded against a voided invoice",
		})
	}

	createdBy := ""
	if payload := middleware.UserFromLocals(c); payload != nil {
		createdBy = payload.Email
	}

	year := time.Now().Year()
	sequence, err := oc.OrderRepo.CountPaymentsForYear(year)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to record payment",
			"error":   err.Error(),
		})
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	paidAt := req.PaidAt
	if paidAt == nil {
		now := time.Now().UTC()
		paidAt = &now
	}

	payment := &models.Payment{
		PaymentNumber:    utils.FormatPaymentNumber(sequence + 1),
		InvoiceID:        invoiceID,
		CustomerID:       invoice.CustomerID,
		Method:           method,
		Status:           models.PaidPayment,
		Amount:           req.Amount,
		Currency:         currency,
		GatewayReference: req.GatewayReference,
		GatewayPayload:   datatypes.JSON(req.GatewayPayload),
		PaidAt:           paidAt,
		CreatedBy:        createdBy,
	}

	if _, err := oc.OrderRepo.ApplyPayment(payment); err != nil {
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to record payment",
			"error":   err.Error(),
		})
	}

	config.Logger.Info("Payment recorded",
		zap.String("payment_number", payment.PaymentNumber),
		zap.String("invoice_id", invoiceID.String()),
		zap.String("amount", req.Amount.String()),
		zap.String("created_by", createdBy),
	)

	return c.Status(201).JSON(fiber.Map{
		"message": "Payment recorded successfully",
		"data":    payment,
	})
}
