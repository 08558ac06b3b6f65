package tasks

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	TypeReservationExpired = "reservation:expired"
	TypeQuotationCreated   = "quotation:created"
	TypeOrderConfirmed     = "order:confirmed"
)

// ReservationExpiredPayload notifies the hold owner that the sweep
// released their quotation hold.
type ReservationExpiredPayload struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	ProductID     uuid.UUID `json:"product_id"`
	SourceType    string    `json:"source_type"`
	SourceID      uuid.UUID `json:"source_id"`
	Quantity      int       `json:"quantity"`
	OwnerEmail    string    `json:"owner_email"`
	ExpiredAt     time.Time `json:"expired_at"`
}

// QuotationCreatedPayload drives the quotation confirmation email.
type QuotationCreatedPayload struct {
	QuotationID     uuid.UUID `json:"quotation_id"`
	QuotationNumber string    `json:"quotation_number"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerName    string    `json:"customer_name"`
	ValidUntil      time.Time `json:"valid_until"`
}

// OrderConfirmedPayload drives the order confirmation email.
type OrderConfirmedPayload struct {
	OrderID       uuid.UUID `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	InvoiceNumber string    `json:"invoice_number"`
	CustomerEmail string    `json:"customer_email"`
	CustomerName  string    `json:"customer_name"`
}

func NewReservationExpiredTask(payload ReservationExpiredPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReservationExpired, data, asynq.MaxRetry(3)), nil
}

func NewQuotationCreatedTask(payload QuotationCreatedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeQuotationCreated, data, asynq.MaxRetry(3)), nil
}

func NewOrderConfirmedTask(payload OrderConfirmedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeOrderConfirmed, data, asynq.MaxRetry(3)), nil
}
