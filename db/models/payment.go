package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentMethod string

const (
	CashPaymentMethod        PaymentMethod = "CASH"
	BankDepositPaymentMethod PaymentMethod = "BANK_DEPOSIT"
	CardPaymentMethod        PaymentMethod = "CARD"
	MobileMoneyPaymentMethod PaymentMethod = "MOBILE_MONEY"
)

type PaymentStatus string

const (
	PendingPayment   PaymentStatus = "PENDING"
	PaidPayment      PaymentStatus = "PAID"
	FailedPayment    PaymentStatus = "FAILED"
	RefundedPayment  PaymentStatus = "REFUNDED"
	CancelledPayment PaymentStatus = "CANCELLED"
)

// Payment records money received against an invoice. GatewayPayload
// keeps the raw gateway response for reconciliation; the gateway
// protocol itself lives outside this service.
type Payment struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	PaymentNumber string    `gorm:"unique;not null;index" json:"payment_number"`

	InvoiceID  uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Invoice    *Invoice  `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`

	Method PaymentMethod `gorm:"type:varchar(20);not null" json:"method"`
	Status PaymentStatus `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`

	Amount   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency string          `gorm:"type:varchar(3);default:'USD'" json:"currency"`

	// Gateway reconciliation
	GatewayReference *string        `gorm:"index" json:"gateway_reference"`
	GatewayPayload   datatypes.JSON `json:"gateway_payload,omitempty"`

	PaidAt *time.Time `json:"paid_at"`

	CreatedBy string         `gorm:"not null" json:"created_by"`
	UpdatedBy *string        `json:"updated_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
