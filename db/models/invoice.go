package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InvoiceStatus string

const (
	IssuedInvoiceStatus    InvoiceStatus = "ISSUED"
	PaidInvoiceStatus      InvoiceStatus = "PAID"
	PartialInvoiceStatus   InvoiceStatus = "PARTIAL"
	VoidedInvoiceStatus    InvoiceStatus = "VOIDED"
	OverdueInvoiceStatus   InvoiceStatus = "OVERDUE"
)

// Invoice is the billing record raised when a rental order is
// confirmed. Rendering (PDF/email layout) is handled elsewhere; this
// is the ledger row only.
type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	InvoiceNumber string    `gorm:"unique;not null;index" json:"invoice_number"`

	RentalOrderID uuid.UUID    `gorm:"type:uuid;not null;index" json:"rental_order_id"`
	RentalOrder   *RentalOrder `gorm:"foreignKey:RentalOrderID" json:"rental_order,omitempty"`
	CustomerID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"customer_id"`

	Status  InvoiceStatus `gorm:"type:varchar(20);default:'ISSUED';index" json:"status"`
	DueDate time.Time     `gorm:"not null" json:"due_date"`

	SubTotal   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"sub_total"`
	VATAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"vat_amount"`
	Total      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total"`
	AmountPaid decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"amount_paid"`

	Payments []Payment `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`

	CreatedBy string         `gorm:"not null" json:"created_by"`
	UpdatedBy *string        `json:"updated_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Outstanding returns the unpaid balance on the invoice.
func (i *Invoice) Outstanding() decimal.Decimal {
	return i.Total.Sub(i.AmountPaid)
}
