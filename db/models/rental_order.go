package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RentalOrderStatus string

const (
	ConfirmedOrderStatus RentalOrderStatus = "CONFIRMED"
	PickedUpOrderStatus  RentalOrderStatus = "PICKED_UP"
	ReturnedOrderStatus  RentalOrderStatus = "RETURNED"
	CancelledOrderStatus RentalOrderStatus = "CANCELLED"
)

// RentalOrder is a confirmed rental. Its inventory holds live in the
// reservation ledger under sourceType rental_order and are retired when
// the return is processed.
type RentalOrder struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	OrderNumber string    `gorm:"unique;not null;index" json:"order_number"`

	// The quotation this order was converted from, when applicable.
	QuotationID *uuid.UUID `gorm:"type:uuid;index" json:"quotation_id"`
	Quotation   *Quotation `gorm:"foreignKey:QuotationID" json:"quotation,omitempty"`

	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	VendorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Vendor     *Vendor   `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`

	Status RentalOrderStatus `gorm:"type:varchar(20);default:'CONFIRMED';index" json:"status"`

	SubTotal  decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"sub_total"`
	VATAmount decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"vat_amount"`
	Total     decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"total"`

	PickedUpAt *time.Time `json:"picked_up_at"`
	ReturnedAt *time.Time `json:"returned_at"`

	Items    []RentalOrderItem `gorm:"foreignKey:RentalOrderID" json:"items,omitempty"`
	Invoices []Invoice         `gorm:"foreignKey:RentalOrderID" json:"invoices,omitempty"`

	Notes *string `gorm:"type:text" json:"notes"`

	CreatedBy string         `gorm:"not null" json:"created_by"`
	UpdatedBy *string        `json:"updated_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type RentalOrderItem struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	RentalOrderID uuid.UUID `gorm:"type:uuid;not null;index" json:"rental_order_id"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product       *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	Quantity  int       `gorm:"not null;check:quantity >= 1" json:"quantity"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`

	UnitRate  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_rate"`
	LineTotal decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"line_total"`

	ReservationID *uuid.UUID `gorm:"type:uuid;index" json:"reservation_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (o *RentalOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (oi *RentalOrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}
