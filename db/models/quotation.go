package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type QuotationStatus string

const (
	DraftQuotationStatus     QuotationStatus = "DRAFT"
	SentQuotationStatus      QuotationStatus = "SENT"
	ConfirmedQuotationStatus QuotationStatus = "CONFIRMED"
	ExpiredQuotationStatus   QuotationStatus = "EXPIRED"
	CancelledQuotationStatus QuotationStatus = "CANCELLED"
)

// Quotation is a tentative cart: each line holds inventory through a
// quotation-sourced reservation until the quotation is confirmed,
// cancelled, or expires.
type Quotation struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	QuotationNumber string    `gorm:"unique;not null;index" json:"quotation_number"`

	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	VendorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Vendor     *Vendor   `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`

	Status    QuotationStatus `gorm:"type:varchar(20);default:'DRAFT';index" json:"status"`
	ExpiresAt *time.Time      `gorm:"index" json:"expires_at"`

	SubTotal  decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"sub_total"`
	VATAmount decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"vat_amount"`
	Total     decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"total"`

	Items []QuotationItem `gorm:"foreignKey:QuotationID" json:"items,omitempty"`

	Notes *string `gorm:"type:text" json:"notes"`

	CreatedBy string         `gorm:"not null" json:"created_by"`
	UpdatedBy *string        `json:"updated_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// QuotationItem is one requested product/window/quantity line.
type QuotationItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	QuotationID uuid.UUID `gorm:"type:uuid;not null;index" json:"quotation_id"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product     *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	Quantity  int       `gorm:"not null;check:quantity >= 1" json:"quantity"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`

	UnitRate  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_rate"`
	LineTotal decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"line_total"`

	// The ledger hold backing this line while the quotation is live.
	ReservationID *uuid.UUID `gorm:"type:uuid;index" json:"reservation_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (q *Quotation) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

func (qi *QuotationItem) BeforeCreate(tx *gorm.DB) error {
	if qi.ID == uuid.Nil {
		qi.ID = uuid.New()
	}
	return nil
}
