package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationStatus string

const (
	ActiveReservationStatus    ReservationStatus = "active"
	CompletedReservationStatus ReservationStatus = "completed"
	CancelledReservationStatus ReservationStatus = "cancelled"
	ExpiredReservationStatus   ReservationStatus = "expired"
)

// IsTerminal reports whether a reservation in this status can never
// change again. Only "active" reservations count against stock.
func (s ReservationStatus) IsTerminal() bool {
	return s == CompletedReservationStatus ||
		s == CancelledReservationStatus ||
		s == ExpiredReservationStatus
}

type ReservationSourceType string

const (
	QuotationSource   ReservationSourceType = "quotation"
	RentalOrderSource ReservationSourceType = "rental_order"
)

// Reservation is a hold of Quantity units of one product for the
// half-open window [StartDate, EndDate). Dates and quantity are never
// mutated in place; changing a rental is modeled as cancel-old plus
// create-new so availability checks always see whole rows.
type Reservation struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index:idx_reservations_product_window" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID;references:ID" json:"product,omitempty"`

	Quantity  int       `gorm:"not null;check:quantity >= 1" json:"quantity"`
	StartDate time.Time `gorm:"not null;index:idx_reservations_product_window" json:"start_date"`
	EndDate   time.Time `gorm:"not null;index:idx_reservations_product_window" json:"end_date"`

	// Source of the hold: the quotation or rental order that created it.
	SourceType ReservationSourceType `gorm:"type:varchar(20);not null;index:idx_reservations_source" json:"source_type"`
	SourceID   uuid.UUID             `gorm:"type:uuid;not null;index:idx_reservations_source" json:"source_id"`

	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	VendorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"vendor_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	Vendor     *Vendor   `gorm:"foreignKey:VendorID;references:ID" json:"vendor,omitempty"`

	Status ReservationStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`

	// Priority is denormalized from SourceType at creation so historical
	// rows keep the semantics in force when they were written. It is
	// stored but not yet consulted by any read path.
	Priority int `gorm:"not null" json:"priority"`

	// ExpiresAt is set only for quotation-sourced holds; order-backed
	// holds never expire automatically.
	ExpiresAt *time.Time `gorm:"index" json:"expires_at"`

	Notes *string `gorm:"type:text" json:"notes"`

	CreatedBy string    `gorm:"not null" json:"created_by"`
	UpdatedBy *string   `json:"updated_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Overlaps reports whether the reservation's window shares at least one
// instant with [start, end) under half-open semantics: touching
// intervals do not overlap.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.StartDate.Before(end) && r.EndDate.After(start)
}
