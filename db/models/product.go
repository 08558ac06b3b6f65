package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RentalPeriodUnit string

const (
	DailyRentalPeriod  RentalPeriodUnit = "DAY"
	WeeklyRentalPeriod RentalPeriodUnit = "WEEK"
)

// ProductCategory groups rentable products (e.g., Scaffolding, Power Tools, Events)
type ProductCategory struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key;" json:"id"`
	Name        string         `gorm:"unique;not null" json:"name"`
	Description *string        `gorm:"type:text" json:"description"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedBy   string         `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Product represents a rentable catalog item owned by a vendor.
// QuantityOnHand is the total physical stock; the reservation ledger
// decides how much of it is free for a given date window.
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	SKU         string    `gorm:"unique;not null;index" json:"sku"`
	Name        string    `gorm:"not null;index" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`

	// Classification
	CategoryID *uuid.UUID       `gorm:"type:uuid;index" json:"category_id"`
	PeriodUnit RentalPeriodUnit `gorm:"type:varchar(10);default:'DAY'" json:"period_unit"`

	// Ownership
	VendorID uuid.UUID `gorm:"type:uuid;not null;index" json:"vendor_id"`

	// Pricing
	DailyRate     decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"daily_rate"`
	SecurityDeposit *decimal.Decimal `gorm:"type:decimal(15,2)" json:"security_deposit"`

	// Stock
	QuantityOnHand int `gorm:"not null;default:0;check:quantity_on_hand >= 0" json:"quantity_on_hand"`

	// Status
	IsRentable bool `gorm:"default:true" json:"is_rentable"`
	IsActive   bool `gorm:"default:true" json:"is_active"`

	// Relationships
	Category     *ProductCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Vendor       *Vendor          `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	Reservations []Reservation    `gorm:"foreignKey:ProductID" json:"reservations,omitempty"`

	// Audit fields
	CreatedBy string         `gorm:"not null" json:"created_by"`
	UpdatedBy *string        `json:"updated_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (pc *ProductCategory) BeforeCreate(tx *gorm.DB) error {
	if pc.ID == uuid.Nil {
		pc.ID = uuid.New()
	}
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
