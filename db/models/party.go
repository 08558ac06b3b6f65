package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerStatus string

const (
	ProspectiveCustomer CustomerStatus = "PROSPECTIVE"
	ActiveCustomer      CustomerStatus = "ACTIVE"
	InactiveCustomer    CustomerStatus = "INACTIVE"
	BlacklistedCustomer CustomerStatus = "BLACKLISTED"
)

// Customer represents the renting party on quotations and orders.
type Customer struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;" json:"id"`
	FirstName   string     `gorm:"not null" json:"first_name"`
	LastName    string     `gorm:"not null" json:"last_name"`
	Email       string     `gorm:"unique;not null;index" json:"email"`
	PhoneNumber string     `gorm:"not null" json:"phone_number"`
	DateOfBirth *time.Time `json:"date_of_birth"`

	// Contact information
	PostalAddress *string `json:"postal_address"`
	City          *string `json:"city"`
	Country       string  `gorm:"default:'Zimbabwe'" json:"country"`

	Status CustomerStatus `gorm:"type:varchar(20);default:'ACTIVE'" json:"status"`
	Debtor bool           `gorm:"default:false" json:"debtor"`

	// Audit fields
	CreatedBy string         `gorm:"not null" json:"created_by"`
	UpdatedBy *string        `json:"updated_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Vendor represents the party listing products for rent.
type Vendor struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	BusinessName string    `gorm:"unique;not null;index" json:"business_name"`
	ContactName  *string   `json:"contact_name"`
	Email        string    `gorm:"unique;not null" json:"email"`
	PhoneNumber  string    `gorm:"not null" json:"phone_number"`

	PostalAddress *string `json:"postal_address"`
	City          *string `json:"city"`
	Country       string  `gorm:"default:'Zimbabwe'" json:"country"`

	TaxIdentificationNumber *string `json:"tax_identification_number"`
	IsActive                bool    `gorm:"default:true" json:"is_active"`

	// Relationships
	Products []Product `gorm:"foreignKey:VendorID" json:"products,omitempty"`

	// Audit fields
	CreatedBy string         `gorm:"not null" json:"created_by"`
	UpdatedBy *string        `json:"updated_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
