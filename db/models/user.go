package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	AdminRole   Role = "admin"
	ManagerRole Role = "manager"
	StaffRole   Role = "staff"
)

// User represents back-office users with role-based access.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	FirstName string    `gorm:"not null" json:"first_name"`
	LastName  string    `gorm:"not null" json:"last_name"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Phone     *string   `gorm:"unique" json:"phone"`
	Password  string    `json:"-"` // Never include in JSON responses

	Role Role `gorm:"type:varchar(30);not null" json:"role"`

	// Status
	Active      bool       `gorm:"default:true" json:"active"`
	LastLoginAt *time.Time `json:"last_login_at"`

	// Audit fields
	CreatedBy string         `gorm:"not null" json:"created_by"`
	UpdatedBy *string        `json:"updated_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// FullName is used in email greetings and audit trails.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
