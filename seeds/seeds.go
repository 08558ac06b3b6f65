package seeds

import (
	"errors"
	"fmt"
	"os"
	"time"

	"rental-marketplace-backend/config"
	"rental-marketplace-backend/db/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdminUser creates the initial administrator account. The password
// comes from ADMIN_PASSWORD so a default secret never ships in code.
func SeedAdminUser(db *gorm.DB) error {
	config.Logger.Info("Starting admin user seeding...")

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@rentalmarketplace.co.zw"
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		config.Logger.Info("Admin user already exists, skipping", zap.String("email", email))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("error checking for admin user: %w", err)
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		return fmt.Errorf("ADMIN_PASSWORD must be set to seed the admin user")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		ID:        uuid.New(),
		FirstName: "System",
		LastName:  "Administrator",
		Email:     email,
		Password:  string(hashed),
		Role:      models.AdminRole,
		Active:    true,
		CreatedBy: "system",
	}

	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	config.Logger.Info("Admin user seeded", zap.String("email", email))
	return nil
}

// SeedProductCategories creates the starter rental categories.
func SeedProductCategories(db *gorm.DB) error {
	config.Logger.Info("Starting product category seeding...")

	categories := []models.ProductCategory{
		{
			ID:          uuid.New(),
			Name:        "Scaffolding & Access",
			Description: stringPtr("Scaffold towers, ladders and access platforms"),
			IsActive:    true,
			CreatedBy:   "system",
		},
		{
			ID:          uuid.New(),
			Name:        "Power Tools",
			Description: stringPtr("Drills, grinders, saws and compaction equipment"),
			IsActive:    true,
			CreatedBy:   "system",
		},
		{
			ID:          uuid.New(),
			Name:        "Events & Catering",
			Description: stringPtr("Tents, chairs, tables and sound equipment"),
			IsActive:    true,
			CreatedBy:   "system",
		},
	}

	created := 0
	for _, category := range categories {
		var existing models.ProductCategory
		result := db.Where("name = ?", category.Name).First(&existing)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				if err := db.Create(&category).Error; err != nil {
					config.Logger.Error("Failed to create product category",
						zap.String("name", category.Name),
						zap.Error(err))
					return fmt.Errorf("failed to create category %s: %w", category.Name, err)
				}
				created++
			} else {
				return fmt.Errorf("error checking for category %s: %w", category.Name, result.Error)
			}
		}
	}

	config.Logger.Info("Product category seeding completed", zap.Int("created", created))
	return nil
}

// SeedDemoData loads a small vendor, customer and product set for
// development environments. Controlled by SEED_DEMO_DATA=true.
func SeedDemoData(db *gorm.DB) error {
	if os.Getenv("SEED_DEMO_DATA") != "true" {
		return nil
	}

	config.Logger.Info("Starting demo data seeding...")

	vendor := models.Vendor{
		ID:           uuid.New(),
		BusinessName: "Mashonaland Hire Services",
		ContactName:  stringPtr("T. Chikomo"),
		Email:        "hire@mashonalandhire.co.zw",
		PhoneNumber:  "+263-242-700123",
		City:         stringPtr("Harare"),
		IsActive:     true,
		CreatedBy:    "system",
	}

	var existingVendor models.Vendor
	err := db.Where("email = ?", vendor.Email).First(&existingVendor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := db.Create(&vendor).Error; err != nil {
			return fmt.Errorf("failed to create demo vendor: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("error checking for demo vendor: %w", err)
	} else {
		vendor = existingVendor
	}

	customer := models.Customer{
		ID:          uuid.New(),
		FirstName:   "Rudo",
		LastName:    "Moyo",
		Email:       "rudo.moyo@example.com",
		PhoneNumber: "+263-772-555123",
		City:        stringPtr("Harare"),
		Status:      models.ActiveCustomer,
		CreatedBy:   "system",
	}

	var existingCustomer models.Customer
	err = db.Where("email = ?", customer.Email).First(&existingCustomer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := db.Create(&customer).Error; err != nil {
			return fmt.Errorf("failed to create demo customer: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("error checking for demo customer: %w", err)
	}

	var scaffolding models.ProductCategory
	if err := db.Where("name = ?", "Scaffolding & Access").First(&scaffolding).Error; err != nil {
		return fmt.Errorf("scaffolding category missing, run category seeding first: %w", err)
	}
	var events models.ProductCategory
	if err := db.Where("name = ?", "Events & Catering").First(&events).Error; err != nil {
		return fmt.Errorf("events category missing, run category seeding first: %w", err)
	}

	products := []models.Product{
		{
			ID:             uuid.New(),
			SKU:            "SCAF-TOWER-6M",
			Name:           "6m Scaffold Tower",
			Description:    stringPtr("Aluminium mobile scaffold tower, 6 metre working height"),
			CategoryID:     &scaffolding.ID,
			VendorID:       vendor.ID,
			DailyRate:      decimal.NewFromFloat(45.00),
			QuantityOnHand: 8,
			IsRentable:     true,
			IsActive:       true,
			CreatedBy:      "system",
		},
		{
			ID:             uuid.New(),
			SKU:            "EVT-TENT-100",
			Name:           "100-Seater Marquee Tent",
			Description:    stringPtr("White frame marquee with sidewalls, seats 100"),
			CategoryID:     &events.ID,
			VendorID:       vendor.ID,
			PeriodUnit:     models.WeeklyRentalPeriod,
			DailyRate:      decimal.NewFromFloat(180.00),
			QuantityOnHand: 3,
			IsRentable:     true,
			IsActive:       true,
			CreatedBy:      "system",
		},
	}

	created := 0
	for _, product := range products {
		var existing models.Product
		result := db.Where("sku = ?", product.SKU).First(&existing)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				if err := db.Create(&product).Error; err != nil {
					return fmt.Errorf("failed to create demo product %s: %w", product.SKU, err)
				}
				created++
			} else {
				return fmt.Errorf("error checking for demo product %s: %w", product.SKU, result.Error)
			}
		}
	}

	config.Logger.Info("Demo data seeding completed",
		zap.Int("products_created", created),
		zap.Time("seeded_at", time.Now()),
	)
	return nil
}

func stringPtr(s string) *string {
	return &s
}
