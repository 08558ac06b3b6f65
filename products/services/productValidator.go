package services

import (
	"fmt"
	"strconv"
	"strings"

	"rental-marketplace-backend/db/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Define a minimal interface for what bulk row validation needs
type CatalogGetter interface {
	GetCategoryByName(name string) (*models.ProductCategory, error)
	GetVendorByEmail(email string) (*models.Vendor, error)
}

// ValidateProduct checks a single product payload before creation.
func ValidateProduct(product *models.Product) string {
	if strings.TrimSpace(product.SKU) == "" {
		return "SKU is required"
	}
	if strings.TrimSpace(product.Name) == "" {
		return "Product name is required"
	}
	if product.VendorID == uuid.Nil {
		return "Vendor ID is required"
	}
	if product.DailyRate.IsZero() || product.DailyRate.IsNegative() {
		return "Daily rate must be a positive value"
	}
	if product.QuantityOnHand < 0 {
		return "Quantity on hand cannot be negative"
	}
	if product.PeriodUnit != "" &&
		product.PeriodUnit != models.DailyRentalPeriod &&
		product.PeriodUnit != models.WeeklyRentalPeriod {
		return "Invalid period unit, must be DAY or WEEK"
	}
	return ""
}

// ValidateProductRow validates one spreadsheet row during bulk upload.
// Columns: SKU, Name, Daily Rate, Quantity On Hand, Category Name, Vendor Email.
func ValidateProductRow(row []string, rowIndex int, catalogRepo CatalogGetter, createdBy string) (models.Product, error) {
	if len(row) < 6 {
		return models.Product{}, fmt.Errorf("row %d has insufficient columns", rowIndex+1)
	}

	sku := strings.TrimSpace(row[0])
	name := strings.TrimSpace(row[1])
	dailyRateStr := row[2]
	quantityStr := row[3]
	categoryName := strings.TrimSpace(row[4])
	vendorEmail := strings.TrimSpace(row[5])

	var validationErrors []string

	if sku == "" {
		validationErrors = append(validationErrors, "SKU is empty")
	}
	if name == "" {
		validationErrors = append(validationErrors, "Product Name is empty")
	}

	dailyRate, err := decimal.NewFromString(dailyRateStr)
	if err != nil || dailyRate.IsZero() || dailyRate.IsNegative() {
		validationErrors = append(validationErrors, "Invalid or non-positive Daily Rate")
	}

	quantity, err := strconv.Atoi(quantityStr)
	if err != nil || quantity < 0 {
		validationErrors = append(validationErrors, "Invalid Quantity On Hand")
	}

	var categoryID *uuid.UUID
	if categoryName != "" {
		category, err := catalogRepo.GetCategoryByName(categoryName)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("Invalid Category: %s", err.Error()))
		} else {
			categoryID = &category.ID
		}
	}

	var vendorID uuid.UUID
	if vendorEmail == "" {
		validationErrors = append(validationErrors, "Vendor Email is required")
	} else {
		vendor, err := catalogRepo.GetVendorByEmail(vendorEmail)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("Invalid Vendor: %s", err.Error()))
		} else {
			vendorID = vendor.ID
		}
	}

	if len(validationErrors) > 0 {
		return models.Product{}, fmt.Errorf("row %d: validation failed: %s", rowIndex+1, strings.Join(validationErrors, ", "))
	}

	product := models.Product{
		SKU:            sku,
		Name:           name,
		DailyRate:      dailyRate,
		QuantityOnHand: quantity,
		CategoryID:     categoryID,
		VendorID:       vendorID,
		PeriodUnit:     models.DailyRentalPeriod,
		IsRentable:     true,
		IsActive:       true,
		CreatedBy:      createdBy,
	}

	return product, nil
}
