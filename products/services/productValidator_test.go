package services

import (
	"fmt"
	"testing"

	"rental-marketplace-backend/db/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	categories map[string]*models.ProductCategory
	vendors    map[string]*models.Vendor
}

func (f *fakeCatalog) GetCategoryByName(name string) (*models.ProductCategory, error) {
	if c, ok := f.categories[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("category %q not found", name)
}

func (f *fakeCatalog) GetVendorByEmail(email string) (*models.Vendor, error) {
	if v, ok := f.vendors[email]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("vendor %q not found", email)
}

func validProduct() *models.Product {
	return &models.Product{
		SKU:            "SCAF-TOWER-6M",
		Name:           "6m Scaffold Tower",
		VendorID:       uuid.New(),
		DailyRate:      decimal.NewFromFloat(45.00),
		QuantityOnHand: 8,
		PeriodUnit:     models.DailyRentalPeriod,
	}
}

func TestValidateProduct(t *testing.T) {
	assert.Empty(t, ValidateProduct(validProduct()))

	noSKU := validProduct()
	noSKU.SKU = "  "
	assert.Equal(t, "SKU is required", ValidateProduct(noSKU))

	noVendor := validProduct()
	noVendor.VendorID = uuid.Nil
	assert.Equal(t, "Vendor ID is required", ValidateProduct(noVendor))

	freeRate := validProduct()
	freeRate.DailyRate = decimal.Zero
	assert.Equal(t, "Daily rate must be a positive value", ValidateProduct(freeRate))

	badUnit := validProduct()
	badUnit.PeriodUnit = "MONTH"
	assert.Equal(t, "Invalid period unit, must be DAY or WEEK", ValidateProduct(badUnit))
}

func TestValidateProductRow(t *testing.T) {
	category := &models.ProductCategory{ID: uuid.New(), Name: "Scaffolding & Access"}
	vendor := &models.Vendor{ID: uuid.New(), Email: "hire@mashonalandhire.co.zw"}
	catalog := &fakeCatalog{
		categories: map[string]*models.ProductCategory{category.Name: category},
		vendors:    map[string]*models.Vendor{vendor.Email: vendor},
	}

	row := []string{"SCAF-TOWER-6M", "6m Scaffold Tower", "45.00", "8", category.Name, vendor.Email}

	product, err := ValidateProductRow(row, 0, catalog, "admin@rentalmarketplace.co.zw")
	require.NoError(t, err)
	assert.Equal(t, "SCAF-TOWER-6M", product.SKU)
	assert.Equal(t, 8, product.QuantityOnHand)
	require.NotNil(t, product.CategoryID)
	assert.Equal(t, category.ID, *product.CategoryID)
	assert.Equal(t, vendor.ID, product.VendorID)
	assert.Equal(t, "admin@rentalmarketplace.co.zw", product.CreatedBy)
}

func TestValidateProductRowErrors(t *testing.T) {
	catalog := &fakeCatalog{
		categories: map[string]*models.ProductCategory{},
		vendors:    map[string]*models.Vendor{},
	}

	_, err := ValidateProductRow([]string{"SKU", "Name"}, 2, catalog, "admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient columns")

	row := []string{"", "6m Scaffold Tower", "-5", "abc", "Missing Category", "nobody@example.com"}
	_, err = ValidateProductRow(row, 0, catalog, "admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SKU is empty")
	assert.Contains(t, err.Error(), "Invalid or non-positive Daily Rate")
	assert.Contains(t, err.Error(), "Invalid Quantity On Hand")
	assert.Contains(t, err.Error(), "Invalid Category")
	assert.Contains(t, err.Error(), "Invalid Vendor")
}
