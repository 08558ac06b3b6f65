package controllers

import (
	"fmt"
	"os"

	"rental-marketplace-backend/config"
	"rental-marketplace-backend/db/models"
	"rental-marketplace-backend/products/services"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ProductRowError struct {
	RowIndex int    `json:"row_index"`
	SKU      string `json:"sku"`
	Reason   string `json:"reason"`
}

// BulkUploadProducts handles the bulk upload of products via an Excel file.
// Expected columns: SKU, Name, Daily Rate, Quantity On Hand, Category Name, Vendor Email.
func (pc *ProductController) BulkUploadProducts(c *fiber.Ctx) error {
	// Parse and save the uploaded file
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Failed to get file"})
	}
	tempFilePath := fmt.Sprintf("./tmp/%s", file.Filename)
	err = c.SaveFile(file, tempFilePath)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to save file"})
	}
	defer os.Remove(tempFilePath)

	// Extract the 'created_by' field from FormData
	userEmail := c.FormValue("created_by")
	if userEmail == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Missing 'created_by' field in FormData"})
	}

	// Open and read the Excel file
	f, err := excelize.OpenFile(tempFilePath)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to open Excel file"})
	}
	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to read rows from Excel sheet"})
	}

	var validProducts []models.Product
	var invalidRows []ProductRowError
	skusInFile := make(map[string]struct{}) // Track duplicates in the current batch

	for i, row := range rows {
		if i == 0 { // Skip header row
			continue
		}
		if len(row) == 0 {
			continue
		}

		sku := row[0]
		if _, exists := skusInFile[sku]; exists {
			invalidRows = append(invalidRows, ProductRowError{
				RowIndex: i + 1,
				SKU:      sku,
				Reason:   "Duplicate SKU within the uploaded file",
			})
			continue
		}
		skusInFile[sku] = struct{}{}

		product, err := services.ValidateProductRow(row, i, pc.ProductRepo, userEmail)
		if err != nil {
			invalidRows = append(invalidRows, ProductRowError{
				RowIndex: i + 1,
				SKU:      sku,
				Reason:   err.Error(),
			})
			continue
		}

		// Skip SKUs that already exist in the catalog
		if existing, _ := pc.ProductRepo.GetProductBySKU(product.SKU); existing != nil {
			invalidRows = append(invalidRows, ProductRowError{
				RowIndex: i + 1,
				SKU:      sku,
				Reason:   "A product with this SKU already exists",
			})
			continue
		}

		validProducts = append(validProducts, product)
	}

	// Insert valid products in a single transaction
	tx := pc.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	created := make([]models.Product, 0, len(validProducts))
	for i := range validProducts {
		if err := tx.Create(&validProducts[i]).Error; err != nil {
			tx.Rollback()
			config.Logger.Error("Bulk product insert failed", zap.Error(err), zap.String("sku", validProducts[i].SKU))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Failed to insert products",
				"error":   err.Error(),
			})
		}
		created = append(created, validProducts[i])
	}

	if err := tx.Commit().Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to commit products",
			"error":   err.Error(),
		})
	}

	// Index the new products for search
	if pc.BleveRepo != nil && len(created) > 0 {
		if err := pc.BleveRepo.IndexExistingProducts(created); err != nil {
			config.Logger.Error("Failed to index bulk uploaded products", zap.Error(err))
		}
	}

	config.Logger.Info("Bulk product upload finished",
		zap.Int("inserted", len(created)),
		zap.Int("rejected", len(invalidRows)),
		zap.String("uploaded_by", userEmail),
	)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":      "Bulk upload processed",
		"inserted":     len(created),
		"invalid_rows": invalidRows,
	})
}
