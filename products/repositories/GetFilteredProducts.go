package repositories

import (
	"strings"

	"rental-marketplace-backend/db/models"
)

// GetFilteredProducts retrieves products with filtering and pagination
func (r *productRepository) GetFilteredProducts(filters map[string]string, pageSize int, offset int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	db := r.db.Model(&models.Product{})

	// Apply filters
	for key, value := range filters {
		switch key {
		case "active":
			if strings.ToLower(value) == "true" {
				db = db.Where("is_active = ?", true)
			} else if strings.ToLower(value) == "false" {
				db = db.Where("is_active = ?", false)
			}
		case "rentable":
			if strings.ToLower(value) == "true" {
				db = db.Where("is_rentable = ?", true)
			} else if strings.ToLower(value) == "false" {
				db = db.Where("is_rentable = ?", false)
			}
		case "category_id":
			db = db.Where("category_id = ?", value)
		case "vendor_id":
			db = db.Where("vendor_id = ?", value)
		case "sku":
			db = db.Where("sku ILIKE ?", "%"+value+"%")
		case "name":
			db = db.Where("name ILIKE ?", "%"+value+"%")
		case "start_date":
			db = db.Where("Date(created_at) >= ?", value)
		case "end_date":
			db = db.Where("Date(created_at) <= ?", value)
		}
	}

	// Count total records with filters applied
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply pagination and ordering
	if err := db.Preload("Category").Preload("Vendor").
		Limit(pageSize).Offset(offset).Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}
