package controllers

import (
	"rental-marketplace-backend/config"
	"rental-marketplace-backend/db/models"
	"rental-marketplace-backend/products/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (pc *ProductController) CreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid request",
			"error":   err.Error(),
		})
	}

	// Validate the product
	if validationError := services.ValidateProduct(&product); validationError != "" {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   validationError,
		})
	}

	// Check for duplicate SKU
	existingProduct, _ := pc.ProductRepo.GetProductBySKU(product.SKU)
	if existingProduct != nil {
		return c.Status(409).JSON(fiber.Map{
			"message": "Duplicate SKU",
			"error":   "A product with this SKU already exists.",
			"sku":     product.SKU,
		})
	}

	// Save the new product using the repository
	createdProduct, err := pc.ProductRepo.CreateProduct(&product)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to create product",
			"error":   err.Error(),
		})
	}

	// Index the product for search
	if pc.BleveRepo != nil {
		err := pc.BleveRepo.IndexSingleProduct(*createdProduct)
		if err != nil {
			config.Logger.Error("Error indexing product", zap.Error(err), zap.String("productID", createdProduct.ID.String()))
		}
	} else {
		config.Logger.Warn("IndexingService is nil, skipping product indexing", zap.String("productID", createdProduct.ID.String()))
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Product created successfully",
		"data":    createdProduct,
	})
}

func (pc *ProductController) CreateCategory(c *fiber.Ctx) error {
	var category models.ProductCategory
	if err := c.BodyParser(&category); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid request",
			"error":   err.Error(),
		})
	}

	if category.Name == "" {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "Category name is required",
		})
	}

	existingCategory, _ := pc.ProductRepo.GetCategoryByName(category.Name)
	if existingCategory != nil {
		return c.Status(409).JSON(fiber.Map{
			"message": "Duplicate category",
			"error":   "A category with this name already exists.",
		})
	}

	createdCategory, err := pc.ProductRepo.CreateCategory(&category)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to create category",
			"error":   err.Error(),
		})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Category created successfully",
		"data":    createdCategory,
	})
}

func (pc *ProductController) CreateVendor(c *fiber.Ctx) error {
	var vendor models.Vendor
	if err := c.BodyParser(&vendor); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid request",
			"error":   err.Error(),
		})
	}

	if vendor.BusinessName == "" || vendor.Email == "" {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "Business name and email are required",
		})
	}

	existingVendor, _ := pc.ProductRepo.GetVendorByEmail(vendor.Email)
	if existingVendor != nil {
		return c.Status(409).JSON(fiber.Map{
			"message": "Duplicate vendor",
			"error":   "A vendor with this email already exists.",
		})
	}

	createdVendor, err := pc.ProductRepo.CreateVendor(&vendor)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"message": "Failed to create vendor",
			"error":   err.Error(),
		})
	}

	return c.Status(201).JSON(fiber.Map{
		"message": "Vendor created successfully",
		"data":    createdVendor,
	})
}
