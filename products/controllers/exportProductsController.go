package controllers

import (
	"context"
	"strings"
	"time"

	"rental-marketplace-backend/config"
	"rental-marketplace-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ExportProducts generates an Excel export of the filtered catalog.
// Recently generated files are looked up in Redis by query hash so
// repeated exports of the same filter set reuse the same file.
func (pc *ProductController) ExportProducts(c *fiber.Ctx) error {
	filters := make(map[string]string)
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		v := strings.TrimSpace(string(value))
		if v != "" && strings.ToLower(v) != "null" {
			filters[k] = v
		}
	})

	day := time.Now().Format("2006-01-02")
	searchKey, storageKey := utils.GenerateHash("product_exports", filters, day)

	if pc.RedisClient != nil {
		cachedPath, err := utils.FindMatchingFile(pc.RedisClient, searchKey)
		if err == nil && cachedPath != "" {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"message":      "Export ready",
				"download_url": utils.GetDownloadURL(c, cachedPath),
				"cached":       true,
			})
		}
		if err != nil && err != redis.Nil {
			config.Logger.Error("Export cache lookup failed", zap.Error(err))
		}
	}

	// Export everything matching the filters, not just one page
	products, _, err := pc.ProductRepo.GetFilteredProducts(filters, 10000, 0)
	if err != nil {
		config.Logger.Error("Failed to fetch products for export", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch products for export"})
	}

	headers := []string{"SKU", "Name", "DailyRate", "QuantityOnHand", "IsRentable", "CreatedBy"}
	filePath, err := utils.GenerateExcel(products, "products", headers)
	if err != nil {
		config.Logger.Error("Failed to generate product export", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate export file"})
	}

	if pc.RedisClient != nil {
		if err := pc.RedisClient.Set(context.Background(), storageKey, filePath, 24*time.Hour).Err(); err != nil {
			config.Logger.Error("Failed to cache export file path", zap.Error(err))
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":      "Export ready",
		"download_url": utils.GetDownloadURL(c, filePath),
		"cached":       false,
	})
}
