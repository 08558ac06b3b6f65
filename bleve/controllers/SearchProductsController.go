package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func (c *SearchController) SearchProductsController(ctx *fiber.Ctx) error {
	query := ctx.Query("q")
	categoryName := ctx.Query("category")
	vendorID := ctx.Query("vendor_id")

	// Optional boolean filter
	rentableStr := ctx.Query("rentable")
	var rentable *bool

	if rentableStr != "" {
		val, err := strconv.ParseBool(rentableStr)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid 'rentable' value",
			})
		}
		rentable = &val
	}

	// Perform the search
	results, err := c.repo.SearchProducts(query, categoryName, vendorID, rentable)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Search failed",
		})
	}

	var matches []interface{}
	for _, hit := range results.Hits {
		doc, err := c.repo.GetProductDocument(hit.ID)
		if err != nil {
			continue
		}
		matches = append(matches, doc)
	}

	return ctx.JSON(fiber.Map{
		"results": matches,
		"total":   results.Total,
	})
}
