package repositories

import (
	"strings"

	"rental-marketplace-backend/config"
	"rental-marketplace-backend/db/models"

	"github.com/blevesearch/bleve/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// bleveProductDoc is the minimal document shape indexed for catalog search.
type bleveProductDoc struct {
	ID           string `json:"id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	CategoryID   string `json:"category_id,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
	VendorID     string `json:"vendor_id"`
	VendorName   string `json:"vendor_name,omitempty"`
	IsRentable   bool   `json:"is_rentable"`
	IsActive     bool   `json:"is_active"`
}

func newBleveProductDoc(product models.Product) bleveProductDoc {
	var categoryName string
	if product.Category != nil {
		categoryName = product.Category.Name
	}
	var vendorName string
	if product.Vendor != nil {
		vendorName = product.Vendor.BusinessName
	}

	return bleveProductDoc{
		ID:           product.ID.String(),
		SKU:          product.SKU,
		Name:         product.Name,
		CategoryID:   derefUUID(product.CategoryID),
		CategoryName: categoryName,
		VendorID:     product.VendorID.String(),
		VendorName:   vendorName,
		IsRentable:   product.IsRentable,
		IsActive:     product.IsActive,
	}
}

func (r *BleveRepository) IndexSingleProduct(product models.Product) error {
	err := r.indexer.IndexDocument("products", product.ID.String(), newBleveProductDoc(product))
	if err != nil {
		config.Logger.Error("Failed to index single product into Bleve",
			zap.Error(err),
			zap.String("product_id", product.ID.String()))
		return err
	}

	config.Logger.Info("Successfully indexed single product into Bleve",
		zap.String("product_id", product.ID.String()))
	return nil
}

func (r *BleveRepository) IndexExistingProducts(products []models.Product) error {
	docsToBleveIndex := make(map[string]interface{})

	for _, product := range products {
		docsToBleveIndex[product.ID.String()] = newBleveProductDoc(product)
	}

	if len(docsToBleveIndex) > 0 {
		config.Logger.Info("Attempting to bulk index products into Bleve",
			zap.Int("count", len(docsToBleveIndex)))
		err := r.indexer.BulkIndexDocuments("products", docsToBleveIndex)
		if err != nil {
			config.Logger.Error("Failed to bulk index products into Bleve", zap.Error(err))
			return err
		}
		config.Logger.Info("Successfully bulk indexed products into Bleve",
			zap.Int("count", len(docsToBleveIndex)))
	} else {
		config.Logger.Info("No products to index into Bleve.")
	}

	return nil
}

func (r *BleveRepository) SearchProducts(
	queryString string,
	categoryName string,
	vendorID string,
	rentable *bool,
) (*bleve.SearchResult, error) {
	booleanQuery := bleve.NewBooleanQuery()
	queryString = strings.TrimSpace(queryString)
	queryStringLower := strings.ToLower(queryString)

	// Search strategies
	if queryString != "" {
		exactMatch := bleve.NewBooleanQuery()

		// Exact matches for SKU
		skuExact := bleve.NewTermQuery(queryString)
		skuExact.SetField("sku")
		skuExact.SetBoost(10.0)
		exactMatch.AddShould(skuExact)

		skuExactLower := bleve.NewTermQuery(queryStringLower)
		skuExactLower.SetField("sku")
		skuExactLower.SetBoost(9.0)
		exactMatch.AddShould(skuExactLower)

		// Product name exact matches
		nameExact := bleve.NewTermQuery(queryStringLower)
		nameExact.SetField("name")
		nameExact.SetBoost(8.0)
		exactMatch.AddShould(nameExact)

		// Match query for analyzed fields
		matchQuery := bleve.NewMatchQuery(queryString)
		matchQuery.SetField("name")
		matchQuery.SetBoost(7.0)
		exactMatch.AddShould(matchQuery)

		// Prefix matches
		prefixMatch := bleve.NewBooleanQuery()

		skuPrefix := bleve.NewPrefixQuery(queryStringLower)
		skuPrefix.SetField("sku")
		skuPrefix.SetBoost(6.0)
		prefixMatch.AddShould(skuPrefix)

		namePrefix := bleve.NewPrefixQuery(queryStringLower)
		namePrefix.SetField("name")
		namePrefix.SetBoost(5.0)
		prefixMatch.AddShould(namePrefix)

		vendorPrefix := bleve.NewPrefixQuery(queryStringLower)
		vendorPrefix.SetField("vendor_name")
		vendorPrefix.SetBoost(4.0)
		prefixMatch.AddShould(vendorPrefix)

		// Fuzzy search for typos
		fuzzyQuery := bleve.NewFuzzyQuery(queryStringLower)
		fuzzyQuery.SetField("name")
		fuzzyQuery.SetBoost(3.0)
		fuzzyQuery.SetFuzziness(1)
		prefixMatch.AddShould(fuzzyQuery)

		// Combine search strategies
		booleanQuery.AddShould(exactMatch)
		booleanQuery.AddShould(prefixMatch)
	}

	// Build final query with filters
	finalQuery := bleve.NewBooleanQuery()
	if queryString != "" {
		finalQuery.AddMust(booleanQuery)
	}

	// Add filters
	if categoryName != "" {
		categoryQuery := bleve.NewMatchQuery(categoryName)
		categoryQuery.SetField("category_name")
		finalQuery.AddMust(categoryQuery)
	}

	if vendorID != "" {
		vendorQuery := bleve.NewTermQuery(strings.ToLower(vendorID))
		vendorQuery.SetField("vendor_id")
		finalQuery.AddMust(vendorQuery)
	}

	if rentable != nil {
		rentableQuery := bleve.NewBoolFieldQuery(*rentable)
		rentableQuery.SetField("is_rentable")
		finalQuery.AddMust(rentableQuery)
	}

	return r.indexer.SearchIndex("products", finalQuery, 20)
}

// UpdateProduct updates a product document in Bleve
func (r *BleveRepository) UpdateProduct(product models.Product) error {
	productID := product.ID.String()

	// Delete existing document
	if err := r.indexer.DeleteDocument("products", productID); err != nil {
		config.Logger.Error("Failed to delete product document for update",
			zap.Error(err),
			zap.String("product_id", productID))
		return err
	}

	// Re-index updated product
	return r.IndexSingleProduct(product)
}

// DeleteProduct removes a product from the index
func (r *BleveRepository) DeleteProduct(productID string) error {
	err := r.indexer.DeleteDocument("products", productID)
	if err != nil {
		config.Logger.Error("Failed to delete product from Bleve",
			zap.Error(err),
			zap.String("product_id", productID))
		return err
	}
	config.Logger.Info("Successfully deleted product from Bleve",
		zap.String("product_id", productID))
	return nil
}

func (r *BleveRepository) GetProductDocument(id string) (interface{}, error) {
	return r.indexer.GetDocument("products", id)
}

func derefUUID(u *uuid.UUID) string {
	if u != nil {
		return u.String()
	}
	return ""
}
