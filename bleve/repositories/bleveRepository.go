package repositories

import (
	"context"
	bleveindex "rental-marketplace-backend/bleve/services"
	"rental-marketplace-backend/db/models"
)

type BleveRepository struct {
	indexer *bleveindex.IndexingService
}

type BleveRepositoryInterface interface {
	// General
	DeleteAllIndices(ctx context.Context) error

	// ==== Product Indexing ====
	IndexSingleProduct(product models.Product) error
	IndexExistingProducts(products []models.Product) error
	UpdateProduct(product models.Product) error
	DeleteProduct(productID string) error

	// ==== User Indexing ====
	IndexSingleUser(user models.User) error
	IndexExistingUsers(users []models.User) error
	UpdateUser(user models.User) error
	DeleteUser(userID string) error
}

// Constructor returning both the struct and the interface
func NewBleveRepository(indexer *bleveindex.IndexingService) (*BleveRepository, BleveRepositoryInterface) {
	repo := &BleveRepository{indexer: indexer}
	return repo, repo
}

func (r *BleveRepository) DeleteAllIndices(ctx context.Context) error {
	return r.indexer.DeleteAllIndices()
}
