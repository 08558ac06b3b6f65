package controllers

import (
	indexing_repository "rental-marketplace-backend/bleve/repositories"
	"rental-marketplace-backend/products/repositories"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type ProductController struct {
	ProductRepo repositories.ProductRepository
	DB          *gorm.DB
	BleveRepo   indexing_repository.BleveRepositoryInterface
	RedisClient *redis.Client
}
