package repositories

import (
	"context"
	"errors"
	"fmt"

	"rental-marketplace-backend/db"
	"rental-marketplace-backend/db/models"
	reservation_repositories "rental-marketplace-backend/reservations/repositories"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	CreateProduct(product *models.Product) (*models.Product, error)
	CreateCategory(category *models.ProductCategory) (*models.ProductCategory, error)
	CreateVendor(vendor *models.Vendor) (*models.Vendor, error)
	GetProductByID(id string) (*models.Product, error)
	GetProductBySKU(sku string) (*models.Product, error)
	GetCategoryByName(name string) (*models.ProductCategory, error)
	GetVendorByEmail(email string) (*models.Vendor, error)
	GetAllActiveProducts() ([]models.Product, error)
	UpdateProduct(product *models.Product) (*models.Product, error)
	QuantityOnHand(ctx context.Context, productID uuid.UUID) (int, error)
	GetFilteredProducts(filters map[string]string, pageSize int, offset int) ([]models.Product, int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

func (r *productRepository) CreateProduct(product *models.Product) (*models.Product, error) {
	product.ID = uuid.New()
	err := r.db.Create(product).Error
	return product, err
}

func (r *productRepository) CreateCategory(category *models.ProductCategory) (*models.ProductCategory, error) {
	category.ID = uuid.New()
	err := r.db.Create(category).Error
	return category, err
}

func (r *productRepository) CreateVendor(vendor *models.Vendor) (*models.Vendor, error) {
	vendor.ID = uuid.New()
	err := r.db.Create(vendor).Error
	return vendor, err
}

func (r *productRepository) GetProductByID(id string) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Category").Preload("Vendor").First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with id '%s' not found", id)
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetProductBySKU(sku string) (*models.Product, error) {
	var product models.Product
	err := r.db.First(&product, "sku = ?", sku).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with SKU '%s' not found", sku)
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetCategoryByName(name string) (*models.ProductCategory, error) {
	var category models.ProductCategory
	err := r.db.First(&category, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category '%s' not found", name)
		}
		return nil, err
	}
	return &category, nil
}

func (r *productRepository) GetVendorByEmail(email string) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.First(&vendor, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("vendor with email '%s' not found", email)
		}
		return nil, err
	}
	return &vendor, nil
}

// GetAllActiveProducts feeds the search index rebuild on startup.
func (r *productRepository) GetAllActiveProducts() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Preload("Category").Preload("Vendor").
		Where("is_active = ?", true).
		Find(&products).Error
	return products, err
}

func (r *productRepository) UpdateProduct(product *models.Product) (*models.Product, error) {
	if err := r.db.Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// QuantityOnHand reads the physical stock level for a product. It runs
// on the transaction carried in ctx when one is present, so an
// availability check inside a reservation lock sees the locked row.
func (r *productRepository) QuantityOnHand(ctx context.Context, productID uuid.UUID) (int, error) {
	var product models.Product
	err := db.Conn(ctx, r.db).
		Select("id", "quantity_on_hand").
		First(&product, "id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, reservation_repositories.ErrProductNotFound
		}
		return 0, err
	}
	return product.QuantityOnHand, nil
}
