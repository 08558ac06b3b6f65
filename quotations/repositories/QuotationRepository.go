package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"rental-marketplace-backend/db/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuotationRepository interface {
	CreateQuotation(quotation *models.Quotation) (*models.Quotation, error)
	GetQuotationByID(id uuid.UUID) (*models.Quotation, error)
	CountQuotationsForYear(year int) (int64, error)
	UpdateQuotationStatus(id uuid.UUID, status models.QuotationStatus, updatedBy string) error
	SetItemReservation(itemID uuid.UUID, reservationID *uuid.UUID) error
	GetFilteredQuotations(pageSize int, offset int, filters map[string]string) ([]models.Quotation, int64, error)

	CreateCustomer(customer *models.Customer) (*models.Customer, error)
	GetCustomerByID(id uuid.UUID) (*models.Customer, error)
	GetCustomerByEmail(email string) (*models.Customer, error)
}

type quotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) QuotationRepository {
	return &quotationRepository{
		db: db,
	}
}

// CreateQuotation persists the quotation header and its items together.
func (r *quotationRepository) CreateQuotation(quotation *models.Quotation) (*models.Quotation, error) {
	if quotation.ID == uuid.Nil {
		quotation.ID = uuid.New()
	}
	err := r.db.Create(quotation).Error
	return quotation, err
}

func (r *quotationRepository) GetQuotationByID(id uuid.UUID) (*models.Quotation, error) {
	var quotation models.Quotation
	err := r.db.
		Preload("Items").
		Preload("Items.Product").
		Preload("Customer").
		Preload("Vendor").
		First(&quotation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quotation with id '%s' not found", id)
		}
		return nil, err
	}
	return &quotation, nil
}

// CountQuotationsForYear drives the QT-<year>-<seq> numbering.
func (r *quotationRepository) CountQuotationsForYear(year int) (int64, error) {
	var count int64
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	err := r.db.Model(&models.Quotation{}).Unscoped().
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	return count, err
}

func (r *quotationRepository) UpdateQuotationStatus(id uuid.UUID, status models.QuotationStatus, updatedBy string) error {
	result := r.db.Model(&models.Quotation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("quotation with id '%s' not found", id)
	}
	return nil
}

func (r *quotationRepository) SetItemReservation(itemID uuid.UUID, reservationID *uuid.UUID) error {
	return r.db.Model(&models.QuotationItem{}).
		Where("id = ?", itemID).
		Update("reservation_id", reservationID).Error
}

// GetFilteredQuotations retrieves quotations with filtering and pagination
func (r *quotationRepository) GetFilteredQuotations(pageSize int, offset int, filters map[string]string) ([]models.Quotation, int64, error) {
	var quotations []models.Quotation
	var total int64

	db := r.db.Model(&models.Quotation{})

	for key, value := range filters {
		switch key {
		case "status":
			db = db.Where("status = ?", strings.ToUpper(value))
		case "customer_id":
			db = db.Where("customer_id = ?", value)
		case "vendor_id":
			db = db.Where("vendor_id = ?", value)
		case "quotation_number":
			db = db.Where("quotation_number ILIKE ?", "%"+value+"%")
		case "created_by":
			db = db.Where("created_by ILIKE ?", "%"+value+"%")
		case "start_date":
			db = db.Where("Date(created_at) >= ?", value)
		case "end_date":
			db = db.Where("Date(created_at) <= ?", value)
		}
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Items").Preload("Customer").
		Limit(pageSize).Offset(offset).Order("created_at DESC").
		Find(&quotations).Error; err != nil {
		return nil, 0, err
	}

	return quotations, total, nil
}

func (r *quotationRepository) CreateCustomer(customer *models.Customer) (*models.Customer, error) {
	customer.ID = uuid.New()
	err := r.db.Create(customer).Error
	return customer, err
}

func (r *quotationRepository) GetCustomerByID(id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.First(&customer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer with id '%s' not found", id)
		}
		return nil, err
	}
	return &customer, nil
}

func (r *quotationRepository) GetCustomerByEmail(email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.First(&customer, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer with email '%s' not found", email)
		}
		return nil, err
	}
	return &customer, nil
}
