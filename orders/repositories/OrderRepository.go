package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"rental-marketplace-backend/db/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderRepository interface {
	CreateOrder(order *models.RentalOrder) (*models.RentalOrder, error)
	GetOrderByID(id uuid.UUID) (*models.RentalOrder, error)
	CountOrdersForYear(year int) (int64, error)
	UpdateOrderStatus(id uuid.UUID, status models.RentalOrderStatus, updatedBy string) error
	MarkPickedUp(id uuid.UUID, at time.Time, updatedBy string) error
	MarkReturned(id uuid.UUID, at time.Time, updatedBy string) error
	SetItemReservation(itemID uuid.UUID, reservationID *uuid.UUID) error
	GetFilteredOrders(pageSize int, offset int, filters map[string]string) ([]models.RentalOrder, int64, error)

	CreateInvoice(invoice *models.Invoice) (*models.Invoice, error)
	VoidInvoicesForOrder(orderID uuid.UUID, updatedBy string) (int64, error)
	GetInvoiceByID(id uuid.UUID) (*models.Invoice, error)
	CountInvoicesForYear(year int) (int64, error)
	ApplyPayment(payment *models.Payment) (*models.Payment, error)
	CountPaymentsForYear(year int) (int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{
		db: db,
	}
}

// CreateOrder persists the order header and its items together.
func (r *orderRepository) CreateOrder(order *models.RentalOrder) (*models.RentalOrder, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	err := r.db.Create(order).Error
	return order, err
}

func (r *orderRepository) GetOrderByID(id uuid.UUID) (*models.RentalOrder, error) {
	var order models.RentalOrder
	err := r.db.
		Preload("Items").
		Preload("Items.Product").
		Preload("Customer").
		Preload("Vendor").
		Preload("Invoices").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("rental order with id '%s' not found", id)
		}
		return nil, err
	}
	return &order, nil
}

// CountOrdersForYear drives the RO-<year>-<seq> numbering.
func (r *orderRepository) CountOrdersForYear(year int) (int64, error) {
	var count int64
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	err := r.db.Model(&models.RentalOrder{}).Unscoped().
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	return count, err
}

func (r *orderRepository) UpdateOrderStatus(id uuid.UUID, status models.RentalOrderStatus, updatedBy string) error {
	result := r.db.Model(&models.RentalOrder{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("rental order with id '%s' not found", id)
	}
	return nil
}

func (r *orderRepository) MarkPickedUp(id uuid.UUID, at time.Time, updatedBy string) error {
	result := r.db.Model(&models.RentalOrder{}).
		Where("id = ? AND status = ?", id, models.ConfirmedOrderStatus).
		Updates(map[string]interface{}{
			"status":       models.PickedUpOrderStatus,
			"picked_up_at": at,
			"updated_by":   updatedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("rental order '%s' is not in a confirmable state for pickup", id)
	}
	return nil
}

func (r *orderRepository) MarkReturned(id uuid.UUID, at time.Time, updatedBy string) error {
	result := r.db.Model(&models.RentalOrder{}).
		Where("id = ? AND status IN ?", id, []models.RentalOrderStatus{
			models.ConfirmedOrderStatus,
			models.PickedUpOrderStatus,
		}).
		Updates(map[string]interface{}{
			"status":      models.ReturnedOrderStatus,
			"returned_at": at,
			"updated_by":  updatedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("rental order '%s' cannot be returned from its current state", id)
	}
	return nil
}

func (r *orderRepository) SetItemReservation(itemID uuid.UUID, reservationID *uuid.UUID) error {
	return r.db.Model(&models.RentalOrderItem{}).
		Where("id = ?", itemID).
		Update("reservation_id", reservationID).Error
}

// GetFilteredOrders retrieves rental orders with filtering and pagination
func (r *orderRepository) GetFilteredOrders(pageSize int, offset int, filters map[string]string) ([]models.RentalOrder, int64, error) {
	var orders []models.RentalOrder
	var total int64

	db := r.db.Model(&models.RentalOrder{})

	for key, value := range filters {
		switch key {
		case "status":
			db = db.Where("status = ?", strings.ToUpper(value))
		case "customer_id":
			db = db.Where("customer_id = ?", value)
		case "vendor_id":
			db = db.Where("vendor_id = ?", value)
		case "order_number":
			db = db.Where("order_number ILIKE ?", "%"+value+"%")
		case "quotation_id":
			db = db.Where("quotation_id = ?", value)
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
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepository) CreateInvoice(invoice *models.Invoice) (*models.Invoice, error) {
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	err := r.db.Create(invoice).Error
	return invoice, err
}

// VoidInvoicesForOrder voids every unpaid invoice on a cancelled order.
func (r *orderRepository) VoidInvoicesForOrder(orderID uuid.UUID, updatedBy string) (int64, error) {
	result := r.db.Model(&models.Invoice{}).
		Where("rental_order_id = ? AND status IN ?", orderID, []models.InvoiceStatus{
			models.IssuedInvoiceStatus,
			models.OverdueInvoiceStatus,
		}).
		Updates(map[string]interface{}{
			"status":     models.VoidedInvoiceStatus,
			"updated_by": updatedBy,
		})
	return result.RowsAffected, result.Error
}

func (r *orderRepository) GetInvoiceByID(id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.Preload("Payments").First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invoice with id '%s' not found", id)
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *orderRepository) CountInvoicesForYear(year int) (int64, error) {
	var count int64
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	err := r.db.Model(&models.Invoice{}).Unscoped().
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	return count, err
}

// ApplyPayment records a payment and rolls the invoice's paid amount
// and status forward inside one transaction.
func (r *orderRepository) ApplyPayment(payment *models.Payment) (*models.Payment, error) {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := tx.First(&invoice, "id = ?", payment.InvoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("invoice with id '%s' not found", payment.InvoiceID)
			}
			return err
		}

		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		if payment.Status != models.PaidPayment {
			return nil
		}

		amountPaid := invoice.AmountPaid.Add(payment.Amount)
		status := models.PartialInvoiceStatus
		if amountPaid.GreaterThanOrEqual(invoice.Total) {
			status = models.PaidInvoiceStatus
		}
		if amountPaid.Equal(decimal.Zero) {
			status = invoice.Status
		}

		return tx.Model(&models.Invoice{}).
			Where("id = ?", invoice.ID).
			Updates(map[string]interface{}{
				"amount_paid": amountPaid,
				"status":      status,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *orderRepository) CountPaymentsForYear(year int) (int64, error) {
	var count int64
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	err := r.db.Model(&models.Payment{}).Unscoped().
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	return count, err
}
