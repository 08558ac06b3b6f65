package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"rental-marketplace-backend/db"
	"rental-marketplace-backend/db/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sentinel errors surfaced by ledger implementations. The service layer
// translates these into the caller-facing error types.
var (
	ErrEndBeforeStart      = errors.New("reservation end date must be after start date")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrNotActive           = errors.New("reservation is not active")
	ErrLockConflict        = errors.New("reservation lock conflict, retry")
)

// ReservationRepository is the reservation ledger: durable storage of
// quantity holds with the interval-overlap query the availability
// calculator depends on. Implementations must make WithProductLock
// serialize concurrent work on the same product so check-then-insert
// cannot oversell.
type ReservationRepository interface {
	// FindOverlapping returns every active reservation for the product
	// whose [StartDate, EndDate) intersects [start, end), optionally
	// skipping one reservation (used when re-checking during an
	// update-as-cancel-plus-recreate flow). Single query by contract.
	FindOverlapping(ctx context.Context, productID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]models.Reservation, error)

	GetReservationByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error)

	// Insert persists a new reservation. Fails with ErrEndBeforeStart
	// when the window is inverted or empty.
	Insert(ctx context.Context, reservation *models.Reservation) error

	// SetStatus transitions a reservation out of active. Transitions are
	// one-directional: anything but active -> terminal fails with
	// ErrNotActive.
	SetStatus(ctx context.Context, id uuid.UUID, status models.ReservationStatus, updatedBy string) (*models.Reservation, error)

	// SetStatusBySource bulk-transitions all active reservations created
	// by the given quotation or order, returning how many rows moved.
	SetStatusBySource(ctx context.Context, sourceType models.ReservationSourceType, sourceID uuid.UUID, status models.ReservationStatus, updatedBy string) (int64, error)

	// ExpireStale transitions active quotation-sourced reservations whose
	// ExpiresAt has passed to expired. Idempotent.
	ExpireStale(ctx context.Context, now time.Time) ([]models.Reservation, error)

	// WithProductLock runs fn inside the per-product critical section.
	// The ctx handed to fn routes repository calls onto the same
	// transaction/lock.
	WithProductLock(ctx context.Context, productID uuid.UUID, fn func(ctx context.Context) error) error

	GetFilteredReservations(pageSize int, offset int, filters map[string]string) ([]models.Reservation, int64, error)
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(gdb *gorm.DB) ReservationRepository {
	return &reservationRepository{db: gdb}
}

func (r *reservationRepository) FindOverlapping(ctx context.Context, productID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]models.Reservation, error) {
	var reservations []models.Reservation

	// Three-case overlap in one predicate: existing starts inside the
	// window, existing ends inside the window, or existing encloses it.
	// Half-open [start, end): touching intervals do not overlap.
	query := db.Conn(ctx, r.db).
		Where("product_id = ?", productID).
		Where("status = ?", models.ActiveReservationStatus).
		Where(
			r.db.Where("start_date >= ? AND start_date < ?", start, end).
				Or("end_date > ? AND end_date <= ?", start, end).
				Or("start_date <= ? AND end_date >= ?", start, end),
		)

	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	if err := query.Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) GetReservationByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation
	err := db.Conn(ctx, r.db).First(&reservation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepository) Insert(ctx context.Context, reservation *models.Reservation) error {
	if !reservation.EndDate.After(reservation.StartDate) {
		return ErrEndBeforeStart
	}
	return db.Conn(ctx, r.db).Create(reservation).Error
}

func (r *reservationRepository) SetStatus(ctx context.Context, id uuid.UUID, status models.ReservationStatus, updatedBy string) (*models.Reservation, error) {
	conn := db.Conn(ctx, r.db)

	// Guarded update: the WHERE status = 'active' clause makes the
	// transition check and the write a single statement, so a concurrent
	// transition cannot slip between them.
	result := conn.Model(&models.Reservation{}).
		Where("id = ? AND status = ?", id, models.ActiveReservationStatus).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing row from a non-active one.
		var existing models.Reservation
		if err := conn.First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrReservationNotFound
			}
			return nil, err
		}
		return nil, ErrNotActive
	}

	return r.GetReservationByID(ctx, id)
}

func (r *reservationRepository) SetStatusBySource(ctx context.Context, sourceType models.ReservationSourceType, sourceID uuid.UUID, status models.ReservationStatus, updatedBy string) (int64, error) {
	result := db.Conn(ctx, r.db).Model(&models.Reservation{}).
		Where("source_type = ? AND source_id = ? AND status = ?", sourceType, sourceID, models.ActiveReservationStatus).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": updatedBy,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *reservationRepository) ExpireStale(ctx context.Context, now time.Time) ([]models.Reservation, error) {
	conn := db.Conn(ctx, r.db)

	var stale []models.Reservation
	err := conn.
		Where("status = ?", models.ActiveReservationStatus).
		Where("source_type = ?", models.QuotationSource).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Find(&stale).Error
	if err != nil {
		return nil, err
	}
	if len(stale) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(stale))
	for _, res := range stale {
		ids = append(ids, res.ID)
	}

	// Re-filter on status in the UPDATE so a hold completed or released
	// between the read and the write is left alone.
	result := conn.Model(&models.Reservation{}).
		Where("id IN ? AND status = ?", ids, models.ActiveReservationStatus).
		Update("status", models.ExpiredReservationStatus)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	// Report only the rows the UPDATE actually moved; a hold that left
	// the active state mid-sweep must not trigger expiry notifications.
	var expired []models.Reservation
	err = conn.
		Where("id IN ? AND status = ?", ids, models.ExpiredReservationStatus).
		Find(&expired).Error
	if err != nil {
		return nil, err
	}
	return expired, nil
}

func (r *reservationRepository) WithProductLock(ctx context.Context, productID uuid.UUID, fn func(ctx context.Context) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row lock on the product serializes every reservation attempt
		// for it; concurrent attempts queue here instead of racing the
		// availability check.
		var product models.Product
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "quantity_on_hand").
			First(&product, "id = ?", productID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		return fn(db.WithTx(ctx, tx))
	})

	// Deadlocks and serialization failures are retryable; surface them
	// as a distinct sentinel so the service layer can tell callers.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01") {
		return ErrLockConflict
	}
	return err
}

// GetFilteredReservations retrieves reservations with filtering and pagination
func (r *reservationRepository) GetFilteredReservations(pageSize int, offset int, filters map[string]string) ([]models.Reservation, int64, error) {
	var reservations []models.Reservation
	var total int64

	query := r.db.Model(&models.Reservation{})

	for key, value := range filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "vendor_id":
			query = query.Where("vendor_id = ?", value)
		case "status":
			query = query.Where("status = ?", strings.ToLower(value))
		case "source_type":
			query = query.Where("source_type = ?", strings.ToLower(value))
		case "source_id":
			query = query.Where("source_id = ?", value)
		case "start_date":
			query = query.Where("Date(start_date) >= ?", value)
		case "end_date":
			query = query.Where("Date(end_date) <= ?", value)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Limit(pageSize).Offset(offset).Order("created_at DESC").Find(&reservations).Error; err != nil {
		return nil, 0, err
	}

	return reservations, total, nil
}
