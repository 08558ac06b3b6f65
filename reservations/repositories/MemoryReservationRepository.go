package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"rental-marketplace-backend/db/models"

	"github.com/google/uuid"
)

// MemoryReservationRepository is an in-process ledger used by tests and
// single-node deployments without Postgres. Per-product mutexes give the
// same serialization guarantee the SQL implementation gets from row
// locks.
type MemoryReservationRepository struct {
	mu           sync.RWMutex
	reservations map[uuid.UUID]*models.Reservation

	lockMu       sync.Mutex
	productLocks map[uuid.UUID]*sync.Mutex

	// Product stock known to the in-memory world.
	stockMu sync.RWMutex
	onHand  map[uuid.UUID]int
}

func NewMemoryReservationRepository() *MemoryReservationRepository {
	return &MemoryReservationRepository{
		reservations: make(map[uuid.UUID]*models.Reservation),
		productLocks: make(map[uuid.UUID]*sync.Mutex),
		onHand:       make(map[uuid.UUID]int),
	}
}

// SetProductOnHand registers a product and its stock level.
func (m *MemoryReservationRepository) SetProductOnHand(productID uuid.UUID, quantity int) {
	m.stockMu.Lock()
	defer m.stockMu.Unlock()
	m.onHand[productID] = quantity
}

// QuantityOnHand implements the product stock collaborator for the
// availability calculator.
func (m *MemoryReservationRepository) QuantityOnHand(ctx context.Context, productID uuid.UUID) (int, error) {
	m.stockMu.RLock()
	defer m.stockMu.RUnlock()
	quantity, ok := m.onHand[productID]
	if !ok {
		return 0, ErrProductNotFound
	}
	return quantity, nil
}

func (m *MemoryReservationRepository) FindOverlapping(ctx context.Context, productID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]models.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []models.Reservation
	for _, res := range m.reservations {
		if res.ProductID != productID || res.Status != models.ActiveReservationStatus {
			continue
		}
		if excludeID != nil && res.ID == *excludeID {
			continue
		}
		if res.Overlaps(start, end) {
			matches = append(matches, *res)
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].StartDate.Before(matches[j].StartDate)
	})
	return matches, nil
}

func (m *MemoryReservationRepository) GetReservationByID(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res, ok := m.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	clone := *res
	return &clone, nil
}

func (m *MemoryReservationRepository) Insert(ctx context.Context, reservation *models.Reservation) error {
	if !reservation.EndDate.After(reservation.StartDate) {
		return ErrEndBeforeStart
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if reservation.ID == uuid.Nil {
		reservation.ID = uuid.New()
	}
	now := time.Now()
	reservation.CreatedAt = now
	reservation.UpdatedAt = now

	clone := *reservation
	m.reservations[reservation.ID] = &clone
	return nil
}

func (m *MemoryReservationRepository) SetStatus(ctx context.Context, id uuid.UUID, status models.ReservationStatus, updatedBy string) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, ok := m.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	if res.Status != models.ActiveReservationStatus {
		return nil, ErrNotActive
	}

	res.Status = status
	res.UpdatedBy = &updatedBy
	res.UpdatedAt = time.Now()

	clone := *res
	return &clone, nil
}

func (m *MemoryReservationRepository) SetStatusBySource(ctx context.Context, sourceType models.ReservationSourceType, sourceID uuid.UUID, status models.ReservationStatus, updatedBy string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var affected int64
	for _, res := range m.reservations {
		if res.SourceType != sourceType || res.SourceID != sourceID {
			continue
		}
		if res.Status != models.ActiveReservationStatus {
			continue
		}
		res.Status = status
		res.UpdatedBy = &updatedBy
		res.UpdatedAt = time.Now()
		affected++
	}
	return affected, nil
}

func (m *MemoryReservationRepository) ExpireStale(ctx context.Context, now time.Time) ([]models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expired []models.Reservation
	for _, res := range m.reservations {
		if res.Status != models.ActiveReservationStatus || res.SourceType != models.QuotationSource {
			continue
		}
		if res.ExpiresAt == nil || !res.ExpiresAt.Before(now) {
			continue
		}
		res.Status = models.ExpiredReservationStatus
		res.UpdatedAt = now
		expired = append(expired, *res)
	}
	return expired, nil
}

func (m *MemoryReservationRepository) WithProductLock(ctx context.Context, productID uuid.UUID, fn func(ctx context.Context) error) error {
	m.stockMu.RLock()
	_, known := m.onHand[productID]
	m.stockMu.RUnlock()
	if !known {
		return ErrProductNotFound
	}

	m.lockMu.Lock()
	lock, ok := m.productLocks[productID]
	if !ok {
		lock = &sync.Mutex{}
		m.productLocks[productID] = lock
	}
	m.lockMu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn(ctx)
}

func (m *MemoryReservationRepository) GetFilteredReservations(pageSize int, offset int, filters map[string]string) ([]models.Reservation, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var all []models.Reservation
	for _, res := range m.reservations {
		if matchesFilters(res, filters) {
			all = append(all, *res)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func matchesFilters(res *models.Reservation, filters map[string]string) bool {
	for key, value := range filters {
		switch key {
		case "product_id":
			if res.ProductID.String() != value {
				return false
			}
		case "customer_id":
			if res.CustomerID.String() != value {
				return false
			}
		case "vendor_id":
			if res.VendorID.String() != value {
				return false
			}
		case "status":
			if string(res.Status) != strings.ToLower(value) {
				return false
			}
		case "source_type":
			if string(res.SourceType) != strings.ToLower(value) {
				return false
			}
		case "source_id":
			if res.SourceID.String() != value {
				return false
			}
		}
	}
	return true
}
