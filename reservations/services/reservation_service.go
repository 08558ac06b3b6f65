package services

import (
	"context"
	"errors"
	"time"

	"rental-marketplace-backend/db/models"
	"rental-marketplace-backend/reservations/repositories"

	"github.com/google/uuid"
)

// ReserveParams carries everything needed to place a hold.
type ReserveParams struct {
	ProductID  uuid.UUID
	Quantity   int
	StartDate  time.Time
	EndDate    time.Time
	SourceType models.ReservationSourceType
	SourceID   uuid.UUID
	CustomerID uuid.UUID
	VendorID   uuid.UUID
	// ExpiresAt overrides the policy default TTL for quotation holds.
	// Ignored for order-backed holds, which never expire.
	ExpiresAt *time.Time
	Notes     *string
	CreatedBy string
}

// ReservationService is the arbiter: the only entry point that mutates
// the ledger. Reserve runs its check-then-insert sequence inside the
// repository's per-product critical section so two concurrent callers
// cannot both pass the availability check and jointly oversell.
type ReservationService struct {
	ledger       repositories.ReservationRepository
	availability *AvailabilityService
}

func NewReservationService(ledger repositories.ReservationRepository, availability *AvailabilityService) *ReservationService {
	return &ReservationService{
		ledger:       ledger,
		availability: availability,
	}
}

// Reserve checks availability and atomically creates an active hold, or
// rejects with a CapacityError carrying the shortfall.
func (s *ReservationService) Reserve(ctx context.Context, params ReserveParams) (*models.Reservation, error) {
	if params.Quantity < 1 {
		return nil, &ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	if !params.EndDate.After(params.StartDate) {
		return nil, &ValidationError{Field: "end_date", Reason: "must be after start_date"}
	}
	if params.SourceType != models.QuotationSource && params.SourceType != models.RentalOrderSource {
		return nil, &ValidationError{Field: "source_type", Reason: "must be quotation or rental_order"}
	}

	var created *models.Reservation
	err := s.ledger.WithProductLock(ctx, params.ProductID, func(lockedCtx context.Context) error {
		result, err := s.availability.CheckAvailability(lockedCtx, params.ProductID, params.StartDate, params.EndDate, nil)
		if err != nil {
			return err
		}

		if result.AvailableQuantity < params.Quantity {
			return &CapacityError{
				ProductID:         params.ProductID,
				RequestedQuantity: params.Quantity,
				AvailableQuantity: result.AvailableQuantity,
			}
		}

		expiresAt := params.ExpiresAt
		if params.SourceType == models.RentalOrderSource {
			expiresAt = nil
		} else if expiresAt == nil {
			expiresAt = DefaultExpiry(params.SourceType, time.Now())
		}

		reservation := &models.Reservation{
			ProductID:  params.ProductID,
			Quantity:   params.Quantity,
			StartDate:  params.StartDate,
			EndDate:    params.EndDate,
			SourceType: params.SourceType,
			SourceID:   params.SourceID,
			CustomerID: params.CustomerID,
			VendorID:   params.VendorID,
			Status:     models.ActiveReservationStatus,
			Priority:   PriorityFor(params.SourceType),
			ExpiresAt:  expiresAt,
			Notes:      params.Notes,
			CreatedBy:  params.CreatedBy,
		}

		if err := s.ledger.Insert(lockedCtx, reservation); err != nil {
			return err
		}
		created = reservation
		return nil
	})
	if err != nil {
		return nil, s.translate(err, params.ProductID)
	}
	return created, nil
}

// Release transitions a hold to cancelled, freeing its quantity for
// later availability checks. Idempotent failures surface as
// InvalidTransitionError rather than silently passing.
func (s *ReservationService) Release(ctx context.Context, reservationID uuid.UUID, updatedBy string) (*models.Reservation, error) {
	reservation, err := s.ledger.SetStatus(ctx, reservationID, models.CancelledReservationStatus, updatedBy)
	if err != nil {
		return nil, s.translateTransition(ctx, err, reservationID)
	}
	return reservation, nil
}

// CompleteBySource retires every active hold created by the given
// quotation or order. Called when a rental order's return is processed.
func (s *ReservationService) CompleteBySource(ctx context.Context, sourceType models.ReservationSourceType, sourceID uuid.UUID, updatedBy string) (int64, error) {
	return s.ledger.SetStatusBySource(ctx, sourceType, sourceID, models.CompletedReservationStatus, updatedBy)
}

// CancelBySource cancels every active hold created by the given source.
// Used when a quotation is confirmed (its tentative holds give way to
// order-backed ones) or an order is cancelled.
func (s *ReservationService) CancelBySource(ctx context.Context, sourceType models.ReservationSourceType, sourceID uuid.UUID, updatedBy string) (int64, error) {
	return s.ledger.SetStatusBySource(ctx, sourceType, sourceID, models.CancelledReservationStatus, updatedBy)
}

// ExpireStale sweeps active quotation holds whose ExpiresAt has passed.
// Safe to run repeatedly; the second run in a row affects zero rows.
func (s *ReservationService) ExpireStale(ctx context.Context) ([]models.Reservation, error) {
	return s.ledger.ExpireStale(ctx, time.Now())
}

// CheckAvailability exposes the calculator to callers that only want
// the numbers, without going through a lock.
func (s *ReservationService) CheckAvailability(ctx context.Context, productID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (*AvailabilityResult, error) {
	return s.availability.CheckAvailability(ctx, productID, start, end, excludeID)
}

func (s *ReservationService) GetReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	reservation, err := s.ledger.GetReservationByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrReservationNotFound) {
			return nil, &NotFoundError{Resource: "reservation", ID: id}
		}
		return nil, err
	}
	return reservation, nil
}

func (s *ReservationService) translate(err error, productID uuid.UUID) error {
	switch {
	case errors.Is(err, repositories.ErrProductNotFound):
		return &NotFoundError{Resource: "product", ID: productID}
	case errors.Is(err, repositories.ErrEndBeforeStart):
		return &ValidationError{Field: "end_date", Reason: "must be after start_date"}
	case errors.Is(err, repositories.ErrLockConflict):
		return &ConcurrencyConflictError{ProductID: productID, Cause: err}
	default:
		return err
	}
}

func (s *ReservationService) translateTransition(ctx context.Context, err error, reservationID uuid.UUID) error {
	switch {
	case errors.Is(err, repositories.ErrReservationNotFound):
		return &NotFoundError{Resource: "reservation", ID: reservationID}
	case errors.Is(err, repositories.ErrNotActive):
		status := models.ReservationStatus("unknown")
		if existing, lookupErr := s.ledger.GetReservationByID(ctx, reservationID); lookupErr == nil {
			status = existing.Status
		}
		return &InvalidTransitionError{ReservationID: reservationID, Status: status}
	default:
		return err
	}
}
