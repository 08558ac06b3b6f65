package services

import (
	"fmt"

	"rental-marketplace-backend/db/models"

	"github.com/google/uuid"
)

// ValidationError rejects malformed input before the ledger is touched.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NotFoundError signals a missing product or reservation.
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// CapacityError rejects a reservation whose quantity exceeds the free
// stock in the requested window. AvailableQuantity carries the
// shortfall so callers can render "(only N available)" messaging.
type CapacityError struct {
	ProductID         uuid.UUID
	RequestedQuantity int
	AvailableQuantity int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d (only %d available)",
		e.ProductID, e.RequestedQuantity, e.AvailableQuantity)
}

// InvalidTransitionError signals an attempt to move a reservation that
// has already left the active state.
type InvalidTransitionError struct {
	ReservationID uuid.UUID
	Status        models.ReservationStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("reservation %s is %s and cannot transition", e.ReservationID, e.Status)
}

// ConcurrencyConflictError surfaces lock or transaction contention the
// caller should retry.
type ConcurrencyConflictError struct {
	ProductID uuid.UUID
	Cause     error
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("concurrent reservation conflict on product %s: %v", e.ProductID, e.Cause)
}

func (e *ConcurrencyConflictError) Unwrap() error {
	return e.Cause
}
