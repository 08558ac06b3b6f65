package services

import (
	"time"

	"rental-marketplace-backend/db/models"
)

const (
	QuotationPriority   = 1
	RentalOrderPriority = 10

	// DefaultQuotationTTL bounds how long a tentative quotation hold may
	// lock inventory before the sweep reclaims it.
	DefaultQuotationTTL = 48 * time.Hour
)

// PriorityFor returns the priority weight stored on a reservation at
// creation. Order-backed holds outrank quotation-backed holds. The
// field is denormalized so historical rows keep the weight in force
// when they were written, even if the policy changes later.
func PriorityFor(sourceType models.ReservationSourceType) int {
	if sourceType == models.RentalOrderSource {
		return RentalOrderPriority
	}
	return QuotationPriority
}

// DefaultExpiry returns when a new hold should auto-expire: quotation
// holds get the policy TTL, order-backed holds never expire (nil).
func DefaultExpiry(sourceType models.ReservationSourceType, now time.Time) *time.Time {
	if sourceType == models.RentalOrderSource {
		return nil
	}
	expiry := now.Add(DefaultQuotationTTL)
	return &expiry
}

// ConflictResolver is an extension point for bumping a lower-priority
// hold when a higher-priority one needs the same slot. No resolver
// ships today: priority is stored, not yet acted upon.
type ConflictResolver interface {
	ResolveConflict(candidate, incumbent *models.Reservation) bool
}
