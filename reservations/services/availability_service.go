package services

import (
	"context"
	"errors"
	"time"

	"rental-marketplace-backend/reservations/repositories"

	"github.com/google/uuid"
)

// ProductStock is the only fact this core needs from the product
// catalog. Stock adjustments on purchase or write-off belong to
// inventory management, not here.
type ProductStock interface {
	QuantityOnHand(ctx context.Context, productID uuid.UUID) (int, error)
}

// AvailabilityResult reports free quantity for a product over a window.
// Available means at least one unit is free, not that any particular
// requested quantity fits; callers compare AvailableQuantity against
// the quantity they want.
type AvailabilityResult struct {
	Available         bool `json:"available"`
	AvailableQuantity int  `json:"available_quantity"`
	TotalOnHand       int  `json:"total_on_hand"`
	TotalReserved     int  `json:"total_reserved"`
	OverlapCount      int  `json:"overlap_count"`
}

// AvailabilityService converts on-hand stock and the ledger's
// overlapping holds into a free-quantity figure.
type AvailabilityService struct {
	ledger repositories.ReservationRepository
	stock  ProductStock
}

func NewAvailabilityService(ledger repositories.ReservationRepository, stock ProductStock) *AvailabilityService {
	return &AvailabilityService{ledger: ledger, stock: stock}
}

// CheckAvailability computes the free quantity for [start, end).
// excludeID, when set, leaves one reservation out of the sum so an
// update flow can re-check as if that hold were already removed.
func (s *AvailabilityService) CheckAvailability(ctx context.Context, productID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (*AvailabilityResult, error) {
	if !end.After(start) {
		return nil, &ValidationError{Field: "end_date", Reason: "must be after start_date"}
	}

	totalOnHand, err := s.stock.QuantityOnHand(ctx, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, &NotFoundError{Resource: "product", ID: productID}
		}
		return nil, err
	}

	overlapping, err := s.ledger.FindOverlapping(ctx, productID, start, end, excludeID)
	if err != nil {
		return nil, err
	}

	totalReserved := 0
	for _, reservation := range overlapping {
		totalReserved += reservation.Quantity
	}

	availableQuantity := totalOnHand - totalReserved
	if availableQuantity < 0 {
		availableQuantity = 0
	}

	return &AvailabilityResult{
		Available:         availableQuantity > 0,
		AvailableQuantity: availableQuantity,
		TotalOnHand:       totalOnHand,
		TotalReserved:     totalReserved,
		OverlapCount:      len(overlapping),
	}, nil
}
