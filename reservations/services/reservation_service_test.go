package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"rental-marketplace-backend/db/models"
	"rental-marketplace-backend/reservations/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func setupService(t *testing.T) (*ReservationService, *repositories.MemoryReservationRepository) {
	t.Helper()
	ledger := repositories.NewMemoryReservationRepository()
	availability := NewAvailabilityService(ledger, ledger)
	return NewReservationService(ledger, availability), ledger
}

func quotationParams(productID uuid.UUID, quantity int, start, end time.Time) ReserveParams {
	return ReserveParams{
		ProductID:  productID,
		Quantity:   quantity,
		StartDate:  start,
		EndDate:    end,
		SourceType: models.QuotationSource,
		SourceID:   uuid.New(),
		CustomerID: uuid.New(),
		VendorID:   uuid.New(),
		CreatedBy:  "test@rental.local",
	}
}

func TestReserve_CreatesActiveHold(t *testing.T) {
	service, ledger := setupService(t)
	product := uuid.New()
	ledger.SetProductOnHand(product, 5)

	reservation, err := service.Reserve(context.Background(),
		quotationParams(product, 2, day(t, "2024-06-01"), day(t, "2024-06-05")))
	require.NoError(t, err)

	assert.Equal(t, models.ActiveReservationStatus, reservation.Status)
	assert.Equal(t, QuotationPriority, reservation.Priority)
	require.NotNil(t, reservation.ExpiresAt, "quotation holds get a TTL")
}

func TestReserve_OrderHoldsNeverExpire(t *testing.T) {
	service, ledger := setupService(t)
	product := uuid.New()
	ledger.SetProductOnHand(product, 5)

	expiry := time.Now().Add(time.Hour)
	params := quotationParams(product, 1, day(t, "2024-06-01"), day(t, "2024-06-05"))
	params.SourceType = models.RentalOrderSource
	params.ExpiresAt = &expiry // must be ignored for orders

	reservation, err := service.Reserve(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, RentalOrderPriority, reservation.Priority)
	assert.Nil(t, reservation.ExpiresAt)
}

func TestReserve_CapacityErrorCarriesShortfall(t *testing.T) {
	service, ledger := setupService(t)
	product := uuid.New()
	ledger.SetProductOnHand(product, 5)

	_, err := service.Reserve(context.Background(),
		quotationParams(product, 3, day(t, "2024-06-01"), day(t, "2024-06-05")))
	require.NoError(t, err)

	_, err = service.Reserve(context.Background(),
		quotationParams(product, 3, day(t, "2024-06-03"), day(t, "2024-06-07")))

	var capErr *CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 3, capErr.RequestedQuantity)
	assert.Equal(t, 2, capErr.AvailableQuantity)
	assert.Contains(t, capErr.Error(), "only 2 available")
}

func TestReserve_PartialOverlapFitsExactly(t *testing.T) {
	// qty 3 held on [06-01,06-05) with on-hand 5: a request for qty 2 on
	// [06-03,06-07) overlaps and exactly fits the remaining 2.
	service, ledger := setupService(t)
	product := uuid.New()
	ledger.SetProductOnHand(product, 5)

	_, err := service.Reserve(context.Background(),
		quotationParams(product, 3, day(t, "2024-06-01"), day(t, "2024-06-05")))
	require.NoError(t, err)

	result, err := service.CheckAvailability(context.Background(), product,
		day(t, "2024-06-03"), day(t, "2024-06-07"), nil)
	require.NoError(t, err)
	assert.True(t, result.Available)
	assert.Equal(t, 2, result.AvailableQuantity)
	assert.Equal(t, 3, result.TotalReserved)
	assert.Equal(t, 1, result.OverlapCount)

	_, err = service.Reserve(context.Background(),
		quotationParams(product, 2, day(t, "2024-06-03"), day(t, "2024-06-07")))
	assert.NoError(t, err)
}

func TestReserve_TouchingWindowsDoNotOverlap(t *testing.T) {
	// A request starting exactly when an existing hold ends sees the
	// full stock free; touching half-open windows do not overlap.
	service, ledger := setupService(t)
	product := uuid.New()
	ledger.SetProductOnHand(product, 5)

	_, err := service.Reserve(context.Background(),
		quotationParams(product, 5, day(t, "2024-07-01"), day(t, "2024-07-10")))
	require.NoError(t, err)

	result, err := service.CheckAvailability(context.Background(), product,
		day(t, "2024-07-10"), day(t, "2024-07-15"), nil)
	require.NoError(t, err)
	assert.Equal(t, 5, result.AvailableQuantity)
	assert.Equal(t, 0, result.OverlapCount)
}

func TestReserve_InvalidWindowRejectedBeforeLedger(t *testing.T) {
	service, ledger := setupService(t)
	product := uuid.New()
	ledger.SetProductOnHand(product, 5)

	_, err := service.Reserve(context.Background(),
		quotationParams(product, 1, day(t, "2024-01-10"), day(t, "2024-01-05")))

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	rows, _, err := ledger.GetFilteredReservations(10, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, rows, "no ledger row on rejected input")
}

func TestReserve_ZeroQuantityRejected(t *testing.T) {
	service, ledger := setupService(t)
	product := uuid.New()
	ledger.SetProductOnHand(product, 5)

	_, err := service.Reserve(context.Background(),
		quotationParams(product, 0, day(t, "2024-06-01"), day(t, "2024-06-05")))

	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
}

func TestReserve_UnknownProduct(t *testing.T) {
	service, _ := setupService(t)

	_, err := service.Reserve(context.Background(),
		quotationParams(uuid.New(), 1, day(t, "2024-06-01"), day(t, "2024-06-05")))

	var nfErr *NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "product", nfErr.Resource)
}

func TestRelease_TerminalStateIsImmutable(t *testing.T) {
	service, ledger := setupService(t)
	product := uuid.New()
	ledger.SetProductOnHand(product, 5)

	reservation, err := service.Reserve(context.Background(),
		quotationParams(product, 5, day(t, "2024-06-01"), day(t, "2024-06-05")))
	require.NoError(t, err)

	released, err := service.Release(context.Background(), reservation.ID, "test@rental.local")
	require.NoError(t, err)
	assert.Equal(t, models.CancelledReservationStatus, released.Status)

	// Repeat transition fails.
	_, err = service.Release(context.Background(), reservation.ID, "test@rental.local")
	var transErr *InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, models.CancelledReservationStatus, transErr.Status)

	// And the cancelled hold no longer counts against stock.
	result, err := service.CheckAvailability(context.Background(), product,
		day(t, "2024-06-01"), day(t, "2024-06-05"), nil)
	require.NoError(t, err)
	assert.Equal(t, 5, result.AvailableQuantity)
	assert.Equal(t, 0, result.TotalReserved)
}

func TestRelease_UnknownReservation(t *testing.T) {
	service, _ := setupService(t)

	_, err := service.Release(context.Background(), uuid.New(), "test@rental.local")

	var nfErr *NotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "reservation", nfErr.Resource)
}

func TestCheckAvailability_ExclusionParameter(t *testing.T) {
	// Excluding an existing hold lets an update flow re-check
	// availability as if that hold were already removed.
	service, ledger := setupService(t)
	product := uuid.New()
	ledger.SetProductOnHand(product, 5)

	reservation, err := service.Reserve(context.Background(),
		quotationParams(product, 5, day(t, "2024-06-01"), day(t, "2024-06-05")))
	require.NoError(t, err)

	withHold, err := service.CheckAvailability(context.Background(), product,
		day(t, "2024-06-01"), day(t, "2024-06-05"), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, withHold.AvailableQuantity)

	excluded, err := service.CheckAvailability(context.Background(), product,
		day(t, "2024-06-01"), day(t, "2024-06-05"), &reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, excluded.AvailableQuantity)
	assert.Equal(t, 0, excluded.OverlapCount)
}

func TestCompleteBySource_RetiresAllHoldsForOrder(t *testing.T) {
	service, ledger := setupService(t)
	productA := uuid.New()
	productB := uuid.New()
	ledger.SetProductOnHand(productA, 5)
	ledger.SetProductOnHand(productB, 5)

	orderID := uuid.New()
	for _, product := range []uuid.UUID{productA, productB} {
		params := quotationParams(product, 2, day(t, "2024-06-01"), day(t, "2024-06-05"))
		params.SourceType = models.RentalOrderSource
		params.SourceID = orderID
		_, err := service.Reserve(context.Background(), params)
		require.NoError(t, err)
	}

	count, err := service.CompleteBySource(context.Background(), models.RentalOrderSource, orderID, "test@rental.local")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// Second call finds nothing active.
	count, err = service.CompleteBySource(context.Background(), models.RentalOrderSource, orderID, "test@rental.local")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestExpireStale_IsIdempotent(t *testing.T) {
	service, ledger := setupService(t)
	product := uuid.New()
	ledger.SetProductOnHand(product, 5)

	stale := time.Now().Add(-time.Hour)
	params := quotationParams(product, 2, day(t, "2024-06-01"), day(t, "2024-06-05"))
	params.ExpiresAt = &stale
	_, err := service.Reserve(context.Background(), params)
	require.NoError(t, err)

	fresh := quotationParams(product, 1, day(t, "2024-06-01"), day(t, "2024-06-05"))
	_, err = service.Reserve(context.Background(), fresh)
	require.NoError(t, err)

	expired, err := service.ExpireStale(context.Background())
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, models.ExpiredReservationStatus, expired[0].Status)

	expired, err = service.ExpireStale(context.Background())
	require.NoError(t, err)
	assert.Empty(t, expired, "second sweep affects nothing")

	// Expired hold freed its quantity; the fresh one still counts.
	result, err := service.CheckAvailability(context.Background(), product,
		day(t, "2024-06-01"), day(t, "2024-06-05"), nil)
	require.NoError(t, err)
	assert.Equal(t, 4, result.AvailableQuantity)
}

func TestReserve_NoOversellUnderConcurrency(t *testing.T) {
	// Many concurrent attempts against on-hand 10 must never jointly
	// hold more than 10 units for overlapping windows.
	service, ledger := setupService(t)
	product := uuid.New()
	ledger.SetProductOnHand(product, 10)

	start := day(t, "2024-06-01")
	end := day(t, "2024-06-08")

	const attempts = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Reserve(context.Background(),
				quotationParams(product, 3, start, end))
			if err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
				return
			}
			var capErr *CapacityError
			assert.ErrorAs(t, err, &capErr)
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, granted, "10 on hand admits exactly three holds of 3")

	result, err := service.CheckAvailability(context.Background(), product, start, end, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, result.TotalReserved, 10, "never oversell")
	assert.Equal(t, 9, result.TotalReserved)
}
