package repositories

import (
	"context"
	"testing"
	"time"

	"rental-marketplace-backend/db/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDay(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func activeReservation(productID uuid.UUID, quantity int, start, end time.Time) *models.Reservation {
	return &models.Reservation{
		ProductID:  productID,
		Quantity:   quantity,
		StartDate:  start,
		EndDate:    end,
		SourceType: models.QuotationSource,
		SourceID:   uuid.New(),
		CustomerID: uuid.New(),
		VendorID:   uuid.New(),
		Status:     models.ActiveReservationStatus,
		Priority:   1,
		CreatedBy:  "test@rental.local",
	}
}

func TestFindOverlapping_HalfOpenSemantics(t *testing.T) {
	repo := NewMemoryReservationRepository()
	ctx := context.Background()
	product := uuid.New()
	repo.SetProductOnHand(product, 10)

	// A = [day1, day5), B = [day5, day10)
	a := activeReservation(product, 1, mustDay(t, "2024-03-01"), mustDay(t, "2024-03-05"))
	b := activeReservation(product, 1, mustDay(t, "2024-03-05"), mustDay(t, "2024-03-10"))
	require.NoError(t, repo.Insert(ctx, a))
	require.NoError(t, repo.Insert(ctx, b))

	// [day4, day6) touches A's tail only; B starts exactly at day5 and
	// half-open windows touching at an endpoint do not overlap... except
	// the request reaches into [day5, day6) which is inside B. Check the
	// narrower [day4, day5) first.
	overlapping, err := repo.FindOverlapping(ctx, product, mustDay(t, "2024-03-04"), mustDay(t, "2024-03-05"), nil)
	require.NoError(t, err)
	require.Len(t, overlapping, 1)
	assert.Equal(t, a.ID, overlapping[0].ID)

	// [day4, day6) intersects both.
	overlapping, err = repo.FindOverlapping(ctx, product, mustDay(t, "2024-03-04"), mustDay(t, "2024-03-06"), nil)
	require.NoError(t, err)
	assert.Len(t, overlapping, 2)

	// [day10, day12) touches B's end only: no overlap.
	overlapping, err = repo.FindOverlapping(ctx, product, mustDay(t, "2024-03-10"), mustDay(t, "2024-03-12"), nil)
	require.NoError(t, err)
	assert.Empty(t, overlapping)
}

func TestFindOverlapping_EnclosingWindow(t *testing.T) {
	repo := NewMemoryReservationRepository()
	ctx := context.Background()
	product := uuid.New()
	repo.SetProductOnHand(product, 10)

	enclosing := activeReservation(product, 2, mustDay(t, "2024-03-01"), mustDay(t, "2024-03-31"))
	require.NoError(t, repo.Insert(ctx, enclosing))

	overlapping, err := repo.FindOverlapping(ctx, product, mustDay(t, "2024-03-10"), mustDay(t, "2024-03-12"), nil)
	require.NoError(t, err)
	require.Len(t, overlapping, 1)
	assert.Equal(t, enclosing.ID, overlapping[0].ID)
}

func TestFindOverlapping_IgnoresInactiveAndOtherProducts(t *testing.T) {
	repo := NewMemoryReservationRepository()
	ctx := context.Background()
	product := uuid.New()
	other := uuid.New()
	repo.SetProductOnHand(product, 10)
	repo.SetProductOnHand(other, 10)

	cancelled := activeReservation(product, 1, mustDay(t, "2024-03-01"), mustDay(t, "2024-03-10"))
	require.NoError(t, repo.Insert(ctx, cancelled))
	_, err := repo.SetStatus(ctx, cancelled.ID, models.CancelledReservationStatus, "test@rental.local")
	require.NoError(t, err)

	elsewhere := activeReservation(other, 1, mustDay(t, "2024-03-01"), mustDay(t, "2024-03-10"))
	require.NoError(t, repo.Insert(ctx, elsewhere))

	overlapping, err := repo.FindOverlapping(ctx, product, mustDay(t, "2024-03-01"), mustDay(t, "2024-03-10"), nil)
	require.NoError(t, err)
	assert.Empty(t, overlapping)
}

func TestInsert_RejectsInvertedWindow(t *testing.T) {
	repo := NewMemoryReservationRepository()
	product := uuid.New()
	repo.SetProductOnHand(product, 10)

	bad := activeReservation(product, 1, mustDay(t, "2024-03-10"), mustDay(t, "2024-03-05"))
	err := repo.Insert(context.Background(), bad)
	assert.ErrorIs(t, err, ErrEndBeforeStart)

	empty := activeReservation(product, 1, mustDay(t, "2024-03-05"), mustDay(t, "2024-03-05"))
	err = repo.Insert(context.Background(), empty)
	assert.ErrorIs(t, err, ErrEndBeforeStart)
}

func TestSetStatus_OneDirectional(t *testing.T) {
	repo := NewMemoryReservationRepository()
	ctx := context.Background()
	product := uuid.New()
	repo.SetProductOnHand(product, 10)

	reservation := activeReservation(product, 1, mustDay(t, "2024-03-01"), mustDay(t, "2024-03-05"))
	require.NoError(t, repo.Insert(ctx, reservation))

	completed, err := repo.SetStatus(ctx, reservation.ID, models.CompletedReservationStatus, "test@rental.local")
	require.NoError(t, err)
	assert.Equal(t, models.CompletedReservationStatus, completed.Status)

	// No way back to active, and no terminal-to-terminal hops.
	_, err = repo.SetStatus(ctx, reservation.ID, models.ActiveReservationStatus, "test@rental.local")
	assert.ErrorIs(t, err, ErrNotActive)
	_, err = repo.SetStatus(ctx, reservation.ID, models.CancelledReservationStatus, "test@rental.local")
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestSetStatus_MissingReservation(t *testing.T) {
	repo := NewMemoryReservationRepository()
	_, err := repo.SetStatus(context.Background(), uuid.New(), models.CancelledReservationStatus, "test@rental.local")
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestWithProductLock_UnknownProduct(t *testing.T) {
	repo := NewMemoryReservationRepository()
	err := repo.WithProductLock(context.Background(), uuid.New(), func(ctx context.Context) error {
		t.Fatal("callback must not run for unknown product")
		return nil
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestExpireStale_OnlyQuotationHoldsWithPastExpiry(t *testing.T) {
	repo := NewMemoryReservationRepository()
	ctx := context.Background()
	product := uuid.New()
	repo.SetProductOnHand(product, 10)

	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)

	staleQuote := activeReservation(product, 1, mustDay(t, "2024-03-01"), mustDay(t, "2024-03-05"))
	staleQuote.ExpiresAt = &past
	require.NoError(t, repo.Insert(ctx, staleQuote))

	freshQuote := activeReservation(product, 1, mustDay(t, "2024-03-01"), mustDay(t, "2024-03-05"))
	freshQuote.ExpiresAt = &future
	require.NoError(t, repo.Insert(ctx, freshQuote))

	orderHold := activeReservation(product, 1, mustDay(t, "2024-03-01"), mustDay(t, "2024-03-05"))
	orderHold.SourceType = models.RentalOrderSource
	require.NoError(t, repo.Insert(ctx, orderHold))

	expired, err := repo.ExpireStale(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, staleQuote.ID, expired[0].ID)

	kept, err := repo.GetReservationByID(ctx, orderHold.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ActiveReservationStatus, kept.Status)
}

func TestExpireStale_ReportsOnlyHoldsItTransitioned(t *testing.T) {
	repo := NewMemoryReservationRepository()
	ctx := context.Background()
	product := uuid.New()
	repo.SetProductOnHand(product, 10)

	past := time.Now().Add(-time.Minute)

	retired := activeReservation(product, 1, mustDay(t, "2024-03-01"), mustDay(t, "2024-03-05"))
	retired.ExpiresAt = &past
	require.NoError(t, repo.Insert(ctx, retired))

	stale := activeReservation(product, 1, mustDay(t, "2024-03-01"), mustDay(t, "2024-03-05"))
	stale.ExpiresAt = &past
	require.NoError(t, repo.Insert(ctx, stale))

	// The first hold leaves the active state before the sweep runs; the
	// sweep must not report it as expired, or downstream notifications
	// would announce an expiry that never happened.
	_, err := repo.SetStatus(ctx, retired.ID, models.CancelledReservationStatus, "test@rental.local")
	require.NoError(t, err)

	expired, err := repo.ExpireStale(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, stale.ID, expired[0].ID)

	cancelled, err := repo.GetReservationByID(ctx, retired.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CancelledReservationStatus, cancelled.Status)
}

func TestSetStatusBySource_CountsOnlyActive(t *testing.T) {
	repo := NewMemoryReservationRepository()
	ctx := context.Background()
	product := uuid.New()
	repo.SetProductOnHand(product, 10)

	source := uuid.New()
	first := activeReservation(product, 1, mustDay(t, "2024-03-01"), mustDay(t, "2024-03-05"))
	first.SourceType = models.RentalOrderSource
	first.SourceID = source
	second := activeReservation(product, 2, mustDay(t, "2024-04-01"), mustDay(t, "2024-04-05"))
	second.SourceType = models.RentalOrderSource
	second.SourceID = source
	require.NoError(t, repo.Insert(ctx, first))
	require.NoError(t, repo.Insert(ctx, second))

	_, err := repo.SetStatus(ctx, first.ID, models.CancelledReservationStatus, "test@rental.local")
	require.NoError(t, err)

	count, err := repo.SetStatusBySource(ctx, models.RentalOrderSource, source, models.CompletedReservationStatus, "test@rental.local")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
