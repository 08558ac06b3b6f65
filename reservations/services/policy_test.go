package services

import (
	"testing"
	"time"

	"rental-marketplace-backend/db/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityFor(t *testing.T) {
	tests := []struct {
		name       string
		sourceType models.ReservationSourceType
		want       int
	}{
		{"quotation holds rank low", models.QuotationSource, 1},
		{"order holds rank high", models.RentalOrderSource, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PriorityFor(tt.sourceType))
		})
	}
}

func TestDefaultExpiry(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	quotation := DefaultExpiry(models.QuotationSource, now)
	require.NotNil(t, quotation)
	assert.Equal(t, now.Add(DefaultQuotationTTL), *quotation)

	assert.Nil(t, DefaultExpiry(models.RentalOrderSource, now),
		"order-backed holds never expire automatically")
}
