package services

import (
	"testing"
	"time"

	"rental-marketplace-backend/db/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

func TestRentalUnits(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		unit  models.RentalPeriodUnit
		want  int64
	}{
		{"single day", day(1), day(2), models.DailyRentalPeriod, 1},
		{"three days", day(1), day(4), models.DailyRentalPeriod, 3},
		{"exact week billed weekly", day(1), day(8), models.WeeklyRentalPeriod, 1},
		{"ten days round up to two weeks", day(1), day(11), models.WeeklyRentalPeriod, 2},
		{"partial day rounds up", day(1), day(2).Add(6 * time.Hour), models.DailyRentalPeriod, 2},
		{"zero-length window bills a minimum day", day(1), day(1), models.DailyRentalPeriod, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RentalUnits(tt.start, tt.end, tt.unit))
		})
	}
}

func TestPriceLine(t *testing.T) {
	product := &models.Product{
		DailyRate:  decimal.NewFromFloat(45.00),
		PeriodUnit: models.DailyRentalPeriod,
	}

	unitRate, lineTotal := PriceLine(product, 2, day(1), day(4))

	assert.True(t, unitRate.Equal(decimal.NewFromFloat(45.00)))
	// 2 units * 3 days * 45.00
	assert.True(t, lineTotal.Equal(decimal.NewFromFloat(270.00)), "got %s", lineTotal)
}

func TestPriceLineWeekly(t *testing.T) {
	product := &models.Product{
		DailyRate:  decimal.NewFromFloat(180.00),
		PeriodUnit: models.WeeklyRentalPeriod,
	}

	_, lineTotal := PriceLine(product, 1, day(1), day(11))

	// 10 days rounds up to 2 weeks
	assert.True(t, lineTotal.Equal(decimal.NewFromFloat(360.00)), "got %s", lineTotal)
}

func TestComputeTotals(t *testing.T) {
	lineTotals := []decimal.Decimal{
		decimal.NewFromFloat(270.00),
		decimal.NewFromFloat(360.00),
	}

	sub, vat, total := ComputeTotals(lineTotals, decimal.NewFromFloat(0.15))

	assert.True(t, sub.Equal(decimal.NewFromFloat(630.00)), "got %s", sub)
	assert.True(t, vat.Equal(decimal.NewFromFloat(94.50)), "got %s", vat)
	assert.True(t, total.Equal(decimal.NewFromFloat(724.50)), "got %s", total)
}

func TestComputeTotalsRoundsVAT(t *testing.T) {
	lineTotals := []decimal.Decimal{decimal.NewFromFloat(33.33)}

	_, vat, _ := ComputeTotals(lineTotals, decimal.NewFromFloat(0.15))

	// 4.9995 rounds to 5.00
	assert.True(t, vat.Equal(decimal.NewFromFloat(5.00)), "got %s", vat)
}

func TestValidateQuotationLines(t *testing.T) {
	valid := QuotationLineInput{
		ProductID: "7b0d7c1e-0000-4000-8000-000000000001",
		Quantity:  1,
		StartDate: day(1),
		EndDate:   day(4),
	}

	assert.Empty(t, ValidateQuotationLines([]QuotationLineInput{valid}))

	assert.Equal(t, "At least one line item is required", ValidateQuotationLines(nil))

	missingProduct := valid
	missingProduct.ProductID = ""
	assert.Contains(t, ValidateQuotationLines([]QuotationLineInput{missingProduct}), "product_id is required")

	zeroQuantity := valid
	zeroQuantity.Quantity = 0
	assert.Contains(t, ValidateQuotationLines([]QuotationLineInput{zeroQuantity}), "quantity must be at least 1")

	invertedDates := valid
	invertedDates.StartDate = day(4)
	invertedDates.EndDate = day(1)
	assert.Contains(t, ValidateQuotationLines([]QuotationLineInput{valid, invertedDates}), "Line 2: end_date must be after start_date")
}
