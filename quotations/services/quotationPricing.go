package services

import (
	"fmt"
	"time"

	"rental-marketplace-backend/db/models"

	"github.com/shopspring/decimal"
)

// RentalUnits counts the billable periods in [start, end). Partial
// periods round up so a 10-day rental on a weekly product bills 2 weeks.
func RentalUnits(start, end time.Time, unit models.RentalPeriodUnit) int64 {
	hours := end.Sub(start).Hours()
	days := int64(hours / 24)
	if float64(days*24) < hours {
		days++
	}
	if days < 1 {
		days = 1
	}

	if unit == models.WeeklyRentalPeriod {
		weeks := days / 7
		if weeks*7 < days {
			weeks++
		}
		return weeks
	}
	return days
}

// PriceLine computes the unit rate and line total for one quotation or
// order line from the product's current rate card.
func PriceLine(product *models.Product, quantity int, start, end time.Time) (decimal.Decimal, decimal.Decimal) {
	unitRate := product.DailyRate
	units := RentalUnits(start, end, product.PeriodUnit)
	lineTotal := unitRate.
		Mul(decimal.NewFromInt(int64(quantity))).
		Mul(decimal.NewFromInt(units))
	return unitRate, lineTotal
}

// ComputeTotals sums line totals and applies the VAT rate.
func ComputeTotals(lineTotals []decimal.Decimal, vatRate decimal.Decimal) (subTotal, vatAmount, total decimal.Decimal) {
	subTotal = decimal.Zero
	for _, lt := range lineTotals {
		subTotal = subTotal.Add(lt)
	}
	vatAmount = subTotal.Mul(vatRate).Round(2)
	total = subTotal.Add(vatAmount)
	return subTotal, vatAmount, total
}

// quotationLineInput is the subset of a request line the validator needs.
type QuotationLineInput struct {
	ProductID string
	Quantity  int
	StartDate time.Time
	EndDate   time.Time
}

// ValidateQuotationLines rejects malformed lines before any hold is placed.
func ValidateQuotationLines(lines []QuotationLineInput) string {
	if len(lines) == 0 {
		return "At least one line item is required"
	}
	for i, line := range lines {
		if line.ProductID == "" {
			return fmt.Sprintf("Line %d: product_id is required", i+1)
		}
		if line.Quantity < 1 {
			return fmt.Sprintf("Line %d: quantity must be at least 1", i+1)
		}
		if !line.EndDate.After(line.StartDate) {
			return fmt.Sprintf("Line %d: end_date must be after start_date", i+1)
		}
	}
	return ""
}
