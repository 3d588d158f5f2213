package service

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/dsa-enrollment-api/internal/models"
)

// DefaultTaxRateBasis is 18% GST expressed in basis points.
const DefaultTaxRateBasis int64 = 1800

// OrderSummaryCalculator derives fee, discount, tax and total for a course.
type OrderSummaryCalculator struct {
	taxRateBasis int64
	taxRate      decimal.Decimal
}

// NewOrderSummaryCalculator builds a calculator. Negative rates fall back to the default.
func NewOrderSummaryCalculator(taxRateBasis int64) *OrderSummaryCalculator {
	if taxRateBasis < 0 {
		taxRateBasis = DefaultTaxRateBasis
	}
	return &OrderSummaryCalculator{
		taxRateBasis: taxRateBasis,
		taxRate:      decimal.New(taxRateBasis, -4),
	}
}

// Summarize prices a course. The discount is informational; the total is always based on Fee.
func (c *OrderSummaryCalculator) Summarize(course models.CourseOffering) models.OrderSummary {
	// Round rounds halves away from zero, which is half-up for fees.
	tax := decimal.NewFromInt(course.Fee).Mul(c.taxRate).Round(0).IntPart()
	summary := models.OrderSummary{
		CourseID:     course.ID,
		CourseTitle:  course.Title,
		Fee:          course.Fee,
		OriginalFee:  course.OriginalFee,
		TaxRateBasis: c.taxRateBasis,
		Tax:          tax,
		Total:        course.Fee + tax,
	}
	if course.OriginalFee != nil {
		discount := *course.OriginalFee - course.Fee
		summary.Discount = &discount
	}
	return summary
}
