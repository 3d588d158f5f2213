package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dsa-enrollment-api/internal/models"
)

func TestOrderSummaryCalculator(t *testing.T) {
	original := int64(45000)
	calc := NewOrderSummaryCalculator(DefaultTaxRateBasis)

	summary := calc.Summarize(models.CourseOffering{ID: "iso", Title: "Industrial Safety Officer", Fee: 35000, OriginalFee: &original})
	assert.Equal(t, int64(35000), summary.Fee)
	assert.Equal(t, int64(6300), summary.Tax)
	assert.Equal(t, int64(41300), summary.Total)
	require.NotNil(t, summary.Discount)
	assert.Equal(t, int64(10000), *summary.Discount)
	assert.Equal(t, int64(1800), summary.TaxRateBasis)
}

func TestOrderSummaryWithoutOriginalFee(t *testing.T) {
	summary := NewOrderSummaryCalculator(DefaultTaxRateBasis).Summarize(models.CourseOffering{ID: "wsm", Fee: 30000})
	assert.Nil(t, summary.Discount)
	assert.Equal(t, int64(5400), summary.Tax)
	assert.Equal(t, int64(35400), summary.Total)
}

func TestOrderSummaryRoundsHalfUp(t *testing.T) {
	calc := NewOrderSummaryCalculator(DefaultTaxRateBasis)
	// 25 * 0.18 = 4.5
	assert.Equal(t, int64(5), calc.Summarize(models.CourseOffering{Fee: 25}).Tax)
	// 2 * 0.18 = 0.36
	assert.Equal(t, int64(0), calc.Summarize(models.CourseOffering{Fee: 2}).Tax)
	assert.Equal(t, int64(30), calc.Summarize(models.CourseOffering{Fee: 25}).Total)
}

func TestOrderSummaryFractionalRate(t *testing.T) {
	// 12.5% of 333 = 41.625
	summary := NewOrderSummaryCalculator(1250).Summarize(models.CourseOffering{Fee: 333})
	assert.Equal(t, int64(42), summary.Tax)
	assert.Equal(t, int64(375), summary.Total)
}

func TestOrderSummaryNegativeRateFallsBack(t *testing.T) {
	calc := NewOrderSummaryCalculator(-1)
	assert.Equal(t, DefaultTaxRateBasis, calc.Summarize(models.CourseOffering{Fee: 100}).TaxRateBasis)
	assert.Equal(t, int64(100), NewOrderSummaryCalculator(0).Summarize(models.CourseOffering{Fee: 100}).Total)
}
