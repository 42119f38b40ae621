package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"urbill/internal/billing"
	"urbill/internal/domain"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func items(rows ...[2]string) []domain.LineItem {
	out := make([]domain.LineItem, len(rows))
	for i, r := range rows {
		qty, _ := decimal.NewFromString(r[0])
		out[i] = domain.LineItem{
			Quantity: int(qty.IntPart()),
			Rate:     dec(r[1]),
		}
	}
	return billing.NormalizeItems(out)
}

func TestCompute_GSTOnDiscountedAmount(t *testing.T) {
	// Two items at 2500 each, 18% GST, no discount.
	totals := billing.Compute(items([2]string{"1", "2500"}, [2]string{"1", "2500"}), billing.Options{
		TaxEnabled:    true,
		TaxPercentage: dec("18"),
	})

	assert.True(t, totals.Subtotal.Equal(dec("5000")), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.TaxAmount.Equal(dec("900")), "tax %s", totals.TaxAmount)
	assert.True(t, totals.GrandTotal.Equal(dec("5900")), "grand total %s", totals.GrandTotal)
}

func TestCompute_PercentageDiscountThenTax(t *testing.T) {
	totals := billing.Compute(items([2]string{"1", "10000"}), billing.Options{
		DiscountEnabled: true,
		DiscountType:    domain.DiscountPercentage,
		DiscountValue:   dec("10"),
		TaxEnabled:      true,
		TaxPercentage:   dec("18"),
	})

	assert.True(t, totals.DiscountAmount.Equal(dec("1000")))
	assert.True(t, totals.TaxableAmount.Equal(dec("9000")))
	// Tax applies to the discounted amount, not the subtotal.
	assert.True(t, totals.TaxAmount.Equal(dec("1620")))
	assert.True(t, totals.GrandTotal.Equal(dec("10620")))
}

func TestCompute_FixedDiscount(t *testing.T) {
	totals := billing.Compute(items([2]string{"2", "1500"}), billing.Options{
		DiscountEnabled: true,
		DiscountType:    domain.DiscountFixed,
		DiscountValue:   dec("500"),
	})

	assert.True(t, totals.Subtotal.Equal(dec("3000")))
	assert.True(t, totals.DiscountAmount.Equal(dec("500")))
	assert.True(t, totals.TaxAmount.IsZero())
	assert.True(t, totals.GrandTotal.Equal(dec("2500")))
}

func TestCompute_DisabledTogglesIgnoreValues(t *testing.T) {
	totals := billing.Compute(items([2]string{"1", "1000"}), billing.Options{
		DiscountEnabled: false,
		DiscountType:    domain.DiscountPercentage,
		DiscountValue:   dec("50"),
		TaxEnabled:      false,
		TaxPercentage:   dec("18"),
	})

	assert.True(t, totals.DiscountAmount.IsZero())
	assert.True(t, totals.TaxAmount.IsZero())
	assert.True(t, totals.GrandTotal.Equal(dec("1000")))
}

func TestCompute_RoundsHalfUpToTwoPlaces(t *testing.T) {
	// 3 x 33.33 = 99.99; 18% of 99.99 = 17.9982 -> 18.00
	totals := billing.Compute(items([2]string{"3", "33.33"}), billing.Options{
		TaxEnabled:    true,
		TaxPercentage: dec("18"),
	})

	assert.True(t, totals.Subtotal.Equal(dec("99.99")))
	assert.True(t, totals.TaxAmount.Equal(dec("18.00")), "tax %s", totals.TaxAmount)
	assert.True(t, totals.GrandTotal.Equal(dec("117.99")))
}

func TestCompute_EmptyItems(t *testing.T) {
	totals := billing.Compute(nil, billing.Options{
		TaxEnabled:    true,
		TaxPercentage: dec("18"),
	})

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.GrandTotal.IsZero())
}

func TestCompute_Idempotent(t *testing.T) {
	list := items([2]string{"4", "750.50"})
	opts := billing.Options{
		DiscountEnabled: true,
		DiscountType:    domain.DiscountPercentage,
		DiscountValue:   dec("7.5"),
		TaxEnabled:      true,
		TaxPercentage:   dec("18"),
	}

	first := billing.Compute(list, opts)
	second := billing.Compute(list, opts)

	assert.True(t, first.GrandTotal.Equal(second.GrandTotal))
	assert.True(t, first.DiscountAmount.Equal(second.DiscountAmount))
}

func TestNormalizeItems_DerivesAmountAndSortOrder(t *testing.T) {
	normalized := billing.NormalizeItems([]domain.LineItem{
		{ServiceName: "SEO", Quantity: 3, Rate: dec("1200"), Amount: dec("999"), SortOrder: 7},
		{ServiceName: "Ads", Quantity: 1, Rate: dec("4999.99")},
	})

	// Client-supplied amount is discarded.
	assert.True(t, normalized[0].Amount.Equal(dec("3600")))
	assert.Equal(t, 0, normalized[0].SortOrder)
	assert.True(t, normalized[1].Amount.Equal(dec("4999.99")))
	assert.Equal(t, 1, normalized[1].SortOrder)
}

func TestBalanceDue_ClampsAtZero(t *testing.T) {
	assert.True(t, billing.BalanceDue(dec("1000"), dec("400")).Equal(dec("600")))
	assert.True(t, billing.BalanceDue(dec("1000"), dec("1000")).IsZero())
	// Overpayment never yields a negative balance.
	assert.True(t, billing.BalanceDue(dec("1000"), dec("1500")).IsZero())
}

func TestApplyTo_CopiesDerivedFields(t *testing.T) {
	totals := billing.Compute(items([2]string{"1", "2000"}), billing.Options{
		TaxEnabled:    true,
		TaxPercentage: dec("18"),
	})

	var p domain.PricingBlock
	p.DiscountType = domain.DiscountFixed
	p.DiscountValue = dec("0")
	p.GSTPercentage = dec("18")
	totals.ApplyTo(&p)

	assert.True(t, p.Subtotal.Equal(dec("2000")))
	assert.True(t, p.GSTAmount.Equal(dec("360")))
	assert.True(t, p.GrandTotal.Equal(dec("2360")))
	// Caller-owned fields are untouched.
	assert.Equal(t, domain.DiscountFixed, p.DiscountType)
}
