package gst

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeLine_IntraState(t *testing.T) {
	// 1000 base at 12% intra-state: tax 120 split 60/60, total 1120.
	res := ComputeLine(LineInput{
		Quantity:   10,
		UnitPrice:  d("100"),
		TaxPercent: d("12"),
	}, IntraState)

	assert.Equal(t, "1000.00", res.Subtotal.StringFixed(2))
	assert.Equal(t, "0.00", res.DiscountAmount.StringFixed(2))
	assert.Equal(t, "1000.00", res.TaxableAmount.StringFixed(2))
	assert.Equal(t, "120.00", res.TaxAmount.StringFixed(2))
	assert.Equal(t, "60.00", res.CGST.StringFixed(2))
	assert.Equal(t, "60.00", res.SGST.StringFixed(2))
	assert.Equal(t, "0.00", res.IGST.StringFixed(2))
	assert.Equal(t, "1120.00", res.Total.StringFixed(2))
}

func TestComputeLine_InterState(t *testing.T) {
	res := ComputeLine(LineInput{
		Quantity:   4,
		UnitPrice:  d("250"),
		TaxPercent: d("18"),
	}, InterState)

	assert.Equal(t, "180.00", res.TaxAmount.StringFixed(2))
	assert.Equal(t, "180.00", res.IGST.StringFixed(2))
	assert.Equal(t, "0.00", res.CGST.StringFixed(2))
	assert.Equal(t, "0.00", res.SGST.StringFixed(2))
	assert.Equal(t, "1180.00", res.Total.StringFixed(2))
}

func TestComputeLine_Discount(t *testing.T) {
	// 20 x 55.50 = 1110, 10% discount -> 999 taxable, 5% tax -> 49.95.
	res := ComputeLine(LineInput{
		Quantity:        20,
		UnitPrice:       d("55.50"),
		DiscountPercent: d("10"),
		TaxPercent:      d("5"),
	}, IntraState)

	assert.Equal(t, "1110.00", res.Subtotal.StringFixed(2))
	assert.Equal(t, "111.00", res.DiscountAmount.StringFixed(2))
	assert.Equal(t, "999.00", res.TaxableAmount.StringFixed(2))
	assert.Equal(t, "49.95", res.TaxAmount.StringFixed(2))
	assert.Equal(t, "1048.95", res.Total.StringFixed(2))
}

func TestComputeLine_ZeroRate(t *testing.T) {
	res := ComputeLine(LineInput{
		Quantity:   3,
		UnitPrice:  d("99.99"),
		TaxPercent: decimal.Zero,
	}, InterState)

	assert.True(t, res.TaxAmount.IsZero())
	assert.True(t, res.CGST.IsZero())
	assert.True(t, res.SGST.IsZero())
	assert.True(t, res.IGST.IsZero())
	assert.Equal(t, res.TaxableAmount.StringFixed(2), res.Total.StringFixed(2))
}

func TestComputeLine_FreeQuantityIgnored(t *testing.T) {
	with := ComputeLine(LineInput{Quantity: 5, FreeQuantity: 3, UnitPrice: d("40"), TaxPercent: d("12")}, IntraState)
	without := ComputeLine(LineInput{Quantity: 5, UnitPrice: d("40"), TaxPercent: d("12")}, IntraState)
	assert.Equal(t, without, with)
}

func TestComputeInclusive_Scenario(t *testing.T) {
	// 1120 inclusive of 12% inter-state: base 1000, IGST 120.
	b := ComputeInclusive(d("1120"), d("12"), InterState)

	assert.Equal(t, "1000.00", b.BaseAmount.StringFixed(2))
	assert.Equal(t, "120.00", b.TaxAmount.StringFixed(2))
	assert.Equal(t, "120.00", b.IGST.StringFixed(2))
	assert.Equal(t, "0.00", b.CGST.StringFixed(2))
	assert.Equal(t, "0.00", b.SGST.StringFixed(2))
}

func TestExclusiveInclusive_RoundTrip(t *testing.T) {
	// inclusive(exclusive(base).Total) must recover base and tax within a cent.
	tolerance := d("0.01")
	bases := []string{"1000", "299.99", "0.01", "17.77", "123456.78", "9.95"}
	rates := []string{"0", "5", "12", "18", "28"}

	for _, base := range bases {
		for _, rate := range rates {
			fwd := ComputeExclusive(d(base), d(rate), IntraState)
			back := ComputeInclusive(fwd.Total, d(rate), IntraState)

			baseDiff := back.BaseAmount.Sub(d(base)).Abs()
			taxDiff := back.TaxAmount.Sub(fwd.TaxAmount).Abs()
			require.True(t, baseDiff.LessThanOrEqual(tolerance),
				"base %s rate %s: recovered %s", base, rate, back.BaseAmount)
			require.True(t, taxDiff.LessThanOrEqual(tolerance),
				"base %s rate %s: tax %s vs %s", base, rate, back.TaxAmount, fwd.TaxAmount)
		}
	}
}

func TestSplit_HalvesMatch(t *testing.T) {
	// Intra-state always yields equal halves and zero IGST, whatever the amount.
	for _, amt := range []string{"100", "33.33", "0.01", "999999.99"} {
		b := ComputeExclusive(d(amt), d("18"), IntraState)
		assert.True(t, b.CGST.Equal(b.SGST), "amount %s", amt)
		assert.True(t, b.IGST.IsZero(), "amount %s", amt)
	}
}
