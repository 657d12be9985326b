package gst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func line(taxable, tax string, j Jurisdiction) LineResult {
	res := LineResult{
		Subtotal:      d(taxable),
		TaxableAmount: d(taxable),
		TaxAmount:     d(tax),
		Total:         d(taxable).Add(d(tax)),
	}
	res.CGST, res.SGST, res.IGST = splitTax(d(tax), j)
	return res
}

func TestAggregate_ExactWholeNet(t *testing.T) {
	// Line totals 500.00 + 299.99 + 100.01 land on a whole 900: no round-off.
	lines := []LineResult{
		line("500.00", "0", IntraState),
		line("299.99", "0", IntraState),
		line("100.01", "0", IntraState),
	}

	totals := Aggregate(lines)
	assert.Equal(t, "900.00", totals.Net.StringFixed(2))
	assert.Equal(t, "900", totals.Final.String())
	assert.Equal(t, "0.00", totals.RoundOff.StringFixed(2))
}

func TestAggregate_RoundOff(t *testing.T) {
	tests := []struct {
		name     string
		taxable  string
		tax      string
		net      string
		final    string
		roundOff string
	}{
		{"rounds up", "100.00", "23.60", "123.60", "124", "0.40"},
		{"rounds down", "100.00", "23.45", "123.45", "123", "-0.45"},
		{"half goes up", "100.00", "23.50", "123.50", "124", "0.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := Aggregate([]LineResult{line(tt.taxable, tt.tax, IntraState)})
			assert.Equal(t, tt.net, totals.Net.StringFixed(2))
			assert.Equal(t, tt.final, totals.Final.String())
			assert.Equal(t, tt.roundOff, totals.RoundOff.StringFixed(2))
			assert.True(t, totals.Final.Equal(totals.Net.Add(totals.RoundOff)))
		})
	}
}

func TestAggregate_PermutationInvariant(t *testing.T) {
	a := ComputeLine(LineInput{Quantity: 3, UnitPrice: d("33.33"), TaxPercent: d("12")}, IntraState)
	b := ComputeLine(LineInput{Quantity: 1, UnitPrice: d("250"), DiscountPercent: d("5"), TaxPercent: d("18")}, IntraState)
	c := ComputeLine(LineInput{Quantity: 7, UnitPrice: d("9.99"), TaxPercent: d("5")}, IntraState)

	orders := [][]LineResult{
		{a, b, c},
		{c, b, a},
		{b, a, c},
	}

	first := Aggregate(orders[0])
	for _, perm := range orders[1:] {
		got := Aggregate(perm)
		assert.True(t, got.Net.Equal(first.Net))
		assert.True(t, got.Tax.Equal(first.Tax))
		assert.True(t, got.Final.Equal(first.Final))
		assert.True(t, got.RoundOff.Equal(first.RoundOff))
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	lines := []LineResult{
		ComputeLine(LineInput{Quantity: 2, UnitPrice: d("123.45"), TaxPercent: d("28")}, InterState),
		ComputeLine(LineInput{Quantity: 5, UnitPrice: d("10"), DiscountPercent: d("50"), TaxPercent: d("0")}, InterState),
	}

	first := Aggregate(lines)
	second := Aggregate(lines)
	assert.Equal(t, first, second)
}

func TestAggregate_Empty(t *testing.T) {
	totals := Aggregate(nil)
	assert.True(t, totals.Gross.IsZero())
	assert.True(t, totals.Net.IsZero())
	assert.True(t, totals.Final.IsZero())
	assert.True(t, totals.RoundOff.IsZero())
}

func TestAggregate_SplitSubtotals(t *testing.T) {
	lines := []LineResult{
		ComputeLine(LineInput{Quantity: 1, UnitPrice: d("1000"), TaxPercent: d("12")}, IntraState),
		ComputeLine(LineInput{Quantity: 1, UnitPrice: d("500"), TaxPercent: d("12")}, IntraState),
	}

	totals := Aggregate(lines)
	assert.Equal(t, "90.00", totals.CGST.StringFixed(2))
	assert.Equal(t, "90.00", totals.SGST.StringFixed(2))
	assert.Equal(t, "0.00", totals.IGST.StringFixed(2))
	assert.Equal(t, "180.00", totals.Tax.StringFixed(2))
}
