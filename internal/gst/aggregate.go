package gst

import "github.com/shopspring/decimal"

// Totals is the document-level roll-up of every line on an invoice.
// Invariant: Final = RoundWhole(Net) and RoundOff = Final - Net.
type Totals struct {
	Gross    decimal.Decimal
	Discount decimal.Decimal
	Taxable  decimal.Decimal
	Tax      decimal.Decimal
	CGST     decimal.Decimal
	SGST     decimal.Decimal
	IGST     decimal.Decimal
	Net      decimal.Decimal
	RoundOff decimal.Decimal
	Final    decimal.Decimal
}

// Aggregate sums each field of the given line results independently and
// applies the whole-rupee round-off. It keeps no state between calls, so a
// recomputation over the same lines is always identical, in any order.
func Aggregate(lines []LineResult) Totals {
	var t Totals
	for _, l := range lines {
		t.Gross = t.Gross.Add(l.Subtotal)
		t.Discount = t.Discount.Add(l.DiscountAmount)
		t.Taxable = t.Taxable.Add(l.TaxableAmount)
		t.Tax = t.Tax.Add(l.TaxAmount)
		t.CGST = t.CGST.Add(l.CGST)
		t.SGST = t.SGST.Add(l.SGST)
		t.IGST = t.IGST.Add(l.IGST)
	}
	t.Net = Round(t.Taxable.Add(t.Tax))
	t.Final = RoundWhole(t.Net)
	t.RoundOff = t.Final.Sub(t.Net)
	return t
}
