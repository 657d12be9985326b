package gst

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// LineInput is one invoice line as entered at the counter. FreeQuantity is
// scheme stock handed over at no charge; it never enters the tax base.
type LineInput struct {
	Quantity        int
	FreeQuantity    int
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	TaxPercent      decimal.Decimal
}

// LineResult is the fully derived money breakdown for one line. It is
// recomputed from scratch on every mutation and never patched in place.
// Exactly one of CGST+SGST or IGST is populated, per the jurisdiction.
type LineResult struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxableAmount  decimal.Decimal
	TaxAmount      decimal.Decimal
	CGST           decimal.Decimal
	SGST           decimal.Decimal
	IGST           decimal.Decimal
	Total          decimal.Decimal
}

// ComputeLine derives the tax breakdown for a single line. Intermediate math
// runs at full decimal precision; each output field is rounded once at the end.
func ComputeLine(in LineInput, j Jurisdiction) LineResult {
	subtotal := in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
	discount := subtotal.Mul(in.DiscountPercent).Div(oneHundred)
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(in.TaxPercent).Div(oneHundred)

	res := LineResult{
		Subtotal:       Round(subtotal),
		DiscountAmount: Round(discount),
		TaxableAmount:  Round(taxable),
		TaxAmount:      Round(tax),
		Total:          Round(taxable.Add(tax)),
	}
	res.CGST, res.SGST, res.IGST = splitTax(tax, j)
	return res
}

// Breakup is the standalone calculator's result, shared by the exclusive
// (tax on top) and inclusive (tax carved out) modes.
type Breakup struct {
	BaseAmount decimal.Decimal
	TaxAmount  decimal.Decimal
	CGST       decimal.Decimal
	SGST       decimal.Decimal
	IGST       decimal.Decimal
	Total      decimal.Decimal
}

// ComputeExclusive treats amount as the pre-tax base and adds tax on top.
func ComputeExclusive(amount, taxPercent decimal.Decimal, j Jurisdiction) Breakup {
	tax := amount.Mul(taxPercent).Div(oneHundred)
	b := Breakup{
		BaseAmount: Round(amount),
		TaxAmount:  Round(tax),
		Total:      Round(amount.Add(tax)),
	}
	b.CGST, b.SGST, b.IGST = splitTax(tax, j)
	return b
}

// ComputeInclusive treats amount as tax-inclusive and carves the tax out:
// base = amount / (1 + rate/100). Feeding an exclusive result's Total back
// through here recovers the original base and tax to the cent.
func ComputeInclusive(amount, taxPercent decimal.Decimal, j Jurisdiction) Breakup {
	divisor := decimal.NewFromInt(1).Add(taxPercent.Div(oneHundred))
	base := amount.Div(divisor)
	tax := amount.Sub(base)
	b := Breakup{
		BaseAmount: Round(base),
		TaxAmount:  Round(tax),
		Total:      Round(amount),
	}
	b.CGST, b.SGST, b.IGST = splitTax(tax, j)
	return b
}

func splitTax(tax decimal.Decimal, j Jurisdiction) (cgst, sgst, igst decimal.Decimal) {
	if j == InterState {
		return decimal.Zero, decimal.Zero, Round(tax)
	}
	half := Round(tax.Div(decimal.NewFromInt(2)))
	return half, half, decimal.Zero
}
