package gst

// Jurisdiction decides how a tax amount is decomposed: split in half as
// CGST+SGST for intra-state supplies, or charged whole as IGST across
// state lines. It never changes the rate or the taxable base.
type Jurisdiction string

const (
	IntraState Jurisdiction = "INTRA_STATE"
	InterState Jurisdiction = "INTER_STATE"
)

// Classify compares the state-code prefix (first two characters) of the
// seller's and buyer's GSTINs. A missing GSTIN on either side defaults to
// intra-state, the common case for walk-in retail customers.
func Classify(sellerGSTIN, buyerGSTIN string) Jurisdiction {
	if len(sellerGSTIN) < 2 || len(buyerGSTIN) < 2 {
		return IntraState
	}
	if sellerGSTIN[:2] == buyerGSTIN[:2] {
		return IntraState
	}
	return InterState
}
