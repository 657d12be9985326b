package service

import (
	"strings"

	"pharmadesk/internal/gst"

	"github.com/shopspring/decimal"
)

// --- DTOs ---

// CalcMode selects which side of the tax the given amount sits on.
const (
	CalcModeExclusive = "EXCLUSIVE" // amount is the taxable base
	CalcModeInclusive = "INCLUSIVE" // amount already contains the tax
)

type GSTCalcRequest struct {
	Amount     string `json:"amount" binding:"required"`
	TaxPercent string `json:"tax_percent" binding:"required"`
	Mode       string `json:"mode" binding:"omitempty,oneof=EXCLUSIVE INCLUSIVE"`
	BuyerGSTIN string `json:"buyer_gstin"`
}

type GSTCalcResponse struct {
	Mode         string `json:"mode"`
	Jurisdiction string `json:"jurisdiction"`
	BaseAmount   string `json:"base_amount"`
	TaxAmount    string `json:"tax_amount"`
	CGST         string `json:"cgst"`
	SGST         string `json:"sgst"`
	IGST         string `json:"igst"`
	Total        string `json:"total"`
}

// --- Interface ---

// GSTCalcService is the counter-side what-if calculator. It shares the tax
// engine with the invoice pipeline so the two can never disagree on a figure.
type GSTCalcService interface {
	// Calculate returns nil (not an error) when the inputs don't parse to
	// numbers or the rate isn't a configured slab: the caller renders that
	// as "not computable" rather than a failure.
	Calculate(req GSTCalcRequest) *GSTCalcResponse
}

type gstCalcService struct {
	cfg InvoiceConfig
}

func NewGSTCalcService(cfg InvoiceConfig) GSTCalcService {
	return &gstCalcService{cfg: cfg}
}

// --- Implementation ---

func (s *gstCalcService) Calculate(req GSTCalcRequest) *GSTCalcResponse {
	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil {
		return nil
	}
	rate, err := decimal.NewFromString(strings.TrimSpace(req.TaxPercent))
	if err != nil {
		return nil
	}
	if amount.IsNegative() || !s.cfg.Tax.ValidRate(rate) {
		return nil
	}

	mode := req.Mode
	if mode == "" {
		mode = CalcModeExclusive
	}

	jurisdiction := gst.Classify(s.cfg.SellerGSTIN, req.BuyerGSTIN)

	var breakup gst.Breakup
	if mode == CalcModeInclusive {
		breakup = gst.ComputeInclusive(amount, rate, jurisdiction)
	} else {
		breakup = gst.ComputeExclusive(amount, rate, jurisdiction)
	}

	return &GSTCalcResponse{
		Mode:         mode,
		Jurisdiction: string(jurisdiction),
		BaseAmount:   breakup.BaseAmount.StringFixed(2),
		TaxAmount:    breakup.TaxAmount.StringFixed(2),
		CGST:         breakup.CGST.StringFixed(2),
		SGST:         breakup.SGST.StringFixed(2),
		IGST:         breakup.IGST.StringFixed(2),
		Total:        breakup.Total.StringFixed(2),
	}
}
