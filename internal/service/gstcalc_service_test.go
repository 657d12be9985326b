package service

import (
	"testing"

	"pharmadesk/internal/gst"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calcService() GSTCalcService {
	return NewGSTCalcService(InvoiceConfig{
		SellerGSTIN: "27AAAAA0000A1Z5",
		Tax:         gst.DefaultConfig(),
	})
}

func TestCalculateExclusiveIntraState(t *testing.T) {
	svc := calcService()

	result := svc.Calculate(GSTCalcRequest{
		Amount:     "1000",
		TaxPercent: "12",
		Mode:       CalcModeExclusive,
		BuyerGSTIN: "27BBBBB0000B1Z4",
	})

	require.NotNil(t, result)
	assert.Equal(t, "INTRA_STATE", result.Jurisdiction)
	assert.Equal(t, "1000.00", result.BaseAmount)
	assert.Equal(t, "120.00", result.TaxAmount)
	assert.Equal(t, "60.00", result.CGST)
	assert.Equal(t, "60.00", result.SGST)
	assert.Equal(t, "0.00", result.IGST)
	assert.Equal(t, "1120.00", result.Total)
}

func TestCalculateInclusiveInterState(t *testing.T) {
	svc := calcService()

	result := svc.Calculate(GSTCalcRequest{
		Amount:     "1120",
		TaxPercent: "12",
		Mode:       CalcModeInclusive,
		BuyerGSTIN: "29CCCCC0000C1Z3",
	})

	require.NotNil(t, result)
	assert.Equal(t, "INTER_STATE", result.Jurisdiction)
	assert.Equal(t, "1000.00", result.BaseAmount)
	assert.Equal(t, "120.00", result.TaxAmount)
	assert.Equal(t, "0.00", result.CGST)
	assert.Equal(t, "0.00", result.SGST)
	assert.Equal(t, "120.00", result.IGST)
	assert.Equal(t, "1120.00", result.Total)
}

func TestCalculateDefaultsToExclusive(t *testing.T) {
	svc := calcService()

	result := svc.Calculate(GSTCalcRequest{Amount: "500", TaxPercent: "5"})

	require.NotNil(t, result)
	assert.Equal(t, CalcModeExclusive, result.Mode)
	// No buyer GSTIN means a walk-in sale, which is intra-state
	assert.Equal(t, "INTRA_STATE", result.Jurisdiction)
	assert.Equal(t, "525.00", result.Total)
}

func TestCalculateNotComputable(t *testing.T) {
	svc := calcService()

	tests := []struct {
		name string
		req  GSTCalcRequest
	}{
		{"amount not a number", GSTCalcRequest{Amount: "abc", TaxPercent: "12"}},
		{"empty amount", GSTCalcRequest{Amount: "", TaxPercent: "12"}},
		{"rate not a number", GSTCalcRequest{Amount: "100", TaxPercent: "twelve"}},
		{"rate not a slab", GSTCalcRequest{Amount: "100", TaxPercent: "13"}},
		{"negative amount", GSTCalcRequest{Amount: "-100", TaxPercent: "12"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, svc.Calculate(tt.req))
		})
	}
}

func TestCalculateTrimsWhitespace(t *testing.T) {
	svc := calcService()

	result := svc.Calculate(GSTCalcRequest{Amount: " 100 ", TaxPercent: " 18 "})

	require.NotNil(t, result)
	assert.Equal(t, "118.00", result.Total)
}

func TestCalculateZeroRate(t *testing.T) {
	svc := calcService()

	result := svc.Calculate(GSTCalcRequest{Amount: "250", TaxPercent: "0"})

	require.NotNil(t, result)
	assert.Equal(t, "250.00", result.BaseAmount)
	assert.Equal(t, "0.00", result.TaxAmount)
	assert.Equal(t, "250.00", result.Total)
}
