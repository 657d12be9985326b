package batch

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testSelector() *Selector {
	s := NewSelector(DefaultConfig())
	s.now = func() time.Time { return fixedNow }
	return s
}

func days(n int) *time.Time {
	t := fixedNow.AddDate(0, 0, n)
	return &t
}

func testProduct() Product {
	return Product{
		MRP:       decimal.RequireFromString("45.50"),
		SalePrice: decimal.RequireFromString("40.00"),
	}
}

func TestSelect_FiltersExpiredAndShortStock(t *testing.T) {
	// Expired lot and zero-quantity lot both drop; only the +10d lot survives.
	batches := []Batch{
		{BatchNumber: "B1", ExpiryDate: days(10), QuantityAvailable: 5},
		{BatchNumber: "B2", ExpiryDate: days(-30), QuantityAvailable: 20},
		{BatchNumber: "B3", ExpiryDate: days(60), QuantityAvailable: 0},
	}

	got := testSelector().Select(testProduct(), batches, Policy{
		SortBy:        SortByExpiry,
		SortOrder:     Asc,
		FilterExpired: true,
		MinQuantity:   1,
	})

	require.Len(t, got, 1)
	assert.Equal(t, "B1", got[0].BatchNumber)
}

func TestSelect_KeepsUndatedBatches(t *testing.T) {
	// No expiry date means non-expiring: never dropped by the expiry filter.
	batches := []Batch{
		{BatchNumber: "OPEN", QuantityAvailable: 3},
		{BatchNumber: "OLD", ExpiryDate: days(-1), QuantityAvailable: 3},
	}

	got := testSelector().Select(testProduct(), batches, Policy{
		SortBy:        SortByExpiry,
		SortOrder:     Asc,
		FilterExpired: true,
		MinQuantity:   1,
	})

	require.Len(t, got, 1)
	assert.Equal(t, "OPEN", got[0].BatchNumber)
}

func TestSelect_SortKeysAndDirections(t *testing.T) {
	batches := []Batch{
		{BatchNumber: "A", ExpiryDate: days(90), ManufacturingDate: days(-300), QuantityAvailable: 10},
		{BatchNumber: "B", ExpiryDate: days(30), ManufacturingDate: days(-100), QuantityAvailable: 50},
		{BatchNumber: "C", ExpiryDate: days(180), ManufacturingDate: days(-200), QuantityAvailable: 25},
	}

	tests := []struct {
		name  string
		pol   Policy
		order []string
	}{
		{"expiry asc", Policy{SortBy: SortByExpiry, SortOrder: Asc}, []string{"B", "A", "C"}},
		{"expiry desc", Policy{SortBy: SortByExpiry, SortOrder: Desc}, []string{"C", "A", "B"}},
		{"quantity asc", Policy{SortBy: SortByQuantity, SortOrder: Asc}, []string{"A", "C", "B"}},
		{"quantity desc", Policy{SortBy: SortByQuantity, SortOrder: Desc}, []string{"B", "C", "A"}},
		{"manufacturing asc", Policy{SortBy: SortByManufacturing, SortOrder: Asc}, []string{"A", "C", "B"}},
		{"manufacturing desc", Policy{SortBy: SortByManufacturing, SortOrder: Desc}, []string{"B", "C", "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := testSelector().Select(testProduct(), batches, tt.pol)
			require.Len(t, got, len(tt.order))
			for i, want := range tt.order {
				assert.Equal(t, want, got[i].BatchNumber, "position %d", i)
			}
		})
	}
}

func TestSelect_StableOnTies(t *testing.T) {
	// Equal sort keys keep input order so repeated calls render identically.
	exp := days(45)
	batches := []Batch{
		{BatchNumber: "FIRST", ExpiryDate: exp, QuantityAvailable: 5},
		{BatchNumber: "SECOND", ExpiryDate: exp, QuantityAvailable: 5},
		{BatchNumber: "THIRD", ExpiryDate: exp, QuantityAvailable: 5},
	}

	for _, order := range []SortOrder{Asc, Desc} {
		got := testSelector().Select(testProduct(), batches, Policy{SortBy: SortByExpiry, SortOrder: order})
		require.Len(t, got, 3)
		assert.Equal(t, "FIRST", got[0].BatchNumber)
		assert.Equal(t, "SECOND", got[1].BatchNumber)
		assert.Equal(t, "THIRD", got[2].BatchNumber)
	}
}

func TestSelect_SyntheticFallback(t *testing.T) {
	// Everything expired and fallback enabled: exactly one synthetic batch
	// with the reserved number, config quantity, and catalog prices.
	product := testProduct()
	batches := []Batch{
		{BatchNumber: "B1", ExpiryDate: days(-10), QuantityAvailable: 8},
		{BatchNumber: "B2", ExpiryDate: days(-90), QuantityAvailable: 4},
	}

	got := testSelector().Select(product, batches, Policy{
		SortBy:        SortByExpiry,
		SortOrder:     Asc,
		FilterExpired: true,
		MinQuantity:   1,
		Fallback:      true,
	})

	require.Len(t, got, 1)
	fb := got[0]
	assert.True(t, fb.Synthetic)
	assert.Equal(t, "DEFAULT", fb.BatchNumber)
	assert.Equal(t, 100, fb.QuantityAvailable)
	assert.True(t, fb.MRP.Equal(product.MRP))
	assert.True(t, fb.SalePrice.Equal(product.SalePrice))
	require.NotNil(t, fb.ExpiryDate)
	assert.Equal(t, fixedNow.AddDate(0, 0, 365), *fb.ExpiryDate)
}

func TestSelect_NoFallbackReturnsEmpty(t *testing.T) {
	got := testSelector().Select(testProduct(), nil, Policy{
		SortBy:      SortByExpiry,
		MinQuantity: 1,
	})
	assert.Empty(t, got)
}

func TestQuickPick_MatchesGeneralPipeline(t *testing.T) {
	batches := []Batch{
		{BatchNumber: "B1", ExpiryDate: days(20), QuantityAvailable: 5},
		{BatchNumber: "B2", ExpiryDate: days(400), QuantityAvailable: 12},
		{BatchNumber: "B3", ExpiryDate: days(-5), QuantityAvailable: 9},
		{BatchNumber: "B4", QuantityAvailable: 0},
	}
	s := testSelector()
	product := testProduct()

	quick := s.QuickPick(product, batches)
	general := s.Select(product, batches, Policy{
		SortBy:      SortByExpiry,
		SortOrder:   Desc,
		MinQuantity: 1,
		Fallback:    true,
	})

	assert.Equal(t, general, quick)
	require.Len(t, quick, 3)
	assert.Equal(t, "B2", quick[0].BatchNumber)
}

func TestDefaultBatch_UsesConfig(t *testing.T) {
	cfg := Config{DefaultBatchNumber: "NOSTOCK", DefaultExpiryDays: 30, DefaultQuantity: 1}
	s := NewSelector(cfg)
	s.now = func() time.Time { return fixedNow }

	fb := s.DefaultBatch(testProduct())
	assert.Equal(t, "NOSTOCK", fb.BatchNumber)
	assert.Equal(t, 1, fb.QuantityAvailable)
	assert.Equal(t, fixedNow.AddDate(0, 0, 30), *fb.ExpiryDate)
	assert.True(t, fb.Synthetic)
}
