package gst

import "github.com/shopspring/decimal"

// Config carries the tax slabs the engine accepts. It is passed in
// explicitly rather than read from package-level state so tests can vary it.
type Config struct {
	RateSlabs []decimal.Decimal
}

// DefaultConfig returns the current GST slab list.
func DefaultConfig() Config {
	slabs := make([]decimal.Decimal, 0, 5)
	for _, r := range []int64{0, 5, 12, 18, 28} {
		slabs = append(slabs, decimal.NewFromInt(r))
	}
	return Config{RateSlabs: slabs}
}

// ValidRate reports whether the given percentage is one of the configured slabs.
func (c Config) ValidRate(rate decimal.Decimal) bool {
	for _, s := range c.RateSlabs {
		if s.Equal(rate) {
			return true
		}
	}
	return false
}
