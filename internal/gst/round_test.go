package gst

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound_HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"exact two places", "12.34", "12.34"},
		{"half rounds up", "0.125", "0.13"},
		{"negative half rounds away", "-0.125", "-0.13"},
		{"truncates down", "99.994", "99.99"},
		{"carries up", "99.995", "100.00"},
		{"zero", "0", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := decimal.RequireFromString(tt.in)
			assert.Equal(t, tt.want, Round(in).StringFixed(2))
		})
	}
}

func TestRound_Idempotent(t *testing.T) {
	for _, s := range []string{"0.005", "123.456", "-99.999", "0.994999", "1000000.015"} {
		once := Round(decimal.RequireFromString(s))
		assert.True(t, Round(once).Equal(once), "Round(Round(%s)) changed the value", s)
	}
}

func TestRoundWhole(t *testing.T) {
	assert.Equal(t, "900", RoundWhole(decimal.RequireFromString("900.00")).String())
	assert.Equal(t, "900", RoundWhole(decimal.RequireFromString("899.50")).String())
	assert.Equal(t, "899", RoundWhole(decimal.RequireFromString("899.49")).String())
	assert.Equal(t, "-900", RoundWhole(decimal.RequireFromString("-899.50")).String())
}

func TestFromFloat_NonFinite(t *testing.T) {
	assert.True(t, FromFloat(math.NaN()).IsZero())
	assert.True(t, FromFloat(math.Inf(1)).IsZero())
	assert.True(t, FromFloat(math.Inf(-1)).IsZero())
	assert.Equal(t, "10.50", FromFloat(10.5).StringFixed(2))
}
