package gst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		seller string
		buyer  string
		want   Jurisdiction
	}{
		{"same state prefix", "27AAPFU0939F1ZV", "27AADCB2230M1Z2", IntraState},
		{"different state prefix", "27AAPFU0939F1ZV", "29AABCT1332L1ZU", InterState},
		{"missing buyer defaults intra", "27AAPFU0939F1ZV", "", IntraState},
		{"missing seller defaults intra", "", "29AABCT1332L1ZU", IntraState},
		{"both missing", "", "", IntraState},
		{"single char ids default intra", "2", "9", IntraState},
		{"case sensitive compare", "ab1234", "AB1234", InterState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.seller, tt.buyer))
		})
	}
}
