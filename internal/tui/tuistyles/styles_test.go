package tuistyles

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatPLN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00 zł"},
		{"999.5", "999.50 zł"},
		{"12345.67", "12 345.67 zł"},
		{"1234567.891", "1 234 567.89 zł"},
		{"-2500", "-2 500.00 zł"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPLN(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatSignedPLN(t *testing.T) {
	assert.Equal(t, "+812.24 zł", FormatSignedPLN(decimal.RequireFromString("812.24")))
	assert.Equal(t, "+0.00 zł", FormatSignedPLN(decimal.Zero))
	assert.Equal(t, "-1 000.00 zł", FormatSignedPLN(decimal.NewFromInt(-1000)))
}
