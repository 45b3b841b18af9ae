package workflow

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testRates() map[string]float64 {
	return map[string]float64{
		"USD": 1.0,
		"EUR": 1.09,
		"GBP": 1.25,
		"JPY": 0.0068,
	}
}

func TestConverter_Convert(t *testing.T) {
	converter := NewConverter("USD", testRates())

	tests := []struct {
		name     string
		amount   string
		currency string
		expected string
	}{
		{
			name:     "reference currency is identity",
			amount:   "80",
			currency: "USD",
			expected: "80",
		},
		{
			name:     "EUR converts at 1.09",
			amount:   "250",
			currency: "EUR",
			expected: "272.5",
		},
		{
			name:     "GBP converts at 1.25",
			amount:   "100",
			currency: "GBP",
			expected: "125",
		},
		{
			name:     "JPY converts at 0.0068",
			amount:   "10000",
			currency: "JPY",
			expected: "68",
		},
		{
			name:     "rounds half up to two decimals",
			amount:   "10.005",
			currency: "USD",
			expected: "10.01",
		},
		{
			name:     "unknown currency falls back to rate 1.0",
			amount:   "42.42",
			currency: "XXX",
			expected: "42.42",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			got := converter.Convert(amount, tt.currency)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)),
				"Convert(%s %s) = %s, want %s", tt.amount, tt.currency, got, tt.expected)
		})
	}
}

func TestConverter_ConvertIsDeterministic(t *testing.T) {
	converter := NewConverter("USD", testRates())
	amount := decimal.RequireFromString("123.45")

	first := converter.Convert(amount, "EUR")
	for i := 0; i < 10; i++ {
		assert.True(t, first.Equal(converter.Convert(amount, "EUR")))
	}
}

func TestConverter_ReferenceCurrency(t *testing.T) {
	converter := NewConverter("USD", testRates())
	assert.Equal(t, "USD", converter.ReferenceCurrency())
}
