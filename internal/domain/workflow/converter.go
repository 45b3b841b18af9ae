package workflow

import "github.com/shopspring/decimal"

// Converter maps submitted amounts into the reference currency using a
// static rate table. Rates are multipliers against the reference currency
// and are fixed at construction; there is no live rate lookup.
type Converter struct {
	reference string
	rates     map[string]decimal.Decimal
}

// NewConverter creates a converter for the given reference currency.
// Rates are supplied as plain floats from configuration.
func NewConverter(reference string, rates map[string]float64) *Converter {
	table := make(map[string]decimal.Decimal, len(rates))
	for code, rate := range rates {
		table[code] = decimal.NewFromFloat(rate)
	}
	return &Converter{
		reference: reference,
		rates:     table,
	}
}

// ReferenceCurrency returns the currency converted amounts are expressed in.
func (c *Converter) ReferenceCurrency() string {
	return c.reference
}

// Convert returns amount expressed in the reference currency, rounded
// half-up to 2 decimal places. An unrecognized currency code is treated as
// already being in the reference currency (rate 1.0) rather than failing.
func (c *Converter) Convert(amount decimal.Decimal, currency string) decimal.Decimal {
	rate, ok := c.rates[currency]
	if !ok {
		rate = decimal.NewFromInt(1)
	}
	return amount.Mul(rate).Round(2)
}
