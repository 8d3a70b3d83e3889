// Package fx converts monetary amounts between account and instrument
// currencies.
package fx

import (
	"math"

	"orderengine/src/model"
)

// Converter translates amounts from one currency into another through their
// USD rates.
type Converter struct {
	from model.Currency
	to   model.Currency
}

// NewConverter builds a converter from the funding currency into the
// instrument currency.
func NewConverter(from, to model.Currency) Converter {
	return Converter{from: from, to: to}
}

// Rate is the multiplier applied to an amount in the source currency.
func (c Converter) Rate() float64 {
	if c.from.USDRate == 0 || c.to.USDRate == 0 {
		return 1
	}
	return c.from.USDRate / c.to.USDRate
}

// Convert translates amount into the target currency. Non-decimal
// currencies are rounded to whole units.
func (c Converter) Convert(amount float64) float64 {
	converted := amount * c.Rate()
	if !c.to.IsDecimal {
		return math.Round(converted)
	}
	return math.Round(converted*100) / 100
}
