package models

import "math"

// PriceQuote is a single quoter's decimal price for one outcome of a market.
type PriceQuote struct {
	QuoterID        string  `json:"quoter_id" yaml:"quoter_id" validate:"required"`
	DecimalPrice    float64 `json:"decimal_price" yaml:"decimal_price" validate:"required,gt=1"`
	PrecisionWeight float64 `json:"precision_weight" yaml:"precision_weight" validate:"gte=0"`
}

// IsValid reports whether the quote can be used as evidence.
func (q PriceQuote) IsValid() bool {
	return ValidPrice(q.DecimalPrice) && q.PrecisionWeight >= 0 && !math.IsNaN(q.PrecisionWeight) && !math.IsInf(q.PrecisionWeight, 0)
}

// ImpliedProbability returns 1/price, or 0 for an unusable price.
func (q PriceQuote) ImpliedProbability() float64 {
	return ImpliedProbability(q.DecimalPrice)
}

// ValidPrice reports whether price is a finite decimal price above 1.0.
func ValidPrice(price float64) bool {
	return price > 1.0 && !math.IsNaN(price) && !math.IsInf(price, 0)
}

// ImpliedProbability converts a decimal price into its implied probability.
func ImpliedProbability(price float64) float64 {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0
	}
	return 1.0 / price
}
