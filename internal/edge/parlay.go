package edge

import (
	"fmt"

	"github.com/yourusername/value-radar/internal/models"
)

// ParlayLeg is one selection of an accumulator. A nil TrueProbability means the
// leg is assumed fairly priced at its implied probability.
type ParlayLeg struct {
	Price           float64  `json:"price" yaml:"price"`
	TrueProbability *float64 `json:"true_probability,omitempty" yaml:"true_probability"`
}

// Parlay is the combined price and edge of independent legs.
type Parlay struct {
	Legs            int     `json:"legs"`
	CombinedPrice   float64 `json:"combined_price"`
	TrueProbability float64 `json:"true_probability"`
	Edge            float64 `json:"edge"`
}

// ParlayEdge multiplies prices and probabilities across legs, assuming independence.
func ParlayEdge(legs []ParlayLeg) (Parlay, error) {
	if len(legs) == 0 {
		return Parlay{}, fmt.Errorf("parlay has no legs: %w", models.ErrEmptyQuotes)
	}

	price, prob := 1.0, 1.0
	for i, leg := range legs {
		if !models.ValidPrice(leg.Price) {
			return Parlay{}, fmt.Errorf("leg %d price %v: %w", i, leg.Price, models.ErrInvalidPrice)
		}
		price *= leg.Price

		if leg.TrueProbability == nil {
			prob *= 1 / leg.Price
			continue
		}
		p := *leg.TrueProbability
		if p < 0 || p > 1 {
			return Parlay{}, fmt.Errorf("leg %d probability %v: %w", i, p, models.ErrInvalidProbability)
		}
		prob *= p
	}

	return Parlay{
		Legs:            len(legs),
		CombinedPrice:   price,
		TrueProbability: prob,
		Edge:            prob*price - 1,
	}, nil
}
