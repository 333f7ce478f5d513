package staking

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yourusername/value-radar/internal/models"
)

// DefaultKellyFraction is the fixed multiplier of the legacy sizing rule.
const DefaultKellyFraction = 0.25

// FixedKelly is a stake sized by a constant fraction of full Kelly, with no
// quality or tolerance adjustment.
type FixedKelly struct {
	FullKelly       float64         `json:"full_kelly"`
	KellyPercentage float64         `json:"kelly_percentage"`
	StakeAmount     decimal.Decimal `json:"stake_amount"`
}

// FixedFractionKelly sizes a bet at fraction times full Kelly. Negative Kelly
// values produce a zero stake.
func FixedFractionKelly(price, probability float64, bankroll decimal.Decimal, fraction float64) (FixedKelly, error) {
	if !models.ValidPrice(price) {
		return FixedKelly{}, fmt.Errorf("price %v: %w", price, models.ErrInvalidPrice)
	}
	if probability < 0 || probability > 1 {
		return FixedKelly{}, fmt.Errorf("probability %v: %w", probability, models.ErrInvalidProbability)
	}
	if !bankroll.IsPositive() {
		return FixedKelly{}, fmt.Errorf("bankroll %s: %w", bankroll, models.ErrInvalidBankroll)
	}
	if fraction <= 0 {
		fraction = DefaultKellyFraction
	}

	b := price - 1
	full := (b*probability - (1 - probability)) / b
	if full < 0 {
		full = 0
	}
	sized := full * fraction

	return FixedKelly{
		FullKelly:       full,
		KellyPercentage: sized * 100,
		StakeAmount:     bankroll.Mul(decimal.NewFromFloat(sized)).Round(2),
	}, nil
}
