// Package probability turns quoted prices into vig-free outcome probabilities,
// either by devigging a single price vector or by a Bayesian consensus over quoters.
package probability

import (
	"context"

	"github.com/yourusername/value-radar/internal/models"
)

// Estimate is the common result shape of every Estimator.
type Estimate struct {
	Probability float64 `json:"probability"`
	// Lower and Upper are only meaningful when HasInterval is set.
	Lower       float64                   `json:"lower,omitempty"`
	Upper       float64                   `json:"upper,omitempty"`
	HasInterval bool                      `json:"has_interval"`
	Posterior   *models.PosteriorEstimate `json:"posterior,omitempty"`
}

// Estimator produces a probability per outcome for one market. Outcomes that cannot
// be estimated are absent from the result; the returned probabilities sum to 1.
type Estimator interface {
	EstimateMarket(ctx context.Context, key models.MatchKey, quotes map[string][]models.PriceQuote) (map[string]Estimate, error)
}

// PriorSource supplies the historical prior for one outcome. Implementations must
// return the uninformed prior rather than fail when no history is available.
type PriorSource interface {
	GetPrior(ctx context.Context, key models.MatchKey, outcome string) models.HistoricalPrior
}

// UninformedPriors is a PriorSource that always returns Beta(1, 1).
type UninformedPriors struct{}

// GetPrior implements PriorSource.
func (UninformedPriors) GetPrior(context.Context, models.MatchKey, string) models.HistoricalPrior {
	return models.UninformedPrior()
}

var (
	_ Estimator   = (*PowerMethod)(nil)
	_ Estimator   = (*BayesianConsensus)(nil)
	_ PriorSource = UninformedPriors{}
)
