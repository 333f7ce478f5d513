package probability

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mathext"

	"github.com/yourusername/value-radar/internal/config"
	"github.com/yourusername/value-radar/internal/logger"
	"github.com/yourusername/value-radar/internal/metrics"
	"github.com/yourusername/value-radar/internal/models"
)

// BayesianConsensus combines a historical Beta prior with precision-weighted quotes.
// Each quote contributes precision*scale pseudo-observations split by its implied
// probability.
type BayesianConsensus struct {
	priors         PriorSource
	precisionScale float64
	credibleLevel  float64
	log            *logger.EngineLogger
}

// NewBayesianConsensus creates an estimator. A nil prior source means every outcome
// starts from the uninformed prior.
func NewBayesianConsensus(cfg config.BayesianConfig, priors PriorSource, log *logrus.Logger) *BayesianConsensus {
	if cfg.PrecisionScale <= 0 {
		cfg.PrecisionScale = config.DefaultPrecisionScale
	}
	if cfg.CredibleLevel <= 0 || cfg.CredibleLevel >= 1 {
		cfg.CredibleLevel = config.DefaultCredibleLevel
	}
	if priors == nil {
		priors = UninformedPriors{}
	}
	return &BayesianConsensus{
		priors:         priors,
		precisionScale: cfg.PrecisionScale,
		credibleLevel:  cfg.CredibleLevel,
		log:            logger.NewEngineLogger(log),
	}
}

// Posterior applies the conjugate update of quotes to prior. Invalid quotes are
// ignored; ErrEmptyQuotes is returned when none remain.
func (bc *BayesianConsensus) Posterior(prior models.HistoricalPrior, quotes []models.PriceQuote) (models.PosteriorEstimate, error) {
	if !prior.IsUsable() {
		prior = models.UninformedPrior()
	}
	alpha, beta := prior.Alpha, prior.Beta

	used := 0
	for _, q := range quotes {
		if !q.IsValid() {
			continue
		}
		implied := q.ImpliedProbability()
		nEff := q.PrecisionWeight * bc.precisionScale
		alpha += implied * nEff
		beta += (1 - implied) * nEff
		used++
	}
	if used == 0 {
		return models.PosteriorEstimate{}, models.ErrEmptyQuotes
	}

	total := alpha + beta
	mean := alpha / total
	variance := alpha * beta / (total * total * (total + 1))

	tail := (1 - bc.credibleLevel) / 2
	lower := clampUnit(mathext.InvRegIncBeta(alpha, beta, tail))
	upper := clampUnit(mathext.InvRegIncBeta(alpha, beta, 1-tail))
	// Quantile inversion can land a hair inside the mean for very peaked posteriors.
	lower = math.Min(lower, mean)
	upper = math.Max(upper, mean)

	return models.PosteriorEstimate{
		Mean:                mean,
		Variance:            variance,
		CredibleInterval:    models.CredibleInterval{Lower: lower, Upper: upper},
		Alpha:               alpha,
		Beta:                beta,
		EffectiveSampleSize: total,
	}, nil
}

// Estimate looks up the prior for one outcome and returns its unnormalised posterior.
func (bc *BayesianConsensus) Estimate(ctx context.Context, key models.MatchKey, outcome string, quotes []models.PriceQuote) (models.PosteriorEstimate, error) {
	start := time.Now()
	defer func() { metrics.RecordEvaluation("bayesian", time.Since(start).Seconds()) }()

	if !hasValidQuote(quotes) {
		return models.PosteriorEstimate{}, fmt.Errorf("outcome %q: %w", outcome, models.ErrEmptyQuotes)
	}

	prior := bc.priors.GetPrior(ctx, key, outcome)
	post, err := bc.Posterior(prior, quotes)
	if err != nil {
		return models.PosteriorEstimate{}, fmt.Errorf("outcome %q: %w", outcome, err)
	}
	bc.log.LogPosterior(outcome, len(quotes), post)
	return post, nil
}

// EstimatePosteriors computes normalised posteriors for every outcome of a market.
// Outcomes without usable quotes are reported in skipped and left out of the result.
func (bc *BayesianConsensus) EstimatePosteriors(ctx context.Context, key models.MatchKey, quotes map[string][]models.PriceQuote) (map[string]models.PosteriorEstimate, map[string]error, error) {
	names := make([]string, 0, len(quotes))
	for name := range quotes {
		names = append(names, name)
	}
	sort.Strings(names)

	raw := make(map[string]models.PosteriorEstimate, len(names))
	skipped := make(map[string]error)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, skipped, err
		}
		post, err := bc.Estimate(ctx, key, name, quotes[name])
		if err != nil {
			skipped[name] = err
			continue
		}
		raw[name] = post
	}
	if len(raw) == 0 {
		return nil, skipped, fmt.Errorf("no outcome could be estimated: %w", models.ErrEmptyQuotes)
	}

	normalized, err := NormalizePosteriors(raw)
	if err != nil {
		return nil, skipped, err
	}
	return normalized, skipped, nil
}

// EstimateMarket implements Estimator.
func (bc *BayesianConsensus) EstimateMarket(ctx context.Context, key models.MatchKey, quotes map[string][]models.PriceQuote) (map[string]Estimate, error) {
	posteriors, _, err := bc.EstimatePosteriors(ctx, key, quotes)
	if err != nil {
		return nil, err
	}

	out := make(map[string]Estimate, len(posteriors))
	for name, post := range posteriors {
		p := post
		out[name] = Estimate{
			Probability: p.Mean,
			Lower:       p.CredibleInterval.Lower,
			Upper:       p.CredibleInterval.Upper,
			HasInterval: true,
			Posterior:   &p,
		}
	}
	return out, nil
}

// NormalizePosteriors rescales each mean by the sum of all means so the market sums
// to one, and each variance by the square of that factor. Shape parameters are left
// as computed; see models.PosteriorEstimate.Rescale for the interval.
func NormalizePosteriors(posteriors map[string]models.PosteriorEstimate) (map[string]models.PosteriorEstimate, error) {
	var total float64
	for _, p := range posteriors {
		total += p.Mean
	}
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("posterior means sum to %v: %w", total, models.ErrDegenerateMarket)
	}

	out := make(map[string]models.PosteriorEstimate, len(posteriors))
	for name, p := range posteriors {
		out[name] = p.Rescale(total)
	}
	return out, nil
}

func hasValidQuote(quotes []models.PriceQuote) bool {
	for _, q := range quotes {
		if q.IsValid() {
			return true
		}
	}
	return false
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
