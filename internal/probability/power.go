package probability

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-radar/internal/config"
	"github.com/yourusername/value-radar/internal/logger"
	"github.com/yourusername/value-radar/internal/metrics"
	"github.com/yourusername/value-radar/internal/models"
)

// maxBracketDoublings bounds the search for an upper bracket on the exponent.
const maxBracketDoublings = 64

// SolveResult describes how the exponent k in Σq^k = 1 was found.
type SolveResult struct {
	K          float64
	Iterations int
	Converged  bool
}

// PowerMethod removes overround by raising implied probabilities to a common power.
type PowerMethod struct {
	maxIterations int
	tolerance     float64
	log           *logger.EngineLogger
}

// NewPowerMethod creates a solver. Zero config values fall back to the defaults.
func NewPowerMethod(cfg config.DevigConfig, log *logrus.Logger) *PowerMethod {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = config.DefaultMaxIterations
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = config.DefaultTolerance
	}
	return &PowerMethod{
		maxIterations: cfg.MaxIterations,
		tolerance:     cfg.Tolerance,
		log:           logger.NewEngineLogger(log),
	}
}

// TrueProbabilities returns the vig-free probabilities for a complete market, in
// input order. It returns nil when fewer than two prices are given or any price
// is not a finite value above 1.
func (pm *PowerMethod) TrueProbabilities(prices []float64) []float64 {
	probs, _ := pm.Solve(prices)
	return probs
}

// Solve is TrueProbabilities with solver diagnostics.
func (pm *PowerMethod) Solve(prices []float64) ([]float64, SolveResult) {
	start := time.Now()
	defer func() { metrics.RecordEvaluation("devig", time.Since(start).Seconds()) }()

	if len(prices) < 2 {
		return nil, SolveResult{}
	}
	implied := make([]float64, len(prices))
	for i, p := range prices {
		if !models.ValidPrice(p) {
			return nil, SolveResult{}
		}
		implied[i] = 1.0 / p
	}

	res := pm.solveExponent(implied)
	if !res.Converged {
		metrics.RecordDevigFallback()
		pm.log.LogDevigFallback(prices, res.Iterations, "root finder did not converge")
		return normalize(implied), res
	}

	probs := make([]float64, len(implied))
	for i, q := range implied {
		probs[i] = math.Pow(q, res.K)
	}
	return normalize(probs), res
}

// solveExponent finds k with Σq_i^k = 1 by Newton steps from k = 1, falling back
// to bisection whenever a step leaves the current bracket.
func (pm *PowerMethod) solveExponent(implied []float64) SolveResult {
	f := func(k float64) (float64, float64) {
		var sum, deriv float64
		for _, q := range implied {
			qk := math.Pow(q, k)
			sum += qk
			deriv += qk * math.Log(q)
		}
		return sum - 1, deriv
	}

	// f is strictly decreasing in k with f(0) = n-1 > 0.
	lo, hi := 0.0, 1.0
	for i := 0; ; i++ {
		fh, _ := f(hi)
		if fh <= 0 {
			break
		}
		if i >= maxBracketDoublings {
			return SolveResult{K: hi}
		}
		lo, hi = hi, hi*2
	}

	k := 1.0
	for iter := 1; iter <= pm.maxIterations; iter++ {
		fk, dk := f(k)
		if math.Abs(fk) < pm.tolerance {
			return SolveResult{K: k, Iterations: iter, Converged: true}
		}
		if fk > 0 {
			lo = k
		} else {
			hi = k
		}
		if hi-lo < pm.tolerance {
			return SolveResult{K: k, Iterations: iter, Converged: true}
		}

		next := k - fk/dk
		if dk == 0 || math.IsNaN(next) || next <= lo || next >= hi {
			next = (lo + hi) / 2
		}
		k = next
	}
	return SolveResult{K: k, Iterations: pm.maxIterations}
}

// EstimateMarket devigs the median quoted price of each outcome. Outcomes without a
// valid quote are dropped; at least two must remain.
func (pm *PowerMethod) EstimateMarket(_ context.Context, _ models.MatchKey, quotes map[string][]models.PriceQuote) (map[string]Estimate, error) {
	names := make([]string, 0, len(quotes))
	for name := range quotes {
		names = append(names, name)
	}
	sort.Strings(names)

	var outcomes []string
	var prices []float64
	for _, name := range names {
		if m, ok := medianPrice(quotes[name]); ok {
			outcomes = append(outcomes, name)
			prices = append(prices, m)
		}
	}

	probs := pm.TrueProbabilities(prices)
	if probs == nil {
		return nil, fmt.Errorf("failed to devig %d priced outcomes: %w", len(prices), models.ErrDegenerateMarket)
	}

	out := make(map[string]Estimate, len(outcomes))
	for i, name := range outcomes {
		out[name] = Estimate{Probability: probs[i]}
	}
	return out, nil
}

// CalculateEdge returns the expected profit per unit staked at price when the
// outcome's true probability is trueProb.
func CalculateEdge(price, trueProb float64) float64 {
	return trueProb*price - 1
}

func medianPrice(quotes []models.PriceQuote) (float64, bool) {
	prices := make([]float64, 0, len(quotes))
	for _, q := range quotes {
		if models.ValidPrice(q.DecimalPrice) {
			prices = append(prices, q.DecimalPrice)
		}
	}
	if len(prices) == 0 {
		return 0, false
	}
	sort.Float64s(prices)
	mid := len(prices) / 2
	if len(prices)%2 == 1 {
		return prices[mid], true
	}
	return (prices[mid-1] + prices[mid]) / 2, true
}

func normalize(values []float64) []float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v / total
	}
	return out
}
