package staking

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/value-radar/internal/metrics"
	"github.com/yourusername/value-radar/internal/models"
)

// SimulationConfig configures a Monte Carlo run of repeated fixed-fraction bets.
type SimulationConfig struct {
	Price       float64 `json:"price"`
	Probability float64 `json:"probability"`
	Fraction    float64 `json:"fraction"`
	// Bets is the number of sequential bets per path.
	Bets       int   `json:"bets"`
	Iterations int   `json:"iterations"`
	Seed       int64 `json:"seed"`
	// DrawdownLimit is the peak-to-trough loss, as a share of peak, counted as ruin.
	DrawdownLimit float64 `json:"drawdown_limit"`
}

// SimulationResult summarises simulated bankroll paths, starting from a bankroll of 1.
type SimulationResult struct {
	Iterations            int                `json:"iterations"`
	Bets                  int                `json:"bets"`
	MeanFinalBankroll     float64            `json:"mean_final_bankroll"`
	StdFinalBankroll      float64            `json:"std_final_bankroll"`
	MedianFinalBankroll   float64            `json:"median_final_bankroll"`
	MedianGrowthPerBet    float64            `json:"median_growth_per_bet"`
	TheoreticalGrowth     float64            `json:"theoretical_growth"`
	ProbabilityOfProfit   float64            `json:"probability_of_profit"`
	ProbabilityOfDrawdown float64            `json:"probability_of_drawdown"`
	ConfidenceIntervals   map[string]float64 `json:"confidence_intervals"`
}

// Simulate plays Iterations independent paths of Bets wagers, each staking Fraction
// of the current bankroll. The context is checked between paths.
func Simulate(ctx context.Context, cfg SimulationConfig) (SimulationResult, error) {
	if err := validateSimulation(&cfg); err != nil {
		metrics.RecordSimulationRun("failure")
		return SimulationResult{}, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	b := cfg.Price - 1
	finals := make([]float64, cfg.Iterations)
	breaches := 0

	for i := 0; i < cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			metrics.RecordSimulationRun("cancelled")
			return SimulationResult{}, fmt.Errorf("simulation cancelled after %d paths: %w", i, err)
		}

		bankroll, peak := 1.0, 1.0
		breached := false
		for j := 0; j < cfg.Bets; j++ {
			stake := bankroll * cfg.Fraction
			if rng.Float64() < cfg.Probability {
				bankroll += stake * b
			} else {
				bankroll -= stake
			}
			if bankroll > peak {
				peak = bankroll
			}
			if !breached && (peak-bankroll)/peak >= cfg.DrawdownLimit {
				breached = true
			}
		}
		if breached {
			breaches++
		}
		finals[i] = bankroll
	}

	sorted := append([]float64(nil), finals...)
	sort.Float64s(sorted)
	mean, std := stat.MeanStdDev(finals, nil)
	if math.IsNaN(std) {
		std = 0
	}
	median := stat.Quantile(0.5, stat.Empirical, sorted, nil)

	var medianGrowth float64
	if median > 0 {
		medianGrowth = math.Log(median) / float64(cfg.Bets)
	}

	result := SimulationResult{
		Iterations:            cfg.Iterations,
		Bets:                  cfg.Bets,
		MeanFinalBankroll:     mean,
		StdFinalBankroll:      std,
		MedianFinalBankroll:   median,
		MedianGrowthPerBet:    medianGrowth,
		TheoreticalGrowth:     GrowthRate(cfg.Probability, b, cfg.Fraction),
		ProbabilityOfProfit:   fractionAbove(finals, 1),
		ProbabilityOfDrawdown: float64(breaches) / float64(cfg.Iterations),
		ConfidenceIntervals:   confidenceIntervals(sorted, []float64{0.9, 0.95, 0.99}),
	}

	metrics.RecordSimulationRun("success")
	metrics.RecordSimulatedRuin(result.ProbabilityOfDrawdown)
	return result, nil
}

func validateSimulation(cfg *SimulationConfig) error {
	if !models.ValidPrice(cfg.Price) {
		return fmt.Errorf("price %v: %w", cfg.Price, models.ErrInvalidPrice)
	}
	if cfg.Probability < 0 || cfg.Probability > 1 || math.IsNaN(cfg.Probability) {
		return fmt.Errorf("probability %v: %w", cfg.Probability, models.ErrInvalidProbability)
	}
	if cfg.Fraction < 0 || cfg.Fraction >= 1 {
		return fmt.Errorf("fraction %v must be in [0, 1)", cfg.Fraction)
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1000
	}
	if cfg.Bets <= 0 {
		cfg.Bets = 500
	}
	if cfg.DrawdownLimit <= 0 || cfg.DrawdownLimit > 1 {
		cfg.DrawdownLimit = 0.5
	}
	return nil
}

// confidenceIntervals returns the width of the central interval of final bankrolls
// for each level, keyed like "95%".
func confidenceIntervals(sorted []float64, levels []float64) map[string]float64 {
	out := make(map[string]float64, len(levels))
	for _, level := range levels {
		tail := (1 - level) / 2
		low := stat.Quantile(tail, stat.Empirical, sorted, nil)
		high := stat.Quantile(1-tail, stat.Empirical, sorted, nil)
		out[fmt.Sprintf("%.0f%%", level*100)] = high - low
	}
	return out
}

func fractionAbove(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}
