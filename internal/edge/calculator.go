// Package edge converts a probability estimate and a quoted price into a
// risk-adjusted profitability figure.
package edge

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-radar/internal/config"
	"github.com/yourusername/value-radar/internal/logger"
	"github.com/yourusername/value-radar/internal/metrics"
	"github.com/yourusername/value-radar/internal/models"
)

// Input is everything the calculator needs about one quoted price.
type Input struct {
	Price       float64
	Posterior   models.PosteriorEstimate
	Liquidity   models.MarketLiquidity
	Reliability float64
	// HistoricalCLV is nil when no closing-line history exists for the quoter.
	HistoricalCLV *float64
}

// Calculator computes EdgeAnalysis values. It holds only configuration.
type Calculator struct {
	cfg config.EdgeConfig
	log *logger.EngineLogger
}

// NewCalculator creates a calculator with the given constants.
func NewCalculator(cfg config.EdgeConfig, log *logrus.Logger) *Calculator {
	if cfg.LiquiditySaturationQuoters <= 0 {
		cfg.LiquiditySaturationQuoters = config.DefaultLiquiditySaturationQuoters
	}
	if cfg.SpreadZeroAt <= 0 {
		cfg.SpreadZeroAt = config.DefaultSpreadZeroAt
	}
	if cfg.CLVMax <= 0 {
		cfg.CLVMin, cfg.CLVMax = config.DefaultCLVMin, config.DefaultCLVMax
	}
	return &Calculator{cfg: cfg, log: logger.NewEngineLogger(log)}
}

// Analyze scores one price. The posterior mean is taken as the true probability.
func (c *Calculator) Analyze(in Input) (models.EdgeAnalysis, error) {
	start := time.Now()
	defer func() { metrics.RecordEvaluation("edge", time.Since(start).Seconds()) }()

	if !models.ValidPrice(in.Price) {
		return models.EdgeAnalysis{}, fmt.Errorf("price %v: %w", in.Price, models.ErrInvalidPrice)
	}
	p := in.Posterior.Mean
	if math.IsNaN(p) || p < 0 || p > 1 {
		return models.EdgeAnalysis{}, fmt.Errorf("posterior mean %v: %w", p, models.ErrInvalidProbability)
	}

	rawEdge := p*in.Price - 1
	uncertainty := in.Posterior.StdError()
	liquidity := c.LiquidityFactor(in.Liquidity)
	liquidityPenalty := (1 - liquidity) * c.cfg.LiquidityTax
	fill := c.FillProbability(in.Reliability)
	clv := c.CLVAdjustment(in.HistoricalCLV)

	riskAdjusted := (rawEdge - uncertainty - liquidityPenalty) * fill * clv

	analysis := models.EdgeAnalysis{
		RawEdge:            rawEdge,
		RiskAdjustedEdge:   riskAdjusted,
		EVPerUnitStake:     riskAdjusted,
		SharpeRatio:        SharpeRatio(p, in.Price),
		UncertaintyPenalty: uncertainty,
		LiquidityFactor:    liquidity,
		FillProbability:    fill,
		ConfidenceGrade:    in.Posterior.ConfidenceGrade(),
		Components: map[string]float64{
			models.ComponentMathematics: rawEdge,
			models.ComponentUncertainty: -uncertainty,
			models.ComponentLiquidity:   -liquidityPenalty,
			models.ComponentReliability: (fill - 1) * rawEdge,
			models.ComponentCLV:         (clv - 1) * rawEdge,
		},
	}

	metrics.RecordQualityGrade(string(analysis.QualityGrade()))
	c.log.LogEdgeAnalysis(in.Price, analysis)
	return analysis, nil
}

// LiquidityFactor averages a depth score and a spread-tightness score, both in [0, 1].
func (c *Calculator) LiquidityFactor(liq models.MarketLiquidity) float64 {
	depth := math.Min(float64(liq.QuoterCount)/c.cfg.LiquiditySaturationQuoters, 1)
	if depth < 0 {
		depth = 0
	}
	tightness := math.Max(0, 1-liq.PriceSpreadPct/c.cfg.SpreadZeroAt)
	if tightness > 1 {
		tightness = 1
	}
	return (depth + tightness) / 2
}

// FillProbability maps a reliability score onto [fill_floor, 1].
func (c *Calculator) FillProbability(reliability float64) float64 {
	if math.IsNaN(reliability) {
		reliability = 0
	}
	reliability = math.Max(0, math.Min(1, reliability))
	return c.cfg.FillFloor + (1-c.cfg.FillFloor)*reliability
}

// CLVAdjustment returns 1 + clv clamped to the configured range, or 1 without history.
func (c *Calculator) CLVAdjustment(clv *float64) float64 {
	if clv == nil || math.IsNaN(*clv) {
		return 1
	}
	return math.Max(c.cfg.CLVMin, math.Min(c.cfg.CLVMax, 1+*clv))
}

// SharpeRatio is the expected profit of a unit bet over the standard deviation of
// its payoff, or 0 when that deviation is not positive.
func SharpeRatio(p, price float64) float64 {
	b := price - 1
	variance := p*b*b + (1 - p)
	if variance <= 0 || math.IsNaN(variance) {
		return 0
	}
	return (p*price - 1) / math.Sqrt(variance)
}
