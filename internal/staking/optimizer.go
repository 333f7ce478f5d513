// Package staking sizes bets as a bounded fraction of bankroll.
package staking

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-radar/internal/config"
	"github.com/yourusername/value-radar/internal/logger"
	"github.com/yourusername/value-radar/internal/metrics"
	"github.com/yourusername/value-radar/internal/models"
)

// Input describes one bet to size.
type Input struct {
	Price     float64
	Posterior models.PosteriorEstimate
	Edge      models.EdgeAnalysis
	Bankroll  decimal.Decimal
	Tolerance models.RiskTolerance
}

// Optimizer converts an edge analysis into a fractional-Kelly stake.
type Optimizer struct {
	cfg config.StakingConfig
	log *logger.EngineLogger
}

// NewOptimizer creates an optimizer with the given caps and multipliers.
// Caps may be tightened but never loosened past 50% full Kelly and 10% of bankroll.
func NewOptimizer(cfg config.StakingConfig, log *logrus.Logger) *Optimizer {
	defaults := config.DefaultEngine().Staking
	if cfg.MaxFullKelly <= 0 {
		cfg.MaxFullKelly = defaults.MaxFullKelly
	}
	if cfg.MaxFraction <= 0 {
		cfg.MaxFraction = defaults.MaxFraction
	}
	cfg.MaxFullKelly = math.Min(cfg.MaxFullKelly, config.DefaultMaxFullKelly)
	cfg.MaxFraction = math.Min(cfg.MaxFraction, config.DefaultMaxFraction)
	if len(cfg.GradeMultipliers) == 0 {
		cfg.GradeMultipliers = defaults.GradeMultipliers
	}
	if len(cfg.RiskMultipliers) == 0 {
		cfg.RiskMultipliers = defaults.RiskMultipliers
	}
	return &Optimizer{cfg: cfg, log: logger.NewEngineLogger(log)}
}

// Optimize returns the recommended stake. A D quality grade always yields a zero stake.
func (o *Optimizer) Optimize(in Input) (models.StakeRecommendation, error) {
	start := time.Now()
	defer func() { metrics.RecordEvaluation("staking", time.Since(start).Seconds()) }()

	if !models.ValidPrice(in.Price) {
		return models.StakeRecommendation{}, fmt.Errorf("price %v: %w", in.Price, models.ErrInvalidPrice)
	}
	if !in.Bankroll.IsPositive() {
		return models.StakeRecommendation{}, fmt.Errorf("bankroll %s: %w", in.Bankroll, models.ErrInvalidBankroll)
	}
	tolerance, err := models.ParseRiskTolerance(string(in.Tolerance))
	if err != nil {
		return models.StakeRecommendation{}, err
	}
	p := in.Posterior.Mean
	if math.IsNaN(p) || p < 0 || p > 1 {
		return models.StakeRecommendation{}, fmt.Errorf("posterior mean %v: %w", p, models.ErrInvalidProbability)
	}

	b := in.Price - 1
	q := 1 - p
	grade := in.Edge.QualityGrade()

	rawKelly := (p*b - q) / b
	fullKelly := math.Max(0, math.Min(rawKelly, o.cfg.MaxFullKelly))

	confidenceMult := o.cfg.GradeMultiplier(string(grade))
	if grade == models.GradeD {
		confidenceMult = 0
	}
	riskMult := o.cfg.RiskMultiplier(string(tolerance))

	uncapped := fullKelly * confidenceMult * riskMult
	fraction := math.Min(uncapped, o.cfg.MaxFraction)

	stake := in.Bankroll.Mul(decimal.NewFromFloat(fraction))
	growth := GrowthRate(p, b, fraction)

	rec := models.StakeRecommendation{
		StakeAmount:             stake,
		Fraction:                fraction,
		FullKellyFraction:       fullKelly,
		ConfidenceMultiplier:    confidenceMult,
		RiskMultiplier:          riskMult,
		ExpectedValue:           in.Edge.EVPerUnitStake * stake.InexactFloat64(),
		GeometricGrowthRate:     growth,
		RiskOfRuin:              o.RiskOfRuin(fraction, in.Edge.RawEdge, in.Posterior.Variance),
		ExpectedDoublingPeriods: DoublingPeriods(growth),
		Rationale:               o.rationale(grade, tolerance, rawKelly, uncapped),
	}

	metrics.RecordStakeFraction(fraction)
	o.log.LogStakeDecision(grade, tolerance, rec)
	return rec, nil
}

// GrowthRate is the expected log growth per bet when staking fraction f at net odds b.
// Fractions of 1 or more are defined as zero growth.
func GrowthRate(p, b, f float64) float64 {
	if f >= 1 || f < 0 {
		return 0
	}
	return p*math.Log(1+f*b) + (1-p)*math.Log(1-f)
}

// DoublingPeriods is the number of bets needed to double bankroll at growth rate g,
// or +Inf when g is not positive.
func DoublingPeriods(g float64) float64 {
	if g <= 0 || math.IsNaN(g) {
		return math.Inf(1)
	}
	return math.Ln2 / g
}

// RiskOfRuin is a heuristic drawdown risk: the ratio of f to the edge/variance
// optimum scales a base risk quadratically when over-betting and linearly otherwise.
// A non-positive edge is certain ruin under repeated sizing.
func (o *Optimizer) RiskOfRuin(f, rawEdge, variance float64) float64 {
	if rawEdge <= 0 || math.IsNaN(rawEdge) {
		return 1
	}

	var kellyOptimal float64
	if variance > 0 {
		kellyOptimal = rawEdge / variance
	}

	var risk float64
	if kellyOptimal > 0 && f > kellyOptimal {
		ratio := f / kellyOptimal
		risk = math.Min(1, o.cfg.RuinBaseRisk*ratio*ratio)
	} else {
		var ratio float64
		if kellyOptimal > 0 {
			ratio = f / kellyOptimal
		}
		risk = math.Max(o.cfg.RuinFloor, o.cfg.RuinBaseRisk*ratio)
	}
	return math.Max(0, math.Min(1, risk))
}

func (o *Optimizer) rationale(grade models.Grade, tolerance models.RiskTolerance, rawKelly, uncapped float64) []string {
	var out []string
	switch grade {
	case models.GradeA:
		out = append(out, "Excellent quality bet (A-grade) → Half Kelly")
	case models.GradeB:
		out = append(out, "Good quality bet (B-grade) → Quarter Kelly")
	case models.GradeC:
		out = append(out, "Fair quality bet (C-grade) → Tenth Kelly")
	default:
		return append(out, "Poor quality bet (D-grade) → No bet recommended")
	}

	switch tolerance {
	case models.RiskConservative:
		out = append(out, fmt.Sprintf("Conservative risk (%gx)", o.cfg.RiskMultiplier(string(tolerance))))
	case models.RiskAggressive:
		out = append(out, fmt.Sprintf("Aggressive risk (%gx)", o.cfg.RiskMultiplier(string(tolerance))))
	}

	if rawKelly > o.cfg.MaxFullKelly {
		out = append(out, fmt.Sprintf("Full Kelly clamped to %g%% of bankroll", o.cfg.MaxFullKelly*100))
	}
	if uncapped > o.cfg.MaxFraction {
		out = append(out, fmt.Sprintf("Capped at %g%% of bankroll (safety)", o.cfg.MaxFraction*100))
	}
	return out
}
