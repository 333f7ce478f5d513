package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// RiskTolerance scales the graded Kelly fraction up or down.
type RiskTolerance string

const (
	RiskConservative RiskTolerance = "conservative"
	RiskModerate     RiskTolerance = "moderate"
	RiskAggressive   RiskTolerance = "aggressive"
)

// ParseRiskTolerance accepts the three tolerance names case-insensitively.
func ParseRiskTolerance(s string) (RiskTolerance, error) {
	switch RiskTolerance(strings.ToLower(strings.TrimSpace(s))) {
	case RiskConservative:
		return RiskConservative, nil
	case RiskModerate:
		return RiskModerate, nil
	case RiskAggressive:
		return RiskAggressive, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRiskTolerance, s)
}

// StakeRecommendation is the bankroll commitment derived from an EdgeAnalysis.
type StakeRecommendation struct {
	StakeAmount             decimal.Decimal `json:"stake_amount"`
	Fraction                float64         `json:"fraction"`
	FullKellyFraction       float64         `json:"full_kelly_fraction"`
	ConfidenceMultiplier    float64         `json:"confidence_multiplier"`
	RiskMultiplier          float64         `json:"risk_multiplier"`
	ExpectedValue           float64         `json:"expected_value"`
	GeometricGrowthRate     float64         `json:"geometric_growth_rate"`
	RiskOfRuin              float64         `json:"risk_of_ruin"`
	ExpectedDoublingPeriods float64         `json:"expected_doubling_periods"`
	Rationale               []string        `json:"rationale"`
}

// IsBet reports whether any money should be committed.
func (s StakeRecommendation) IsBet() bool {
	return s.Fraction > 0 && s.StakeAmount.IsPositive()
}

// RationaleText joins the rationale in the order the adjustments were applied.
func (s StakeRecommendation) RationaleText() string {
	return strings.Join(s.Rationale, " | ")
}

// MarshalJSON writes an infinite doubling period as null since JSON has no infinity.
func (s StakeRecommendation) MarshalJSON() ([]byte, error) {
	type alias StakeRecommendation
	out := struct {
		alias
		ExpectedDoublingPeriods *float64 `json:"expected_doubling_periods"`
	}{alias: alias(s)}
	if !math.IsInf(s.ExpectedDoublingPeriods, 0) && !math.IsNaN(s.ExpectedDoublingPeriods) {
		v := s.ExpectedDoublingPeriods
		out.ExpectedDoublingPeriods = &v
	}
	return json.Marshal(out)
}
