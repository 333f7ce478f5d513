package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-radar/internal/models"
)

// EngineLogger provides dedicated logging for the probability, edge and staking components.
type EngineLogger struct {
	*logrus.Entry
}

// NewEngineLogger creates a new engine logger. A nil base logger discards output.
func NewEngineLogger(baseLogger *logrus.Logger) *EngineLogger {
	return &EngineLogger{
		Entry: OrDiscard(baseLogger).WithField("component", "engine"),
	}
}

// LogDevigFallback logs a power-method solve that fell back to proportional normalisation.
func (el *EngineLogger) LogDevigFallback(prices []float64, iterations int, reason string) {
	el.WithFields(logrus.Fields{
		"prices":     prices,
		"iterations": iterations,
		"reason":     reason,
	}).Warn("Power devig did not converge, using proportional normalisation")
}

// LogPriorFallback logs substitution of the uninformed prior.
func (el *EngineLogger) LogPriorFallback(key models.MatchKey, outcome, reason string, err error) {
	entry := el.WithFields(logrus.Fields{
		"sport":     key.Sport,
		"home_side": key.HomeSide,
		"away_side": key.AwaySide,
		"outcome":   outcome,
		"reason":    reason,
	})
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Debug("Using uninformed prior")
}

// LogPosterior logs a computed posterior for one outcome.
func (el *EngineLogger) LogPosterior(outcome string, quotes int, p models.PosteriorEstimate) {
	el.WithFields(logrus.Fields{
		"outcome":          outcome,
		"quotes":           quotes,
		"mean":             p.Mean,
		"ci_lower":         p.CredibleInterval.Lower,
		"ci_upper":         p.CredibleInterval.Upper,
		"effective_sample": p.EffectiveSampleSize,
		"confidence_grade": p.ConfidenceGrade(),
	}).Debug("Posterior computed")
}

// LogEdgeAnalysis logs the result of an edge calculation.
func (el *EngineLogger) LogEdgeAnalysis(price float64, e models.EdgeAnalysis) {
	el.WithFields(logrus.Fields{
		"price":              price,
		"raw_edge":           e.RawEdge,
		"risk_adjusted_edge": e.RiskAdjustedEdge,
		"sharpe_ratio":       e.SharpeRatio,
		"confidence_grade":   e.ConfidenceGrade,
		"quality_grade":      e.QualityGrade(),
	}).Debug("Edge analysed")
}

// LogStakeDecision logs a stake recommendation.
func (el *EngineLogger) LogStakeDecision(grade models.Grade, tolerance models.RiskTolerance, s models.StakeRecommendation) {
	el.WithFields(logrus.Fields{
		"quality_grade":  grade,
		"risk_tolerance": tolerance,
		"fraction":       s.Fraction,
		"full_kelly":     s.FullKellyFraction,
		"stake_amount":   s.StakeAmount.String(),
		"risk_of_ruin":   s.RiskOfRuin,
		"rationale":      s.RationaleText(),
	}).Debug("Stake sized")
}

// LogOutcomeSkipped logs an outcome that could not be evaluated.
func (el *EngineLogger) LogOutcomeSkipped(marketID, outcome string, err error) {
	el.WithFields(logrus.Fields{
		"market_id": marketID,
		"outcome":   outcome,
	}).WithError(err).Warn("Outcome skipped")
}
