package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/value-radar/internal/models"
)

// AuditLogger records every recommendation the valuation pipeline emits.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: OrDiscard(baseLogger).WithField("component", "audit"),
	}
}

// LogRecommendation logs a value bet with the figures that justified it.
func (al *AuditLogger) LogRecommendation(bet models.ValueBet) {
	al.WithFields(logrus.Fields{
		"value_bet_id":       bet.ID,
		"market_id":          bet.MarketID,
		"sport":              bet.Sport,
		"outcome":            bet.Outcome,
		"quoter_id":          bet.QuoterID,
		"price":              bet.DecimalPrice,
		"true_probability":   bet.TrueProbability,
		"risk_adjusted_edge": bet.Edge.RiskAdjustedEdge,
		"quality_grade":      bet.QualityGrade,
		"fraction":           bet.Stake.Fraction,
		"stake_amount":       bet.Stake.StakeAmount.String(),
		"steam":              bet.Steam,
		"evaluated_at":       bet.EvaluatedAt.Unix(),
	}).Info("Value bet recommended")
}

// LogBatchSummary logs the outcome of a multi-market evaluation.
func (al *AuditLogger) LogBatchSummary(markets, recommendations, skipped int, durationMs float64) {
	al.WithFields(logrus.Fields{
		"markets":         markets,
		"recommendations": recommendations,
		"skipped":         skipped,
		"duration_ms":     durationMs,
	}).Info("Market batch evaluated")
}
