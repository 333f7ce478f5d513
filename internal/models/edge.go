package models

// Names of the entries in EdgeAnalysis.Components.
const (
	ComponentMathematics = "mathematics"
	ComponentUncertainty = "uncertainty"
	ComponentLiquidity   = "liquidity"
	ComponentReliability = "reliability"
	ComponentCLV         = "clv"
)

// Risk-adjusted edge thresholds used by QualityGrade.
const (
	QualityEdgeHigh     = 0.05
	QualityEdgeModerate = 0.03
	QualityEdgeLow      = 0.01
)

// EdgeAnalysis is the risk-adjusted profitability of one quoted price.
type EdgeAnalysis struct {
	RawEdge            float64            `json:"raw_edge"`
	RiskAdjustedEdge   float64            `json:"risk_adjusted_edge"`
	EVPerUnitStake     float64            `json:"ev_per_unit_stake"`
	SharpeRatio        float64            `json:"sharpe_ratio"`
	UncertaintyPenalty float64            `json:"uncertainty_penalty"`
	LiquidityFactor    float64            `json:"liquidity_factor"`
	FillProbability    float64            `json:"fill_probability"`
	ConfidenceGrade    Grade              `json:"confidence_grade"`
	Components         map[string]float64 `json:"components"`
}

// QualityGrade combines risk-adjusted edge with the confidence grade. A D confidence
// caps the result at D regardless of edge.
func (e EdgeAnalysis) QualityGrade() Grade {
	if e.ConfidenceGrade == GradeD || !e.ConfidenceGrade.Valid() {
		return GradeD
	}
	confident := e.ConfidenceGrade == GradeA || e.ConfidenceGrade == GradeB

	switch {
	case e.RiskAdjustedEdge > QualityEdgeHigh:
		if confident {
			return GradeA
		}
		return GradeB
	case e.RiskAdjustedEdge > QualityEdgeModerate:
		if e.ConfidenceGrade == GradeA {
			return GradeB
		}
		return GradeC
	case e.RiskAdjustedEdge > QualityEdgeLow:
		return GradeC
	default:
		return GradeD
	}
}
