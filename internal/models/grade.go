package models

// Grade is a letter rating from A (best) to D (worst).
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// Credible-interval width thresholds for confidence grading.
const (
	ConfidenceWidthA = 0.10
	ConfidenceWidthB = 0.20
	ConfidenceWidthC = 0.30
)

// GradeForIntervalWidth grades a posterior by the width of its credible interval.
func GradeForIntervalWidth(width float64) Grade {
	switch {
	case width < ConfidenceWidthA:
		return GradeA
	case width < ConfidenceWidthB:
		return GradeB
	case width < ConfidenceWidthC:
		return GradeC
	default:
		return GradeD
	}
}

// Valid reports whether g is one of the four known grades.
func (g Grade) Valid() bool {
	switch g {
	case GradeA, GradeB, GradeC, GradeD:
		return true
	}
	return false
}
