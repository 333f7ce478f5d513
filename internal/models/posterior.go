package models

import "math"

// CredibleInterval is a Bayesian interval over a probability.
type CredibleInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Width returns Upper - Lower.
func (ci CredibleInterval) Width() float64 {
	return ci.Upper - ci.Lower
}

// Contains reports whether p lies inside the closed interval.
func (ci CredibleInterval) Contains(p float64) bool {
	return ci.Lower <= p && p <= ci.Upper
}

// PosteriorEstimate is the Beta posterior for one outcome. Values are computed fresh
// for every request; derived ratings are methods, never stored fields.
type PosteriorEstimate struct {
	Mean                float64          `json:"mean"`
	Variance            float64          `json:"variance"`
	CredibleInterval    CredibleInterval `json:"credible_interval"`
	Alpha               float64          `json:"alpha"`
	Beta                float64          `json:"beta"`
	EffectiveSampleSize float64          `json:"effective_sample_size"`
}

// StdError returns the posterior standard deviation.
func (p PosteriorEstimate) StdError() float64 {
	if p.Variance <= 0 || math.IsNaN(p.Variance) {
		return 0
	}
	return math.Sqrt(p.Variance)
}

// ConfidenceGrade rates the estimate by credible-interval width.
func (p PosteriorEstimate) ConfidenceGrade() Grade {
	return GradeForIntervalWidth(p.CredibleInterval.Width())
}

// Rescale returns a copy with the mean divided by total and the variance by total².
// The interval and shape parameters stay as computed, except that a bound is
// stretched to the rescaled mean if the mean would otherwise fall outside it.
func (p PosteriorEstimate) Rescale(total float64) PosteriorEstimate {
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return p
	}
	out := p
	out.Mean = p.Mean / total
	out.Variance = p.Variance / (total * total)
	out.CredibleInterval.Lower = math.Min(out.CredibleInterval.Lower, out.Mean)
	out.CredibleInterval.Upper = math.Max(out.CredibleInterval.Upper, out.Mean)
	return out
}
