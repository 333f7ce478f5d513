// Package metrics provides centralized Prometheus metrics registry for the valuation engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "value_radar"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	EvaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "evaluations_total",
		Help:      "Total number of engine evaluations by component",
	}, []string{"component"})
	DevigFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "devig_fallbacks_total",
		Help:      "Power devig solves that fell back to proportional normalisation",
	})
	PriorFallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prior_fallbacks_total",
		Help:      "Uninformed prior substitutions by reason",
	}, []string{"reason"})
	QualityGradesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quality_grades_total",
		Help:      "Edge analyses by resulting quality grade",
	}, []string{"grade"})
	OutcomesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "outcomes_skipped_total",
		Help:      "Outcomes the valuation pipeline could not evaluate, by reason",
	}, []string{"reason"})
	ValueBetsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "value_bets_total",
		Help:      "Value bets recommended by sport",
	}, []string{"sport"})
)

// Gauge metrics
var (
	PriorCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "prior_cache_hit_ratio",
		Help:      "Hit ratio of the historical prior cache",
	})
)

// Histogram metrics
var (
	StakeFraction = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stake_fraction",
		Help:      "Recommended bankroll fraction per stake decision",
		Buckets:   []float64{0, 0.005, 0.01, 0.02, 0.03, 0.05, 0.075, 0.1},
	})
	EvaluationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of engine evaluations in seconds",
		Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	}, []string{"component"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(EvaluationsTotal)
		registry.MustRegister(DevigFallbacksTotal)
		registry.MustRegister(PriorFallbacksTotal)
		registry.MustRegister(QualityGradesTotal)
		registry.MustRegister(OutcomesSkippedTotal)
		registry.MustRegister(ValueBetsTotal)

		registry.MustRegister(PriorCacheHitRatio)

		registry.MustRegister(StakeFraction)
		registry.MustRegister(EvaluationDuration)

		registry.MustRegister(SimulationRunsTotal)
		registry.MustRegister(SimulatedRuinProbability)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordEvaluation records one evaluation of an engine component.
// component should be one of: "devig", "bayesian", "edge", "staking", "market"
func RecordEvaluation(component string, durationSeconds float64) {
	EvaluationsTotal.WithLabelValues(component).Inc()
	EvaluationDuration.WithLabelValues(component).Observe(durationSeconds)
}

// RecordDevigFallback records a proportional-normalisation fallback.
func RecordDevigFallback() {
	DevigFallbacksTotal.Inc()
}

// RecordPriorFallback records an uninformed prior substitution.
func RecordPriorFallback(reason string) {
	PriorFallbacksTotal.WithLabelValues(reason).Inc()
}

// RecordQualityGrade records the quality grade of an edge analysis.
func RecordQualityGrade(grade string) {
	QualityGradesTotal.WithLabelValues(grade).Inc()
}

// RecordStakeFraction records a recommended bankroll fraction.
func RecordStakeFraction(fraction float64) {
	StakeFraction.Observe(fraction)
}

// RecordOutcomeSkipped records an outcome the pipeline dropped.
func RecordOutcomeSkipped(reason string) {
	OutcomesSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordValueBet records a recommendation for a sport.
func RecordValueBet(sport string) {
	ValueBetsTotal.WithLabelValues(sport).Inc()
}

// UpdatePriorCacheHitRatio updates the prior cache hit ratio gauge.
func UpdatePriorCacheHitRatio(ratio float64) {
	PriorCacheHitRatio.Set(ratio)
}
