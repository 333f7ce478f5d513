package metrics

import "github.com/prometheus/client_golang/prometheus"

// Simulation counter vectors
var (
	SimulationRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "simulation_runs_total",
		Help:      "Total number of Monte Carlo staking simulations by status",
	}, []string{"status"})
)

// Simulation histograms
var (
	SimulatedRuinProbability = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "simulated_ruin_probability",
		Help:      "Empirical drawdown-breach probability observed by simulations",
		Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.2, 0.3, 0.5, 0.75, 1.0},
	})
)

// RecordSimulationRun records a simulation run.
// status should be one of: "success", "cancelled", "failure"
func RecordSimulationRun(status string) {
	SimulationRunsTotal.WithLabelValues(status).Inc()
}

// RecordSimulatedRuin records the drawdown probability estimated by a simulation.
func RecordSimulatedRuin(probability float64) {
	SimulatedRuinProbability.Observe(probability)
}
