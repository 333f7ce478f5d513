package staking

import (
	"math"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/value-radar/internal/config"
	"github.com/yourusername/value-radar/internal/models"
)

func newTestOptimizer() *Optimizer {
	return NewOptimizer(config.DefaultEngine().Staking, nil)
}

func gradeAEdge(raw float64) models.EdgeAnalysis {
	return models.EdgeAnalysis{
		RawEdge:          raw,
		RiskAdjustedEdge: 0.06,
		EVPerUnitStake:   0.06,
		ConfidenceGrade:  models.GradeA,
	}
}

func TestOptimizeHalfKellyModerate(t *testing.T) {
	rec, err := newTestOptimizer().Optimize(Input{
		Price:     1.95,
		Posterior: models.PosteriorEstimate{Mean: 0.55, Variance: 0.0005},
		Edge:      gradeAEdge(0.0725),
		Bankroll:  decimal.NewFromInt(1000),
		Tolerance: models.RiskModerate,
	})
	require.NoError(t, err)

	fullKelly := (0.55*0.95 - 0.45) / 0.95
	assert.InDelta(t, fullKelly, rec.FullKellyFraction, 1e-12)
	assert.Equal(t, 0.5, rec.ConfidenceMultiplier)
	assert.Equal(t, 1.0, rec.RiskMultiplier)
	assert.InDelta(t, fullKelly*0.5, rec.Fraction, 1e-12)
	assert.InDelta(t, 1000*fullKelly*0.5, rec.StakeAmount.InexactFloat64(), 1e-6)
	assert.InDelta(t, 0.06*1000*fullKelly*0.5, rec.ExpectedValue, 1e-6)

	f := fullKelly * 0.5
	growth := 0.55*math.Log(1+f*0.95) + 0.45*math.Log(1-f)
	assert.InDelta(t, growth, rec.GeometricGrowthRate, 1e-12)
	assert.InDelta(t, math.Ln2/growth, rec.ExpectedDoublingPeriods, 1e-6)
	assert.InDelta(t, 0.001, rec.RiskOfRuin, 1e-12)
	assert.Equal(t, []string{"Excellent quality bet (A-grade) → Half Kelly"}, rec.Rationale)
	assert.True(t, rec.IsBet())
}

func TestOptimizeRiskTolerance(t *testing.T) {
	o := newTestOptimizer()
	base := Input{
		Price:     1.95,
		Posterior: models.PosteriorEstimate{Mean: 0.55, Variance: 0.0005},
		Edge:      gradeAEdge(0.0725),
		Bankroll:  decimal.NewFromInt(1000),
	}
	fullKelly := (0.55*0.95 - 0.45) / 0.95

	tests := []struct {
		tolerance models.RiskTolerance
		mult      float64
		rationale []string
	}{
		{models.RiskConservative, 0.5, []string{"Excellent quality bet (A-grade) → Half Kelly", "Conservative risk (0.5x)"}},
		{models.RiskModerate, 1.0, []string{"Excellent quality bet (A-grade) → Half Kelly"}},
		{models.RiskAggressive, 1.5, []string{"Excellent quality bet (A-grade) → Half Kelly", "Aggressive risk (1.5x)"}},
		{"AGGRESSIVE", 1.5, []string{"Excellent quality bet (A-grade) → Half Kelly", "Aggressive risk (1.5x)"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.tolerance), func(t *testing.T) {
			in := base
			in.Tolerance = tt.tolerance
			rec, err := o.Optimize(in)
			require.NoError(t, err)
			assert.Equal(t, tt.mult, rec.RiskMultiplier)
			assert.InDelta(t, fullKelly*0.5*tt.mult, rec.Fraction, 1e-12)
			assert.Equal(t, tt.rationale, rec.Rationale)
		})
	}
}

func TestOptimizeCapsFraction(t *testing.T) {
	rec, err := newTestOptimizer().Optimize(Input{
		Price:     3.0,
		Posterior: models.PosteriorEstimate{Mean: 0.6, Variance: 0.001},
		Edge:      gradeAEdge(0.8),
		Bankroll:  decimal.NewFromInt(500),
		Tolerance: models.RiskAggressive,
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.4, rec.FullKellyFraction, 1e-12)
	assert.Equal(t, 0.10, rec.Fraction)
	assert.True(t, rec.StakeAmount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "Capped at 10% of bankroll (safety)", rec.Rationale[len(rec.Rationale)-1])
}

func TestOptimizeClampsFullKelly(t *testing.T) {
	rec, err := newTestOptimizer().Optimize(Input{
		Price:     5.0,
		Posterior: models.PosteriorEstimate{Mean: 0.7, Variance: 0.001},
		Edge:      gradeAEdge(2.5),
		Bankroll:  decimal.NewFromInt(100),
		Tolerance: models.RiskModerate,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.5, rec.FullKellyFraction)
	assert.Contains(t, rec.Rationale, "Full Kelly clamped to 50% of bankroll")
}

func TestOptimizeHardCapsIgnoreLooseConfig(t *testing.T) {
	cfg := config.DefaultEngine().Staking
	cfg.MaxFraction = 0.5
	cfg.MaxFullKelly = 1
	o := NewOptimizer(cfg, nil)

	rec, err := o.Optimize(Input{
		Price:     3.0,
		Posterior: models.PosteriorEstimate{Mean: 0.6, Variance: 0.001},
		Edge:      gradeAEdge(0.8),
		Bankroll:  decimal.NewFromInt(500),
		Tolerance: models.RiskAggressive,
	})
	require.NoError(t, err)

	assert.LessOrEqual(t, rec.FullKellyFraction, 0.5)
	assert.LessOrEqual(t, rec.Fraction, 0.10)
	assert.True(t, rec.StakeAmount.LessThanOrEqual(decimal.NewFromInt(50)))

	rec, err = o.Optimize(Input{
		Price:     5.0,
		Posterior: models.PosteriorEstimate{Mean: 0.7, Variance: 0.001},
		Edge:      gradeAEdge(2.5),
		Bankroll:  decimal.NewFromInt(100),
		Tolerance: models.RiskModerate,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.5, rec.FullKellyFraction)
	assert.Equal(t, 0.10, rec.Fraction)
}

func TestOptimizeGradeDNeverStakes(t *testing.T) {
	rec, err := newTestOptimizer().Optimize(Input{
		Price:     3.0,
		Posterior: models.PosteriorEstimate{Mean: 0.6, Variance: 0.05},
		Edge:      models.EdgeAnalysis{RawEdge: 0.8, RiskAdjustedEdge: 0.5, ConfidenceGrade: models.GradeD},
		Bankroll:  decimal.NewFromInt(1000),
		Tolerance: models.RiskAggressive,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, rec.Fraction)
	assert.True(t, rec.StakeAmount.IsZero())
	assert.Equal(t, 0.0, rec.ConfidenceMultiplier)
	assert.Equal(t, 0.0, rec.GeometricGrowthRate)
	assert.True(t, math.IsInf(rec.ExpectedDoublingPeriods, 1))
	assert.Equal(t, []string{"Poor quality bet (D-grade) → No bet recommended"}, rec.Rationale)
	assert.False(t, rec.IsBet())
}

func TestOptimizeNegativeEdgeIsCertainRuin(t *testing.T) {
	rec, err := newTestOptimizer().Optimize(Input{
		Price:     1.90,
		Posterior: models.PosteriorEstimate{Mean: 0.5, Variance: 0.001},
		Edge:      models.EdgeAnalysis{RawEdge: -0.05, RiskAdjustedEdge: -0.08, ConfidenceGrade: models.GradeA},
		Bankroll:  decimal.NewFromInt(1000),
		Tolerance: models.RiskModerate,
	})
	require.NoError(t, err)

	assert.Equal(t, 1.0, rec.RiskOfRuin)
	assert.Equal(t, 0.0, rec.FullKellyFraction)
	assert.Equal(t, 0.0, rec.Fraction)
}

func TestOptimizeRejectsBadInput(t *testing.T) {
	o := newTestOptimizer()
	valid := Input{
		Price:     2.0,
		Posterior: models.PosteriorEstimate{Mean: 0.55},
		Edge:      gradeAEdge(0.1),
		Bankroll:  decimal.NewFromInt(100),
		Tolerance: models.RiskModerate,
	}

	tests := []struct {
		name    string
		mutate  func(*Input)
		wantErr error
	}{
		{"zero bankroll", func(in *Input) { in.Bankroll = decimal.Zero }, models.ErrInvalidBankroll},
		{"negative bankroll", func(in *Input) { in.Bankroll = decimal.NewFromInt(-5) }, models.ErrInvalidBankroll},
		{"price of one", func(in *Input) { in.Price = 1.0 }, models.ErrInvalidPrice},
		{"unknown tolerance", func(in *Input) { in.Tolerance = "yolo" }, models.ErrInvalidRiskTolerance},
		{"probability above one", func(in *Input) { in.Posterior.Mean = 1.1 }, models.ErrInvalidProbability},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := o.Optimize(in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOptimizeBoundsHoldForRandomInputs(t *testing.T) {
	o := newTestOptimizer()
	rng := rand.New(rand.NewSource(11))
	grades := []models.Grade{models.GradeA, models.GradeB, models.GradeC, models.GradeD}
	tolerances := []models.RiskTolerance{models.RiskConservative, models.RiskModerate, models.RiskAggressive}

	for i := 0; i < 1000; i++ {
		price := 1.01 + rng.Float64()*40
		p := rng.Float64()
		raw := p*price - 1
		edge := models.EdgeAnalysis{
			RawEdge:          raw,
			RiskAdjustedEdge: raw * rng.Float64(),
			EVPerUnitStake:   raw,
			ConfidenceGrade:  grades[rng.Intn(len(grades))],
		}

		rec, err := o.Optimize(Input{
			Price:     price,
			Posterior: models.PosteriorEstimate{Mean: p, Variance: rng.Float64() * 0.01},
			Edge:      edge,
			Bankroll:  decimal.NewFromFloat(1 + rng.Float64()*10000),
			Tolerance: tolerances[rng.Intn(len(tolerances))],
		})
		require.NoError(t, err)

		assert.GreaterOrEqual(t, rec.Fraction, 0.0)
		assert.LessOrEqual(t, rec.Fraction, 0.10)
		assert.GreaterOrEqual(t, rec.FullKellyFraction, 0.0)
		assert.LessOrEqual(t, rec.FullKellyFraction, 0.5)
		assert.GreaterOrEqual(t, rec.RiskOfRuin, 0.0)
		assert.LessOrEqual(t, rec.RiskOfRuin, 1.0)
		assert.False(t, rec.StakeAmount.IsNegative())
		assert.GreaterOrEqual(t, rec.ExpectedDoublingPeriods, 0.0)
		if edge.QualityGrade() == models.GradeD {
			assert.Equal(t, 0.0, rec.Fraction)
		}
		if raw <= 0 {
			assert.Equal(t, 1.0, rec.RiskOfRuin)
		}
	}
}

func TestRiskOfRuin(t *testing.T) {
	o := newTestOptimizer()

	tests := []struct {
		name     string
		f        float64
		edge     float64
		variance float64
		want     float64
	}{
		{"negative edge", 0.05, -0.01, 0.01, 1.0},
		{"zero edge", 0.05, 0, 0.01, 1.0},
		{"under optimal", 0.05, 0.1, 1.0, 0.05 * 0.5},
		{"at optimal", 0.1, 0.1, 1.0, 0.05},
		{"double optimal", 0.2, 0.1, 1.0, 0.05 * 4},
		{"massive over-bet saturates", 1.0, 0.1, 1.0, 1.0},
		{"floor", 0.0001, 0.1, 0.001, 0.001},
		{"zero variance", 0.05, 0.1, 0, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, o.RiskOfRuin(tt.f, tt.edge, tt.variance), 1e-12)
		})
	}
}

func TestGrowthAndDoubling(t *testing.T) {
	assert.Equal(t, 0.0, GrowthRate(0.6, 1.0, 1.0))
	assert.Equal(t, 0.0, GrowthRate(0.6, 1.0, 0))
	assert.Less(t, GrowthRate(0.4, 1.0, 0.1), 0.0)
	assert.True(t, math.IsInf(DoublingPeriods(0), 1))
	assert.True(t, math.IsInf(DoublingPeriods(-0.01), 1))
	assert.InDelta(t, math.Ln2/0.01, DoublingPeriods(0.01), 1e-9)
}
