package staking

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/value-radar/internal/models"
)

func TestSimulateZeroFractionIsFlat(t *testing.T) {
	res, err := Simulate(context.Background(), SimulationConfig{
		Price:       2.0,
		Probability: 0.6,
		Fraction:    0,
		Bets:        50,
		Iterations:  20,
		Seed:        1,
	})
	require.NoError(t, err)

	assert.Equal(t, 1.0, res.MeanFinalBankroll)
	assert.Equal(t, 0.0, res.StdFinalBankroll)
	assert.Equal(t, 1.0, res.MedianFinalBankroll)
	assert.Equal(t, 0.0, res.ProbabilityOfProfit)
	assert.Equal(t, 0.0, res.ProbabilityOfDrawdown)
	assert.Equal(t, 0.0, res.TheoreticalGrowth)
	assert.Equal(t, 0.0, res.ConfidenceIntervals["95%"])
}

func TestSimulateIsDeterministicForSeed(t *testing.T) {
	cfg := SimulationConfig{Price: 2.1, Probability: 0.52, Fraction: 0.05, Bets: 100, Iterations: 200, Seed: 42}

	first, err := Simulate(context.Background(), cfg)
	require.NoError(t, err)
	second, err := Simulate(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSimulateTracksTheoreticalGrowth(t *testing.T) {
	res, err := Simulate(context.Background(), SimulationConfig{
		Price:       2.0,
		Probability: 0.6,
		Fraction:    0.2,
		Bets:        500,
		Iterations:  500,
		Seed:        7,
	})
	require.NoError(t, err)

	want := 0.6*math.Log(1.2) + 0.4*math.Log(0.8)
	assert.InDelta(t, want, res.TheoreticalGrowth, 1e-12)
	assert.InDelta(t, want, res.MedianGrowthPerBet, 0.005)
	assert.Greater(t, res.ProbabilityOfProfit, 0.9)
	assert.Greater(t, res.ConfidenceIntervals["99%"], res.ConfidenceIntervals["90%"])
}

func TestSimulateDefaultsAndValidation(t *testing.T) {
	res, err := Simulate(context.Background(), SimulationConfig{Price: 2.0, Probability: 0.5, Fraction: 0.01, Seed: 3})
	require.NoError(t, err)
	assert.Equal(t, 1000, res.Iterations)
	assert.Equal(t, 500, res.Bets)

	_, err = Simulate(context.Background(), SimulationConfig{Price: 1.0, Probability: 0.5})
	assert.ErrorIs(t, err, models.ErrInvalidPrice)

	_, err = Simulate(context.Background(), SimulationConfig{Price: 2.0, Probability: -0.1})
	assert.ErrorIs(t, err, models.ErrInvalidProbability)

	_, err = Simulate(context.Background(), SimulationConfig{Price: 2.0, Probability: 0.5, Fraction: 1})
	assert.Error(t, err)
}

func TestSimulateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Simulate(ctx, SimulationConfig{Price: 2.0, Probability: 0.55, Fraction: 0.05, Seed: 9})
	assert.ErrorIs(t, err, context.Canceled)
}
