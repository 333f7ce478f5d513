package probability

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/value-radar/internal/config"
	"github.com/yourusername/value-radar/internal/models"
)

type mockPriorSource struct {
	mock.Mock
}

func (m *mockPriorSource) GetPrior(ctx context.Context, key models.MatchKey, outcome string) models.HistoricalPrior {
	args := m.Called(ctx, key, outcome)
	return args.Get(0).(models.HistoricalPrior)
}

var lakersCeltics = models.MatchKey{Sport: "basketball_nba", HomeSide: "Lakers", AwaySide: "Celtics"}

func lakersCelticsQuotes() map[string][]models.PriceQuote {
	return map[string][]models.PriceQuote{
		"Lakers": {
			{QuoterID: "pinnacle", DecimalPrice: 1.80, PrecisionWeight: 5.0},
			{QuoterID: "draftkings", DecimalPrice: 1.83, PrecisionWeight: 3.5},
			{QuoterID: "fanduel", DecimalPrice: 1.85, PrecisionWeight: 3.0},
		},
		"Celtics": {
			{QuoterID: "pinnacle", DecimalPrice: 2.05, PrecisionWeight: 5.0},
			{QuoterID: "draftkings", DecimalPrice: 2.00, PrecisionWeight: 3.5},
			{QuoterID: "fanduel", DecimalPrice: 1.98, PrecisionWeight: 3.0},
		},
	}
}

func newTestConsensus(priors PriorSource) *BayesianConsensus {
	return NewBayesianConsensus(config.DefaultEngine().Bayesian, priors, nil)
}

func TestPosteriorConjugateUpdate(t *testing.T) {
	bc := newTestConsensus(nil)

	post, err := bc.Posterior(models.UninformedPrior(), []models.PriceQuote{
		{QuoterID: "pinnacle", DecimalPrice: 2.0, PrecisionWeight: 1.0},
	})
	require.NoError(t, err)

	// Beta(1,1) plus 10 pseudo-observations at 0.5.
	assert.InDelta(t, 6.0, post.Alpha, 1e-12)
	assert.InDelta(t, 6.0, post.Beta, 1e-12)
	assert.InDelta(t, 0.5, post.Mean, 1e-12)
	assert.InDelta(t, 36.0/(144.0*13.0), post.Variance, 1e-12)
	assert.InDelta(t, 12.0, post.EffectiveSampleSize, 1e-12)
	assert.InDelta(t, 0.5, (post.CredibleInterval.Lower+post.CredibleInterval.Upper)/2, 1e-9)
}

func TestPosteriorSkipsInvalidQuotes(t *testing.T) {
	bc := newTestConsensus(nil)

	post, err := bc.Posterior(models.UninformedPrior(), []models.PriceQuote{
		{QuoterID: "broken", DecimalPrice: 0.9, PrecisionWeight: 5},
		{QuoterID: "negative", DecimalPrice: 2.0, PrecisionWeight: -1},
		{QuoterID: "pinnacle", DecimalPrice: 2.0, PrecisionWeight: 1},
	})
	require.NoError(t, err)
	assert.InDelta(t, 12.0, post.EffectiveSampleSize, 1e-12)

	_, err = bc.Posterior(models.UninformedPrior(), []models.PriceQuote{{DecimalPrice: 1.0, PrecisionWeight: 1}})
	assert.ErrorIs(t, err, models.ErrEmptyQuotes)
}

func TestPosteriorReplacesUnusablePrior(t *testing.T) {
	bc := newTestConsensus(nil)
	quotes := []models.PriceQuote{{QuoterID: "pinnacle", DecimalPrice: 2.0, PrecisionWeight: 1}}

	fromBad, err := bc.Posterior(models.HistoricalPrior{Alpha: 0, Beta: -3}, quotes)
	require.NoError(t, err)
	fromUniform, err := bc.Posterior(models.UninformedPrior(), quotes)
	require.NoError(t, err)

	assert.Equal(t, fromUniform, fromBad)
}

func TestPosteriorInvariantsHoldForRandomInputs(t *testing.T) {
	bc := newTestConsensus(nil)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 300; i++ {
		prior := models.PriorFromRecord(models.MatchupRecord{Total: int64(rng.Intn(200)), Wins: 0})
		if prior.TotalObservations > 0 {
			prior = models.PriorFromRecord(models.MatchupRecord{Total: prior.TotalObservations, Wins: rng.Int63n(prior.TotalObservations + 1)})
		}
		quotes := make([]models.PriceQuote, 1+rng.Intn(8))
		for j := range quotes {
			quotes[j] = models.PriceQuote{
				QuoterID:        "q",
				DecimalPrice:    1.01 + rng.Float64()*50,
				PrecisionWeight: rng.Float64() * 12,
			}
		}

		post, err := bc.Posterior(prior, quotes)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, post.Mean, 0.0)
		assert.LessOrEqual(t, post.Mean, 1.0)
		assert.GreaterOrEqual(t, post.Variance, 0.0)
		assert.GreaterOrEqual(t, post.CredibleInterval.Lower, 0.0)
		assert.LessOrEqual(t, post.CredibleInterval.Upper, 1.0)
		assert.True(t, post.CredibleInterval.Contains(post.Mean), "mean %v outside %+v", post.Mean, post.CredibleInterval)
		assert.Greater(t, post.Alpha, 0.0)
		assert.Greater(t, post.Beta, 0.0)
	}
}

func TestEstimateUsesPriorSource(t *testing.T) {
	priors := new(mockPriorSource)
	prior := models.PriorFromRecord(models.MatchupRecord{Total: 40, Wins: 30})
	priors.On("GetPrior", mock.Anything, lakersCeltics, "Lakers").Return(prior).Once()

	bc := newTestConsensus(priors)
	post, err := bc.Estimate(context.Background(), lakersCeltics, "Lakers", lakersCelticsQuotes()["Lakers"])
	require.NoError(t, err)

	uninformed, err := bc.Posterior(models.UninformedPrior(), lakersCelticsQuotes()["Lakers"])
	require.NoError(t, err)
	assert.Greater(t, post.Mean, uninformed.Mean)
	assert.InDelta(t, uninformed.Alpha+29.5, post.Alpha, 1e-9)
	priors.AssertExpectations(t)
}

func TestEstimateEmptyQuotesSkipsPriorLookup(t *testing.T) {
	priors := new(mockPriorSource)
	bc := newTestConsensus(priors)

	_, err := bc.Estimate(context.Background(), lakersCeltics, "Draw", nil)

	assert.ErrorIs(t, err, models.ErrEmptyQuotes)
	priors.AssertNotCalled(t, "GetPrior", mock.Anything, mock.Anything, mock.Anything)
}

func TestEstimatePosteriorsLakersCeltics(t *testing.T) {
	bc := newTestConsensus(UninformedPriors{})

	posteriors, skipped, err := bc.EstimatePosteriors(context.Background(), lakersCeltics, lakersCelticsQuotes())
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, posteriors, 2)

	lakers, celtics := posteriors["Lakers"], posteriors["Celtics"]
	assert.InDelta(t, 1.0, lakers.Mean+celtics.Mean, 1e-9)
	assert.Greater(t, lakers.Mean, celtics.Mean)
	assert.Contains(t, []models.Grade{models.GradeA, models.GradeB}, lakers.ConfidenceGrade())
	assert.Contains(t, []models.Grade{models.GradeA, models.GradeB}, celtics.ConfidenceGrade())
	assert.True(t, lakers.CredibleInterval.Contains(lakers.Mean))
	assert.True(t, celtics.CredibleInterval.Contains(celtics.Mean))
}

func TestEstimatePosteriorsStretchesIntervalToNormalisedMean(t *testing.T) {
	bc := newTestConsensus(UninformedPriors{})

	side := make([]models.PriceQuote, 10)
	for i := range side {
		side[i] = models.PriceQuote{QuoterID: "sharp", DecimalPrice: 1.6, PrecisionWeight: 5}
	}
	raw, err := bc.Posterior(models.UninformedPrior(), side)
	require.NoError(t, err)
	require.Greater(t, raw.CredibleInterval.Lower, 0.5)

	posteriors, _, err := bc.EstimatePosteriors(context.Background(), lakersCeltics, map[string][]models.PriceQuote{
		"Lakers":  side,
		"Celtics": side,
	})
	require.NoError(t, err)

	for name, post := range posteriors {
		assert.InDelta(t, 0.5, post.Mean, 1e-12, name)
		assert.Equal(t, post.Mean, post.CredibleInterval.Lower, name)
		assert.Equal(t, raw.CredibleInterval.Upper, post.CredibleInterval.Upper, name)
		assert.True(t, post.CredibleInterval.Contains(post.Mean), name)
		assert.Equal(t, raw.Alpha, post.Alpha, name)
	}
}

func TestEstimatePosteriorsSkipsUnquotedOutcome(t *testing.T) {
	quotes := lakersCelticsQuotes()
	quotes["Draw"] = []models.PriceQuote{{QuoterID: "x", DecimalPrice: 1.0}}

	posteriors, skipped, err := newTestConsensus(nil).EstimatePosteriors(context.Background(), lakersCeltics, quotes)
	require.NoError(t, err)

	assert.Len(t, posteriors, 2)
	require.Contains(t, skipped, "Draw")
	assert.ErrorIs(t, skipped["Draw"], models.ErrEmptyQuotes)
}

func TestEstimatePosteriorsNothingUsable(t *testing.T) {
	_, _, err := newTestConsensus(nil).EstimatePosteriors(context.Background(), lakersCeltics, map[string][]models.PriceQuote{
		"Lakers": nil,
	})
	assert.ErrorIs(t, err, models.ErrEmptyQuotes)
}

func TestEstimatePosteriorsHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := newTestConsensus(nil).EstimatePosteriors(ctx, lakersCeltics, lakersCelticsQuotes())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestBayesianEstimateMarket(t *testing.T) {
	var est Estimator = newTestConsensus(nil)

	out, err := est.EstimateMarket(context.Background(), lakersCeltics, lakersCelticsQuotes())
	require.NoError(t, err)

	lakers := out["Lakers"]
	assert.True(t, lakers.HasInterval)
	require.NotNil(t, lakers.Posterior)
	assert.Equal(t, lakers.Posterior.Mean, lakers.Probability)
	assert.LessOrEqual(t, lakers.Lower, lakers.Probability)
	assert.GreaterOrEqual(t, lakers.Upper, lakers.Probability)
	assert.InDelta(t, 1.0, out["Lakers"].Probability+out["Celtics"].Probability, 1e-9)
}

func TestNormalizePosteriors(t *testing.T) {
	raw := map[string]models.PosteriorEstimate{
		"home": {Mean: 0.55, Variance: 0.002, CredibleInterval: models.CredibleInterval{Lower: 0.46, Upper: 0.64}, Alpha: 64, Beta: 53},
		"away": {Mean: 0.50, Variance: 0.002, CredibleInterval: models.CredibleInterval{Lower: 0.41, Upper: 0.59}, Alpha: 58, Beta: 59},
	}

	out, err := NormalizePosteriors(raw)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, out["home"].Mean+out["away"].Mean, 1e-12)
	assert.InDelta(t, 0.55/1.05, out["home"].Mean, 1e-12)
	assert.InDelta(t, 0.002/(1.05*1.05), out["home"].Variance, 1e-15)
	assert.Equal(t, raw["home"].CredibleInterval, out["home"].CredibleInterval)
	assert.Equal(t, raw["home"].Alpha, out["home"].Alpha)
}

func TestNormalizePosteriorsRandomMarketsSumToOne(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 200; i++ {
		raw := make(map[string]models.PosteriorEstimate)
		for j := 0; j < 2+rng.Intn(4); j++ {
			m := 0.01 + rng.Float64()*0.9
			raw[string(rune('a'+j))] = models.PosteriorEstimate{Mean: m, CredibleInterval: models.CredibleInterval{Lower: m, Upper: m}}
		}

		out, err := NormalizePosteriors(raw)
		require.NoError(t, err)

		var total float64
		for _, p := range out {
			total += p.Mean
			assert.True(t, p.CredibleInterval.Contains(p.Mean))
		}
		assert.InDelta(t, 1.0, total, 1e-9)
	}
}

func TestNormalizePosteriorsDegenerate(t *testing.T) {
	_, err := NormalizePosteriors(map[string]models.PosteriorEstimate{"a": {Mean: 0}, "b": {Mean: 0}})
	assert.ErrorIs(t, err, models.ErrDegenerateMarket)

	_, err = NormalizePosteriors(map[string]models.PosteriorEstimate{"a": {Mean: math.NaN()}})
	assert.ErrorIs(t, err, models.ErrDegenerateMarket)
}
