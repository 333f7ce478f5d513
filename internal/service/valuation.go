// Package service composes the estimation, edge and staking components into the
// market valuation pipeline.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/value-radar/internal/config"
	"github.com/yourusername/value-radar/internal/edge"
	"github.com/yourusername/value-radar/internal/logger"
	"github.com/yourusername/value-radar/internal/metrics"
	"github.com/yourusername/value-radar/internal/models"
	"github.com/yourusername/value-radar/internal/probability"
	"github.com/yourusername/value-radar/internal/quoters"
	"github.com/yourusername/value-radar/internal/staking"
)

// ValuationService finds value bets in quoted markets. It is safe for concurrent use.
type ValuationService struct {
	cfg       config.ValuationConfig
	quoters   *quoters.Table
	consensus *probability.BayesianConsensus
	edges     *edge.Calculator
	optimizer *staking.Optimizer
	clv       CLVSource
	bankroll  decimal.Decimal
	tolerance models.RiskTolerance
	validate  *validator.Validate
	now       func() time.Time

	logger    *logrus.Logger
	engineLog *logger.EngineLogger
	audit     *logger.AuditLogger
}

// Option customises a ValuationService.
type Option func(*ValuationService)

// WithCLVSource sets where historical closing-line value is read from.
func WithCLVSource(src CLVSource) Option {
	return func(s *ValuationService) { s.clv = src }
}

// WithBankroll overrides the configured bankroll.
func WithBankroll(bankroll decimal.Decimal) Option {
	return func(s *ValuationService) { s.bankroll = bankroll }
}

// WithRiskTolerance overrides the configured default risk tolerance.
func WithRiskTolerance(t models.RiskTolerance) Option {
	return func(s *ValuationService) { s.tolerance = t }
}

// WithClock sets the time source used for EvaluatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *ValuationService) { s.now = now }
}

// NewValuationService wires the engine components from configuration.
func NewValuationService(cfg config.EngineConfig, table *quoters.Table, priors probability.PriorSource, log *logrus.Logger, opts ...Option) *ValuationService {
	log = logger.OrDiscard(log)
	if table == nil {
		table = quoters.Default()
	}
	if priors == nil {
		priors = probability.UninformedPriors{}
	}

	s := &ValuationService{
		cfg:       cfg.Valuation,
		quoters:   table,
		consensus: probability.NewBayesianConsensus(cfg.Bayesian, priors, log),
		edges:     edge.NewCalculator(cfg.Edge, log),
		optimizer: staking.NewOptimizer(cfg.Staking, log),
		clv:       NoCLV{},
		bankroll:  decimal.NewFromFloat(cfg.Valuation.Bankroll),
		tolerance: models.RiskTolerance(cfg.Staking.DefaultRisk),
		validate:  validator.New(),
		now:       time.Now,
		logger:    log,
		engineLog: logger.NewEngineLogger(log),
		audit:     logger.NewAuditLogger(log),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tolerance == "" {
		s.tolerance = models.RiskModerate
	}
	return s
}

// MarketEvaluation is the result of valuing one market.
type MarketEvaluation struct {
	MarketID      string                              `json:"market_id"`
	Probabilities map[string]models.PosteriorEstimate `json:"probabilities"`
	Liquidity     map[string]models.MarketLiquidity   `json:"liquidity"`
	ValueBets     []models.ValueBet                   `json:"value_bets"`
	Skipped       []models.SkippedOutcome             `json:"skipped,omitempty"`
}

// BatchResult is the result of valuing several markets.
type BatchResult struct {
	ValueBets []models.ValueBet       `json:"value_bets"`
	Skipped   []models.SkippedOutcome `json:"skipped,omitempty"`
	Markets   int                     `json:"markets"`
}

// EvaluateMarket values every (quoter, outcome) price of a market. Outcomes that
// cannot be estimated are reported in Skipped; an error is returned only when the
// market as a whole is unusable.
func (s *ValuationService) EvaluateMarket(ctx context.Context, market models.Market) (*MarketEvaluation, error) {
	start := time.Now()
	defer func() { metrics.RecordEvaluation("valuation", time.Since(start).Seconds()) }()

	if err := s.validate.Struct(market); err != nil {
		return nil, fmt.Errorf("market %q is invalid: %w", market.ID, err)
	}

	quotes, overrounds := s.collectQuotes(market)
	key := market.Key()

	posteriors, failed, err := s.consensus.EstimatePosteriors(ctx, key, quotes)
	eval := &MarketEvaluation{
		MarketID:      market.ID,
		Probabilities: posteriors,
		Liquidity:     make(map[string]models.MarketLiquidity, len(posteriors)),
	}
	for _, name := range sortedNames(failed) {
		eval.Skipped = append(eval.Skipped, s.skip(market.ID, name, failed[name]))
	}
	if err != nil {
		return eval, fmt.Errorf("market %q: %w", market.ID, err)
	}

	threshold := s.cfg.EdgeThresholdFor(market.Sport)
	for _, outcome := range sortedNames(posteriors) {
		post := posteriors[outcome]
		outcomeQuotes := quotes[outcome]

		liq := models.SummarizeLiquidity(outcomeQuotes, contributingOverrounds(outcomeQuotes, overrounds))
		eval.Liquidity[outcome] = liq

		for _, q := range outcomeQuotes {
			if err := ctx.Err(); err != nil {
				return eval, err
			}

			analysis, err := s.edges.Analyze(edge.Input{
				Price:         q.DecimalPrice,
				Posterior:     post,
				Liquidity:     liq,
				Reliability:   s.quoters.ReliabilityFor(q.QuoterID),
				HistoricalCLV: s.clv.HistoricalCLV(ctx, q.QuoterID, market.Sport),
			})
			if err != nil {
				eval.Skipped = append(eval.Skipped, s.skip(market.ID, outcome, err))
				continue
			}
			if analysis.RiskAdjustedEdge <= threshold {
				continue
			}

			stake, err := s.optimizer.Optimize(staking.Input{
				Price:     q.DecimalPrice,
				Posterior: post,
				Edge:      analysis,
				Bankroll:  s.bankroll,
				Tolerance: s.tolerance,
			})
			if err != nil {
				eval.Skipped = append(eval.Skipped, s.skip(market.ID, outcome, err))
				continue
			}

			bet := models.ValueBet{
				ID:              uuid.New().String(),
				MarketID:        market.ID,
				Sport:           market.Sport,
				HomeSide:        market.HomeSide,
				AwaySide:        market.AwaySide,
				CommenceTime:    market.CommenceTime,
				Outcome:         outcome,
				QuoterID:        q.QuoterID,
				QuoterTitle:     bookTitle(market, q.QuoterID),
				DecimalPrice:    q.DecimalPrice,
				TrueProbability: post.Mean,
				Posterior:       post,
				Liquidity:       liq,
				Edge:            analysis,
				QualityGrade:    analysis.QualityGrade(),
				Stake:           stake,
				Steam:           analysis.RawEdge > s.cfg.SteamThreshold,
				EvaluatedAt:     s.now().UTC(),
			}
			eval.ValueBets = append(eval.ValueBets, bet)
			metrics.RecordValueBet(market.Sport)
			s.audit.LogRecommendation(bet)
		}
	}

	SortByRiskAdjustedEdge(eval.ValueBets)
	return eval, nil
}

// EvaluateMarkets values markets concurrently, bounded by the configured concurrency.
// A market that fails is recorded in Skipped with an empty outcome and never fails
// the batch; only cancellation of ctx does.
func (s *ValuationService) EvaluateMarkets(ctx context.Context, markets []models.Market) (*BatchResult, error) {
	start := time.Now()

	limit := s.cfg.Concurrency
	if limit <= 0 {
		limit = config.DefaultConcurrency
	}

	evals := make([]*MarketEvaluation, len(markets))
	failures := make([]error, len(markets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range markets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			eval, err := s.EvaluateMarket(gctx, markets[i])
			evals[i] = eval
			failures[i] = err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &BatchResult{Markets: len(markets)}
	for i, eval := range evals {
		if eval != nil {
			result.ValueBets = append(result.ValueBets, eval.ValueBets...)
			result.Skipped = append(result.Skipped, eval.Skipped...)
		}
		if err := failures[i]; err != nil {
			s.logger.WithError(err).WithField("market_id", markets[i].ID).Warn("Market evaluation failed")
			metrics.RecordOutcomeSkipped(skipReason(err))
			result.Skipped = append(result.Skipped, models.SkippedOutcome{
				MarketID: markets[i].ID,
				Reason:   err.Error(),
			})
		}
	}

	SortByRiskAdjustedEdge(result.ValueBets)
	s.audit.LogBatchSummary(len(markets), len(result.ValueBets), len(result.Skipped), float64(time.Since(start).Milliseconds()))
	return result, nil
}

// SortByRiskAdjustedEdge orders bets best first. Ties keep their relative order.
func SortByRiskAdjustedEdge(bets []models.ValueBet) {
	sort.SliceStable(bets, func(i, j int) bool {
		return bets[i].Edge.RiskAdjustedEdge > bets[j].Edge.RiskAdjustedEdge
	})
}

// collectQuotes groups in-range prices per outcome and computes each quoter's book
// overround over its in-range prices.
func (s *ValuationService) collectQuotes(market models.Market) (map[string][]models.PriceQuote, map[string]float64) {
	quotes := make(map[string][]models.PriceQuote)
	overrounds := make(map[string]float64, len(market.Books))

	for _, name := range market.OutcomeNames() {
		quotes[name] = nil
	}

	for _, book := range market.Books {
		var prices []float64
		for _, name := range sortedNames(book.Outcomes) {
			price := book.Outcomes[name]
			if !s.inRange(price) {
				continue
			}
			prices = append(prices, price)
			quotes[name] = append(quotes[name], s.quoters.Quote(book.QuoterID, price))
		}
		if len(prices) > 0 {
			overrounds[book.QuoterID] = models.BookOverround(prices)
		}
	}
	return quotes, overrounds
}

func (s *ValuationService) inRange(price float64) bool {
	return models.ValidPrice(price) && price >= s.cfg.MinPrice && price <= s.cfg.MaxPrice
}

func (s *ValuationService) skip(marketID, outcome string, err error) models.SkippedOutcome {
	metrics.RecordOutcomeSkipped(skipReason(err))
	s.engineLog.LogOutcomeSkipped(marketID, outcome, err)
	return models.SkippedOutcome{MarketID: marketID, Outcome: outcome, Reason: err.Error()}
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, models.ErrEmptyQuotes):
		return "no_quotes"
	case errors.Is(err, models.ErrInvalidPrice):
		return "invalid_price"
	case errors.Is(err, models.ErrDegenerateMarket):
		return "degenerate_market"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}

func contributingOverrounds(quotes []models.PriceQuote, overrounds map[string]float64) []float64 {
	seen := make(map[string]struct{}, len(quotes))
	var out []float64
	for _, q := range quotes {
		if _, ok := seen[q.QuoterID]; ok {
			continue
		}
		seen[q.QuoterID] = struct{}{}
		if o, ok := overrounds[q.QuoterID]; ok {
			out = append(out, o)
		}
	}
	return out
}

func bookTitle(market models.Market, quoterID string) string {
	for _, b := range market.Books {
		if b.QuoterID == quoterID {
			return b.Title
		}
	}
	return ""
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
