// Package prior supplies historical Beta priors to the Bayesian consensus estimator.
package prior

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/value-radar/internal/config"
	"github.com/yourusername/value-radar/internal/logger"
	"github.com/yourusername/value-radar/internal/metrics"
	"github.com/yourusername/value-radar/internal/models"
	"github.com/yourusername/value-radar/internal/probability"
	"github.com/yourusername/value-radar/internal/repository"
)

// Fallback reasons reported to metrics and logs.
const (
	ReasonNoStore     = "no_store"
	ReasonNoData      = "no_data"
	ReasonStoreError  = "store_error"
	ReasonRateLimited = "rate_limited"
)

// Provider looks up head-to-head records and turns them into priors. Any failure
// degrades to the uninformed prior; GetPrior never returns an error.
type Provider struct {
	repo    repository.OutcomeRepository
	cache   *cache.Cache
	limiter *rate.Limiter
	log     *logger.EngineLogger

	hits   atomic.Uint64
	misses atomic.Uint64
}

var _ probability.PriorSource = (*Provider)(nil)

// NewProvider creates a provider over repo. A nil repo always yields the uninformed
// prior. CacheTTLSeconds of 0 disables caching and LookupsPerSecond of 0 disables pacing.
func NewProvider(repo repository.OutcomeRepository, cfg config.HistoricalStoreConfig, log *logrus.Logger) *Provider {
	p := &Provider{
		repo: repo,
		log:  logger.NewEngineLogger(log),
	}

	if cfg.CacheTTLSeconds > 0 {
		ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
		p.cache = cache.New(ttl, ttl*2)
	}

	if cfg.LookupsPerSecond > 0 {
		burst := cfg.LookupBurst
		if burst <= 0 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(cfg.LookupsPerSecond), burst)
	}

	return p
}

func cacheKey(key models.MatchKey, side models.MatchupSide) string {
	return fmt.Sprintf("%s|%s|%s|%s", key.Sport, key.HomeSide, key.AwaySide, side)
}

// GetPrior implements probability.PriorSource.
func (p *Provider) GetPrior(ctx context.Context, key models.MatchKey, outcome string) models.HistoricalPrior {
	side := key.SideFor(outcome)
	ck := cacheKey(key, side)

	if p.cache != nil {
		if v, found := p.cache.Get(ck); found {
			if prior, ok := v.(models.HistoricalPrior); ok {
				p.recordLookup(true)
				return prior
			}
		}
		p.recordLookup(false)
	}

	if p.repo == nil {
		return models.UninformedPrior()
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return p.fallback(key, outcome, ReasonRateLimited, err)
		}
	}

	rec, err := p.repo.GetMatchupRecord(ctx, key.Sport, key.HomeSide, key.AwaySide, side)
	switch {
	case errors.Is(err, models.ErrNotFound):
		prior := p.fallback(key, outcome, ReasonNoData, nil)
		p.store(ck, prior)
		return prior
	case err != nil:
		return p.fallback(key, outcome, ReasonStoreError, err)
	}

	prior := models.PriorFromRecord(rec)
	p.store(ck, prior)
	return prior
}

func (p *Provider) fallback(key models.MatchKey, outcome, reason string, err error) models.HistoricalPrior {
	metrics.RecordPriorFallback(reason)
	p.log.LogPriorFallback(key, outcome, reason, err)
	return models.UninformedPrior()
}

func (p *Provider) store(ck string, prior models.HistoricalPrior) {
	if p.cache != nil {
		p.cache.SetDefault(ck, prior)
	}
}

func (p *Provider) recordLookup(hit bool) {
	if hit {
		p.hits.Add(1)
	} else {
		p.misses.Add(1)
	}
	metrics.UpdatePriorCacheHitRatio(p.HitRatio())
}

// HitRatio returns the share of cached lookups served from the cache.
func (p *Provider) HitRatio() float64 {
	hits, misses := p.hits.Load(), p.misses.Load()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}

// Flush drops every cached prior.
func (p *Provider) Flush() {
	if p.cache != nil {
		p.cache.Flush()
	}
}

// StaticSource returns the same prior for every outcome. The zero value returns
// the uninformed prior.
type StaticSource struct {
	Prior models.HistoricalPrior
}

// GetPrior implements probability.PriorSource.
func (s StaticSource) GetPrior(context.Context, models.MatchKey, string) models.HistoricalPrior {
	if s.Prior.IsUsable() {
		return s.Prior
	}
	return models.UninformedPrior()
}
