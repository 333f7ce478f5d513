// Package quoters resolves per-quoter precision weights and reliability scores.
package quoters

import (
	"strings"

	"github.com/yourusername/value-radar/internal/config"
	"github.com/yourusername/value-radar/internal/models"
)

// Table maps quoter identities to the static scores supplied by configuration.
// Lookups are case-insensitive. A Table is read-only after construction.
type Table struct {
	precision          map[string]float64
	reliability        map[string]float64
	defaultPrecision   float64
	defaultReliability float64
}

// NewTable builds a table from the quoters configuration section.
func NewTable(cfg config.QuotersConfig) *Table {
	t := &Table{
		precision:          make(map[string]float64, len(cfg.Precision)),
		reliability:        make(map[string]float64, len(cfg.Reliability)),
		defaultPrecision:   cfg.DefaultPrecision,
		defaultReliability: clamp01(cfg.DefaultReliability),
	}
	for id, w := range cfg.Precision {
		t.precision[normalize(id)] = w
	}
	for id, r := range cfg.Reliability {
		t.reliability[normalize(id)] = clamp01(r)
	}
	return t
}

// Default returns a table over the built-in precision and reliability values.
func Default() *Table {
	return NewTable(config.DefaultQuoterTables())
}

// PrecisionFor returns the precision weight for a quoter.
func (t *Table) PrecisionFor(quoterID string) float64 {
	if w, ok := t.precision[normalize(quoterID)]; ok {
		return w
	}
	return t.defaultPrecision
}

// ReliabilityFor returns the reliability score in [0, 1] for a quoter.
func (t *Table) ReliabilityFor(quoterID string) float64 {
	if r, ok := t.reliability[normalize(quoterID)]; ok {
		return r
	}
	return t.defaultReliability
}

// Quote builds a PriceQuote carrying the quoter's precision weight.
func (t *Table) Quote(quoterID string, price float64) models.PriceQuote {
	return models.PriceQuote{
		QuoterID:        quoterID,
		DecimalPrice:    price,
		PrecisionWeight: t.PrecisionFor(quoterID),
	}
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
