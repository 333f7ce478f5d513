package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookQuote is one quoter's full book for a market: outcome name to decimal price.
type BookQuote struct {
	QuoterID string             `json:"quoter_id" yaml:"quoter_id" validate:"required"`
	Title    string             `json:"title,omitempty" yaml:"title"`
	Outcomes map[string]float64 `json:"outcomes" yaml:"outcomes" validate:"required,min=2"`
}

// Market is a single event with quotes from several quoters.
type Market struct {
	ID           string      `json:"id" yaml:"id" validate:"required"`
	Sport        string      `json:"sport" yaml:"sport" validate:"required"`
	HomeSide     string      `json:"home_side" yaml:"home_side" validate:"required"`
	AwaySide     string      `json:"away_side" yaml:"away_side" validate:"required"`
	CommenceTime time.Time   `json:"commence_time" yaml:"commence_time"`
	Books        []BookQuote `json:"books" yaml:"books" validate:"required,min=1,dive"`
}

// Key returns the identity used for historical prior lookups.
func (m Market) Key() MatchKey {
	return MatchKey{Sport: m.Sport, HomeSide: m.HomeSide, AwaySide: m.AwaySide}
}

// OutcomeNames returns every outcome name quoted by at least one book, in first-seen order.
func (m Market) OutcomeNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, b := range m.Books {
		for _, name := range sortedKeys(b.Outcomes) {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

// ValueBet is a recommended position on one outcome at one quoter's price.
type ValueBet struct {
	ID              string              `json:"id"`
	MarketID        string              `json:"market_id"`
	Sport           string              `json:"sport"`
	HomeSide        string              `json:"home_side"`
	AwaySide        string              `json:"away_side"`
	CommenceTime    time.Time           `json:"commence_time"`
	Outcome         string              `json:"outcome"`
	QuoterID        string              `json:"quoter_id"`
	QuoterTitle     string              `json:"quoter_title,omitempty"`
	DecimalPrice    float64             `json:"decimal_price"`
	TrueProbability float64             `json:"true_probability"`
	Posterior       PosteriorEstimate   `json:"posterior"`
	Liquidity       MarketLiquidity     `json:"liquidity"`
	Edge            EdgeAnalysis        `json:"edge"`
	QualityGrade    Grade               `json:"quality_grade"`
	Stake           StakeRecommendation `json:"stake"`
	Steam           bool                `json:"steam"`
	EvaluatedAt     time.Time           `json:"evaluated_at"`
}

// StakeAmount is a shortcut for v.Stake.StakeAmount.
func (v ValueBet) StakeAmount() decimal.Decimal {
	return v.Stake.StakeAmount
}

// SkippedOutcome records an outcome the pipeline could not evaluate.
type SkippedOutcome struct {
	MarketID string `json:"market_id"`
	Outcome  string `json:"outcome"`
	Reason   string `json:"reason"`
}
