package models

import (
	"math"
	"strings"
	"time"
)

// JeffreysPseudoCount is added to both wins and losses of an observed record.
const JeffreysPseudoCount = 0.5

// MatchupSide identifies which side of a fixture an outcome refers to.
type MatchupSide string

const (
	SideHome MatchupSide = "home"
	SideAway MatchupSide = "away"
	SideDraw MatchupSide = "draw"
)

// MatchKey identifies a fixture for prior lookup.
type MatchKey struct {
	Sport    string `json:"sport"`
	HomeSide string `json:"home_side"`
	AwaySide string `json:"away_side"`
}

// SideFor maps an outcome name onto the fixture side it refers to.
// Unrecognised names map to the home side.
func (k MatchKey) SideFor(outcome string) MatchupSide {
	switch {
	case outcome == k.HomeSide:
		return SideHome
	case outcome == k.AwaySide:
		return SideAway
	case isDrawName(outcome):
		return SideDraw
	default:
		return SideHome
	}
}

func isDrawName(name string) bool {
	return strings.EqualFold(name, "draw") || strings.EqualFold(name, "tie")
}

// MatchupRecord is the raw completed-match tally returned by the historical store.
type MatchupRecord struct {
	Total int64 `db:"total" json:"total"`
	Wins  int64 `db:"wins" json:"wins"`
}

// HistoricalPrior is a Beta prior over an outcome's win probability.
type HistoricalPrior struct {
	Alpha             float64 `json:"alpha"`
	Beta              float64 `json:"beta"`
	TotalObservations int64   `json:"total_observations"`
	EmpiricalWinRate  float64 `json:"empirical_win_rate"`
}

// UninformedPrior returns the uniform Beta(1, 1) prior.
func UninformedPrior() HistoricalPrior {
	return HistoricalPrior{Alpha: 1, Beta: 1, TotalObservations: 0, EmpiricalWinRate: 0.5}
}

// PriorFromRecord builds a prior from a head-to-head record with the Jeffreys floor
// applied. An empty or inconsistent record yields the uninformed prior.
func PriorFromRecord(rec MatchupRecord) HistoricalPrior {
	if rec.Total <= 0 || rec.Wins < 0 || rec.Wins > rec.Total {
		return UninformedPrior()
	}
	return HistoricalPrior{
		Alpha:             float64(rec.Wins) + JeffreysPseudoCount,
		Beta:              float64(rec.Total-rec.Wins) + JeffreysPseudoCount,
		TotalObservations: rec.Total,
		EmpiricalWinRate:  float64(rec.Wins) / float64(rec.Total),
	}
}

// IsUsable reports whether both shape parameters are strictly positive.
func (p HistoricalPrior) IsUsable() bool {
	return p.Alpha > 0 && p.Beta > 0 && !math.IsInf(p.Alpha, 0) && !math.IsInf(p.Beta, 0)
}

// MatchResult is one completed fixture as stored in the historical outcome store.
type MatchResult struct {
	ID           string      `db:"id" json:"id" yaml:"id"`
	Sport        string      `db:"sport_key" json:"sport" yaml:"sport"`
	HomeSide     string      `db:"home_team" json:"home_side" yaml:"home_side"`
	AwaySide     string      `db:"away_team" json:"away_side" yaml:"away_side"`
	Winner       MatchupSide `db:"winner" json:"winner" yaml:"winner"`
	Completed    bool        `db:"completed" json:"completed" yaml:"completed"`
	CommenceTime time.Time   `db:"commence_time" json:"commence_time" yaml:"commence_time"`
}
