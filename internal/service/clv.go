package service

import (
	"context"
	"strings"
)

// CLVSource supplies a quoter's historical closing-line value for a sport, or nil
// when none has been collected.
type CLVSource interface {
	HistoricalCLV(ctx context.Context, quoterID, sport string) *float64
}

// NoCLV is a CLVSource with no history.
type NoCLV struct{}

// HistoricalCLV implements CLVSource.
func (NoCLV) HistoricalCLV(context.Context, string, string) *float64 { return nil }

// StaticCLV maps quoter IDs (case-insensitive) to a fixed closing-line value for
// every sport.
type StaticCLV map[string]float64

// HistoricalCLV implements CLVSource.
func (s StaticCLV) HistoricalCLV(_ context.Context, quoterID, _ string) *float64 {
	for id, v := range s {
		if strings.EqualFold(id, quoterID) {
			clv := v
			return &clv
		}
	}
	return nil
}
