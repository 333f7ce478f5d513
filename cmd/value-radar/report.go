package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/yourusername/value-radar/internal/edge"
	"github.com/yourusername/value-radar/internal/service"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

func renderDevig(w io.Writer, format string, r devigReport) error {
	if format == formatJSON {
		return writeJSON(w, r)
	}

	table := tablewriter.NewWriter(w)
	table.Header("#", "Price", "Implied", "True prob", "Fair price")
	for i, p := range r.Prices {
		fair := "-"
		if r.Probabilities[i] > 0 {
			fair = fmt.Sprintf("%.3f", 1/r.Probabilities[i])
		}
		table.Append(
			strconv.Itoa(i+1),
			fmt.Sprintf("%.3f", p),
			pct(1/p),
			pct(r.Probabilities[i]),
			fair,
		)
	}
	if err := table.Render(); err != nil {
		return err
	}

	method := "power"
	if !r.Solve.Converged {
		method = "proportional (fallback)"
	}
	fmt.Fprintf(w, "Overround: %s  Method: %s  k=%.6f  Iterations: %d\n",
		pct(r.Overround), method, r.Solve.K, r.Solve.Iterations)
	return nil
}

func renderEvaluation(w io.Writer, format string, result *service.BatchResult) error {
	if format == formatJSON {
		return writeJSON(w, result)
	}

	if len(result.ValueBets) == 0 {
		fmt.Fprintf(w, "No value bets across %d markets\n", result.Markets)
	} else {
		table := tablewriter.NewWriter(w)
		table.Header("Market", "Outcome", "Quoter", "Price", "True prob", "Raw edge", "Risk-adj", "Grade", "Stake", "Fraction", "Steam")
		for _, bet := range result.ValueBets {
			steam := ""
			if bet.Steam {
				steam = "yes"
			}
			table.Append(
				bet.MarketID,
				bet.Outcome,
				bet.QuoterID,
				fmt.Sprintf("%.2f", bet.DecimalPrice),
				pct(bet.TrueProbability),
				pct(bet.Edge.RawEdge),
				pct(bet.Edge.RiskAdjustedEdge),
				string(bet.QualityGrade),
				bet.Stake.StakeAmount.StringFixed(2),
				pct(bet.Stake.Fraction),
				steam,
			)
		}
		if err := table.Render(); err != nil {
			return err
		}
		fmt.Fprintf(w, "%d value bets across %d markets\n", len(result.ValueBets), result.Markets)
	}

	if len(result.Skipped) > 0 {
		fmt.Fprintf(w, "Skipped %d outcomes:\n", len(result.Skipped))
		for _, s := range result.Skipped {
			name := s.Outcome
			if name == "" {
				name = "(market)"
			}
			fmt.Fprintf(w, "  %s %s: %s\n", s.MarketID, name, s.Reason)
		}
	}
	return nil
}

func renderSimulation(w io.Writer, format string, r simulationReport) error {
	if format == formatJSON {
		return writeJSON(w, r)
	}

	res := r.Result
	table := tablewriter.NewWriter(w)
	table.Header("Metric", "Value")
	table.Append("Paths x bets", fmt.Sprintf("%d x %d", res.Iterations, res.Bets))
	table.Append("Stake fraction", pct(r.Config.Fraction))
	table.Append("Mean final bankroll", fmt.Sprintf("%.4f", res.MeanFinalBankroll))
	table.Append("Median final bankroll", fmt.Sprintf("%.4f", res.MedianFinalBankroll))
	table.Append("Std final bankroll", fmt.Sprintf("%.4f", res.StdFinalBankroll))
	table.Append("Median growth / bet", fmt.Sprintf("%.6f", res.MedianGrowthPerBet))
	table.Append("Theoretical growth / bet", fmt.Sprintf("%.6f", res.TheoreticalGrowth))
	table.Append("P(profit)", pct(res.ProbabilityOfProfit))
	table.Append("P(drawdown breach)", pct(res.ProbabilityOfDrawdown))

	levels := make([]string, 0, len(res.ConfidenceIntervals))
	for level := range res.ConfidenceIntervals {
		levels = append(levels, level)
	}
	sort.Strings(levels)
	for _, level := range levels {
		table.Append(level+" interval width", fmt.Sprintf("%.4f", res.ConfidenceIntervals[level]))
	}
	if err := table.Render(); err != nil {
		return err
	}

	ref := r.Reference
	fmt.Fprintf(w, "Quarter Kelly reference: full Kelly %s, stake %s%% = %s\n",
		pct(ref.FullKelly), strconv.FormatFloat(ref.KellyPercentage, 'f', 2, 64), ref.StakeAmount.StringFixed(2))
	return nil
}

func renderParlay(w io.Writer, format string, legs []edge.ParlayLeg, p edge.Parlay) error {
	if format == formatJSON {
		return writeJSON(w, p)
	}

	table := tablewriter.NewWriter(w)
	table.Header("Leg", "Price", "True prob")
	for i, leg := range legs {
		prob := "implied"
		if leg.TrueProbability != nil {
			prob = pct(*leg.TrueProbability)
		}
		table.Append(strconv.Itoa(i+1), fmt.Sprintf("%.3f", leg.Price), prob)
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Combined price %.3f  True prob %s  Edge %s\n",
		p.CombinedPrice, pct(p.TrueProbability), signedPct(p.Edge))
	return nil
}

func signedPct(v float64) string {
	if math.Abs(v) < 5e-7 {
		v = 0
	}
	return fmt.Sprintf("%+.2f%%", v*100)
}
