package main

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/yourusername/value-radar/internal/staking"
)

func newSimulateCmd(a *app) *cobra.Command {
	var (
		cfg    staking.SimulationConfig
		format string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Monte Carlo a fixed-fraction staking plan",
		Long: `Plays many independent sequences of identical bets, each staking a fixed share
of the current bankroll, and reports the spread of final bankrolls, the chance of
ending in profit and the chance of breaching a drawdown limit. A quarter-Kelly
reference stake for the configured bankroll is shown alongside.`,
		Example: `  value-radar simulate --price 2.1 --prob 0.52 --fraction 0.02
  value-radar simulate --price 1.95 --prob 0.55 --fraction 0.05 --bets 1000 --drawdown 0.3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := staking.Simulate(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			bankroll := decimal.NewFromFloat(a.cfg.Engine.Valuation.Bankroll)
			reference, err := staking.FixedFractionKelly(cfg.Price, cfg.Probability, bankroll, staking.DefaultKellyFraction)
			if err != nil {
				return err
			}

			return renderSimulation(cmd.OutOrStdout(), format, simulationReport{
				Config:    cfg,
				Result:    result,
				Reference: reference,
			})
		},
	}

	cmd.Flags().Float64Var(&cfg.Price, "price", 0, "Decimal price of every bet (required)")
	cmd.Flags().Float64Var(&cfg.Probability, "prob", 0, "True win probability of every bet (required)")
	cmd.Flags().Float64Var(&cfg.Fraction, "fraction", 0, "Share of current bankroll staked per bet")
	cmd.Flags().IntVar(&cfg.Bets, "bets", 0, "Bets per path (default 500)")
	cmd.Flags().IntVar(&cfg.Iterations, "iterations", 0, "Number of simulated paths (default 1000)")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", 1, "Random seed")
	cmd.Flags().Float64Var(&cfg.DrawdownLimit, "drawdown", 0.5, "Peak-to-trough loss counted as ruin")
	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")
	_ = cmd.MarkFlagRequired("price")
	_ = cmd.MarkFlagRequired("prob")

	return cmd
}

type simulationReport struct {
	Config    staking.SimulationConfig `json:"config"`
	Result    staking.SimulationResult `json:"result"`
	Reference staking.FixedKelly       `json:"quarter_kelly_reference"`
}
