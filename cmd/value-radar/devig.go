package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yourusername/value-radar/internal/models"
	"github.com/yourusername/value-radar/internal/probability"
)

func newDevigCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "devig <price> <price> [price...]",
		Short: "Remove the margin from one quoter's complete market",
		Example: `  value-radar devig 1.90 1.90
  value-radar devig 2.10 3.40 3.60 --format json`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prices, err := parsePrices(args)
			if err != nil {
				return err
			}

			pm := probability.NewPowerMethod(a.cfg.Engine.Devig, a.log)
			probs, res := pm.Solve(prices)
			if probs == nil {
				return fmt.Errorf("cannot devig %v: %w", prices, models.ErrInvalidPrice)
			}

			return renderDevig(cmd.OutOrStdout(), format, devigReport{
				Prices:        prices,
				Probabilities: probs,
				Overround:     models.BookOverround(prices),
				Solve:         res,
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")
	return cmd
}

type devigReport struct {
	Prices        []float64               `json:"prices"`
	Probabilities []float64               `json:"probabilities"`
	Overround     float64                 `json:"overround"`
	Solve         probability.SolveResult `json:"solve"`
}

func parsePrices(args []string) ([]float64, error) {
	prices := make([]float64, len(args))
	for i, arg := range args {
		p, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("price %q: %w", arg, err)
		}
		if !models.ValidPrice(p) {
			return nil, fmt.Errorf("price %q: %w", arg, models.ErrInvalidPrice)
		}
		prices[i] = p
	}
	return prices, nil
}
