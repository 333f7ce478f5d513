package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/value-radar/internal/edge"
)

func newParlayCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parlay <price[:prob]>...",
		Short: "Combine independent legs into an accumulator and report its edge",
		Long: `Each leg is a decimal price, optionally followed by the true probability of
the leg. Legs without a probability are assumed fairly priced.`,
		Example: `  value-radar parlay 1.90:0.55 2.05:0.51 1.75`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			legs, err := parseLegs(args)
			if err != nil {
				return err
			}

			parlay, err := edge.ParlayEdge(legs)
			if err != nil {
				return err
			}
			a.log.WithField("legs", parlay.Legs).Debug("Parlay evaluated")

			return renderParlay(cmd.OutOrStdout(), format, legs, parlay)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json")
	return cmd
}

func parseLegs(args []string) ([]edge.ParlayLeg, error) {
	legs := make([]edge.ParlayLeg, 0, len(args))
	for _, arg := range args {
		priceText, probText, hasProb := strings.Cut(arg, ":")

		price, err := strconv.ParseFloat(priceText, 64)
		if err != nil {
			return nil, fmt.Errorf("leg %q: invalid price: %w", arg, err)
		}
		leg := edge.ParlayLeg{Price: price}

		if hasProb {
			prob, err := strconv.ParseFloat(probText, 64)
			if err != nil {
				return nil, fmt.Errorf("leg %q: invalid probability: %w", arg, err)
			}
			leg.TrueProbability = &prob
		}
		legs = append(legs, leg)
	}
	return legs, nil
}
