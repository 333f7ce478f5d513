package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yourusername/value-radar/internal/models"
	"github.com/yourusername/value-radar/internal/repository"
)

// resultFile is the YAML layout read by store seed.
type resultFile struct {
	Results []models.MatchResult `yaml:"results"`
}

func newStoreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect and seed the historical outcome store",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Verify the configured historical store is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			repo, closeRepo, err := repository.Open(ctx, a.cfg.HistoricalStore)
			if err != nil {
				return fmt.Errorf("failed to open historical store: %w", err)
			}
			defer closeRepo()

			out := cmd.OutOrStdout()
			if repo == nil {
				fmt.Fprintln(out, "No historical store configured; uninformed priors will be used")
				return nil
			}
			if err := repo.HealthCheck(ctx); err != nil {
				return fmt.Errorf("historical store %s unavailable: %w", a.cfg.HistoricalStore.Driver, err)
			}
			fmt.Fprintf(out, "Historical store %s: OK\n", a.cfg.HistoricalStore.Driver)
			return nil
		},
	})

	var resultsPath string
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Load completed match results from a YAML file into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := loadResults(resultsPath)
			if err != nil {
				return err
			}

			repo, closeRepo, err := repository.Open(cmd.Context(), a.cfg.HistoricalStore)
			if err != nil {
				return fmt.Errorf("failed to open historical store: %w", err)
			}
			defer closeRepo()
			if repo == nil {
				return fmt.Errorf("historical_store.driver is %q; nothing to seed", a.cfg.HistoricalStore.Driver)
			}

			for i := range results {
				if err := repo.RecordResult(cmd.Context(), &results[i]); err != nil {
					return fmt.Errorf("failed to record result %d: %w", i, err)
				}
			}

			a.log.WithField("results", len(results)).Info("Historical store seeded")
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %d results\n", len(results))
			return nil
		},
	}
	seed.Flags().StringVarP(&resultsPath, "file", "f", "", "Path to a YAML results file (required)")
	_ = seed.MarkFlagRequired("file")
	cmd.AddCommand(seed)

	return cmd
}

func loadResults(path string) ([]models.MatchResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var file resultFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse results file: %w", err)
	}
	return file.Results, nil
}
