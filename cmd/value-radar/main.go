package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/value-radar/internal/config"
	"github.com/yourusername/value-radar/internal/logger"
	"github.com/yourusername/value-radar/internal/metrics"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// app carries the state shared by every subcommand once PersistentPreRunE has run.
type app struct {
	configFile string
	logLevel   string

	cfg *config.Config
	log *logrus.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "value-radar",
		Short: "Find and size value bets in quoted markets",
		Long: `value-radar removes bookmaker margin from quoted prices, forms a Bayesian
consensus probability per outcome, scores each price for risk-adjusted edge
and sizes positive-edge positions with a graded Kelly criterion.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override app.log_level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newDevigCmd(a),
		newEvaluateCmd(a),
		newSimulateCmd(a),
		newParlayCmd(a),
		newStoreCmd(a),
	)

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(os.Stdout).ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads .env, configuration and secrets, then builds the logger. Reports go
// to stdout, so log output is sent to the command's stderr.
func (a *app) setup(cmd *cobra.Command) error {
	_ = godotenv.Load()

	cfg, err := config.LoadWithDefaults(a.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if config.SecretsEnabled() {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if err := config.LoadSecretsFromAWS(cmd.Context(), cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if a.logLevel != "" {
		cfg.App.LogLevel = a.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger.NewLogger(cfg.App.LogLevel)
	a.log.SetOutput(cmd.ErrOrStderr())
	metrics.InitRegistry()

	a.log.WithFields(logrus.Fields{
		"version":     Version,
		"environment": cfg.App.Environment,
		"store":       cfg.HistoricalStore.Driver,
	}).Debug("Configuration loaded")

	return nil
}
