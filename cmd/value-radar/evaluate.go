package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yourusername/value-radar/internal/health"
	"github.com/yourusername/value-radar/internal/models"
	"github.com/yourusername/value-radar/internal/prior"
	"github.com/yourusername/value-radar/internal/quoters"
	"github.com/yourusername/value-radar/internal/repository"
	"github.com/yourusername/value-radar/internal/scheduler"
	"github.com/yourusername/value-radar/internal/service"
)

type evaluateOptions struct {
	marketFile string
	bankroll   float64
	risk       string
	format     string
	clv        map[string]string
	watch      string
}

// marketFile is the YAML layout read by evaluate.
type marketFile struct {
	Markets []models.Market `yaml:"markets"`
}

func newEvaluateCmd(a *app) *cobra.Command {
	opts := evaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate quoted markets and report value bets",
		Long: `Reads a YAML file of markets, each with one book per quoter, and reports every
price whose risk-adjusted edge clears the sport threshold together with its
recommended stake. With --watch the file is re-read and re-evaluated on a cron
schedule and, when metrics are enabled, health and metrics endpoints are served.`,
		Example: `  value-radar evaluate --market markets.yaml --bankroll 1000 --risk moderate
  value-radar evaluate --market markets.yaml --clv pinnacle=0.04 --format json
  value-radar evaluate --market markets.yaml --watch "@every 30s"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.evaluate(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.marketFile, "market", "m", "", "Path to a YAML market file (required)")
	cmd.Flags().Float64Var(&opts.bankroll, "bankroll", 0, "Bankroll to size stakes against (default from config)")
	cmd.Flags().StringVar(&opts.risk, "risk", "", "Risk tolerance: conservative, moderate or aggressive (default from config)")
	cmd.Flags().StringVar(&opts.format, "format", formatTable, "Output format: table or json")
	cmd.Flags().StringToStringVar(&opts.clv, "clv", nil, "Historical closing-line value per quoter, e.g. pinnacle=0.04")
	cmd.Flags().StringVar(&opts.watch, "watch", "", "Re-evaluate on a cron schedule, e.g. \"@every 30s\"")
	_ = cmd.MarkFlagRequired("market")

	return cmd
}

func (a *app) evaluate(ctx context.Context, out io.Writer, opts evaluateOptions) error {
	svcOpts, err := serviceOptions(opts)
	if err != nil {
		return err
	}

	repo, closeRepo, err := repository.Open(ctx, a.cfg.HistoricalStore)
	if err != nil {
		return fmt.Errorf("failed to open historical store: %w", err)
	}
	defer closeRepo()

	provider := prior.NewProvider(repo, a.cfg.HistoricalStore, a.log)
	svc := service.NewValuationService(a.cfg.Engine, quoters.NewTable(a.cfg.Quoters), provider, a.log, svcOpts...)

	run := func(ctx context.Context) error {
		markets, err := loadMarkets(opts.marketFile)
		if err != nil {
			return err
		}
		result, err := svc.EvaluateMarkets(ctx, markets)
		if err != nil {
			return err
		}
		return renderEvaluation(out, opts.format, result)
	}

	if opts.watch == "" {
		return run(ctx)
	}
	return a.watch(ctx, opts.watch, repo, run)
}

// watch runs job once, then on every tick of spec until ctx is cancelled.
func (a *app) watch(ctx context.Context, spec string, store repository.OutcomeRepository, job scheduler.Job) error {
	if err := job(ctx); err != nil {
		return err
	}

	sched := scheduler.NewScheduler(a.log, time.Minute)
	err := sched.Schedule("evaluate", spec, job)
	if err != nil {
		return err
	}

	if a.cfg.Metrics.Enabled {
		srv := health.NewServer(health.Config{
			ServiceName: a.cfg.App.Name,
			Version:     Version,
			Port:        a.cfg.Metrics.Port,
			MetricsPath: a.cfg.Metrics.Path,
			Logger:      a.log,
			Store:       store,
		})
		srv.Start(ctx)
		srv.SetReady(true)
	}

	if err := sched.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	sched.Stop()

	return nil
}

func serviceOptions(opts evaluateOptions) ([]service.Option, error) {
	var svcOpts []service.Option

	if opts.bankroll < 0 {
		return nil, fmt.Errorf("bankroll %v: %w", opts.bankroll, models.ErrInvalidBankroll)
	}
	if opts.bankroll > 0 {
		svcOpts = append(svcOpts, service.WithBankroll(decimal.NewFromFloat(opts.bankroll)))
	}

	if opts.risk != "" {
		tolerance, err := models.ParseRiskTolerance(opts.risk)
		if err != nil {
			return nil, err
		}
		svcOpts = append(svcOpts, service.WithRiskTolerance(tolerance))
	}

	if len(opts.clv) > 0 {
		clv := make(service.StaticCLV, len(opts.clv))
		for quoter, raw := range opts.clv {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("clv for %s: %w", quoter, err)
			}
			clv[quoter] = v
		}
		svcOpts = append(svcOpts, service.WithCLVSource(clv))
	}

	if opts.format != formatTable && opts.format != formatJSON {
		return nil, fmt.Errorf("unknown output format %q", opts.format)
	}

	return svcOpts, nil
}

func loadMarkets(path string) ([]models.Market, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read market file: %w", err)
	}

	var file marketFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse market file: %w", err)
	}
	if len(file.Markets) == 0 {
		return nil, fmt.Errorf("market file %s has no markets", path)
	}

	return file.Markets, nil
}
