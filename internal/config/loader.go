package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. VALUE_RADAR_APP_LOG_LEVEL.
const EnvPrefix = "VALUE_RADAR"

const defaultConfigPath = "config/config.yaml"

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error: defaults and environment variables are used instead.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v, Default())

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// ReloadFromEnv replaces cfg with the file named by VALUE_RADAR_CONFIG_PATH, if set.
func ReloadFromEnv(cfg *Config) error {
	envPath := os.Getenv(EnvPrefix + "_CONFIG_PATH")
	if envPath == "" {
		return nil
	}

	newCfg, err := Load(envPath)
	if err != nil {
		return err
	}
	*cfg = *newCfg
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("app.name", d.App.Name)
	v.SetDefault("app.environment", d.App.Environment)
	v.SetDefault("app.log_level", d.App.LogLevel)

	e := d.Engine
	v.SetDefault("engine.devig.max_iterations", e.Devig.MaxIterations)
	v.SetDefault("engine.devig.tolerance", e.Devig.Tolerance)
	v.SetDefault("engine.bayesian.precision_scale", e.Bayesian.PrecisionScale)
	v.SetDefault("engine.bayesian.credible_level", e.Bayesian.CredibleLevel)
	v.SetDefault("engine.edge.liquidity_tax", e.Edge.LiquidityTax)
	v.SetDefault("engine.edge.liquidity_saturation_quoters", e.Edge.LiquiditySaturationQuoters)
	v.SetDefault("engine.edge.spread_zero_at", e.Edge.SpreadZeroAt)
	v.SetDefault("engine.edge.fill_floor", e.Edge.FillFloor)
	v.SetDefault("engine.edge.clv_min", e.Edge.CLVMin)
	v.SetDefault("engine.edge.clv_max", e.Edge.CLVMax)
	v.SetDefault("engine.staking.max_full_kelly", e.Staking.MaxFullKelly)
	v.SetDefault("engine.staking.max_fraction", e.Staking.MaxFraction)
	v.SetDefault("engine.staking.ruin_base_risk", e.Staking.RuinBaseRisk)
	v.SetDefault("engine.staking.ruin_floor", e.Staking.RuinFloor)
	v.SetDefault("engine.staking.grade_multipliers", e.Staking.GradeMultipliers)
	v.SetDefault("engine.staking.risk_multipliers", e.Staking.RiskMultipliers)
	v.SetDefault("engine.staking.default_risk", e.Staking.DefaultRisk)
	v.SetDefault("engine.valuation.min_price", e.Valuation.MinPrice)
	v.SetDefault("engine.valuation.max_price", e.Valuation.MaxPrice)
	v.SetDefault("engine.valuation.edge_thresholds", e.Valuation.EdgeThresholds)
	v.SetDefault("engine.valuation.default_edge_threshold", e.Valuation.DefaultEdgeThreshold)
	v.SetDefault("engine.valuation.steam_threshold", e.Valuation.SteamThreshold)
	v.SetDefault("engine.valuation.bankroll", e.Valuation.Bankroll)
	v.SetDefault("engine.valuation.concurrency", e.Valuation.Concurrency)

	q := d.Quoters
	v.SetDefault("quoters.precision", q.Precision)
	v.SetDefault("quoters.reliability", q.Reliability)
	v.SetDefault("quoters.default_precision", q.DefaultPrecision)
	v.SetDefault("quoters.default_reliability", q.DefaultReliability)

	h := d.HistoricalStore
	v.SetDefault("historical_store.driver", h.Driver)
	v.SetDefault("historical_store.port", 5432)
	v.SetDefault("historical_store.ssl_mode", "disable")
	v.SetDefault("historical_store.max_connections", 10)
	v.SetDefault("historical_store.max_idle_connections", 2)
	v.SetDefault("historical_store.cache_ttl_seconds", h.CacheTTLSeconds)
	v.SetDefault("historical_store.lookups_per_second", h.LookupsPerSecond)
	v.SetDefault("historical_store.lookup_burst", h.LookupBurst)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.port", d.Metrics.Port)
	v.SetDefault("metrics.path", d.Metrics.Path)
}
