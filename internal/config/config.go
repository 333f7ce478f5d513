// Package config provides configuration management for the value-radar engine.
package config

import (
	"fmt"
	"strings"
)

// Config represents the complete application configuration
type Config struct {
	App             AppConfig             `mapstructure:"app" validate:"required"`
	Engine          EngineConfig          `mapstructure:"engine" validate:"required"`
	Quoters         QuotersConfig         `mapstructure:"quoters" validate:"required"`
	HistoricalStore HistoricalStoreConfig `mapstructure:"historical_store" validate:"required"`
	Metrics         MetricsConfig         `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// EngineConfig groups the tunable constants of every engine component.
type EngineConfig struct {
	Devig     DevigConfig     `mapstructure:"devig" validate:"required"`
	Bayesian  BayesianConfig  `mapstructure:"bayesian" validate:"required"`
	Edge      EdgeConfig      `mapstructure:"edge" validate:"required"`
	Staking   StakingConfig   `mapstructure:"staking" validate:"required"`
	Valuation ValuationConfig `mapstructure:"valuation" validate:"required"`
}

// DevigConfig bounds the power-method root finder.
type DevigConfig struct {
	MaxIterations int     `mapstructure:"max_iterations" validate:"required,gt=0,lte=1000"`
	Tolerance     float64 `mapstructure:"tolerance" validate:"required,gt=0,lt=1"`
}

// BayesianConfig controls the conjugate update.
type BayesianConfig struct {
	// PrecisionScale converts a quoter precision weight into pseudo-observations.
	PrecisionScale float64 `mapstructure:"precision_scale" validate:"required,gt=0"`
	CredibleLevel  float64 `mapstructure:"credible_level" validate:"required,gt=0,lt=1"`
}

// EdgeConfig holds the liquidity, fill and CLV constants of the edge calculator.
type EdgeConfig struct {
	LiquidityTax               float64 `mapstructure:"liquidity_tax" validate:"gte=0,lt=1"`
	LiquiditySaturationQuoters float64 `mapstructure:"liquidity_saturation_quoters" validate:"required,gt=0"`
	SpreadZeroAt               float64 `mapstructure:"spread_zero_at" validate:"required,gt=0"`
	FillFloor                  float64 `mapstructure:"fill_floor" validate:"gte=0,lte=1"`
	CLVMin                     float64 `mapstructure:"clv_min" validate:"gte=0"`
	CLVMax                     float64 `mapstructure:"clv_max" validate:"required,gt=0"`
}

// StakingConfig holds the Kelly caps and multipliers of the stake optimizer.
type StakingConfig struct {
	MaxFullKelly     float64            `mapstructure:"max_full_kelly" validate:"required,gt=0,lte=0.5"`
	MaxFraction      float64            `mapstructure:"max_fraction" validate:"required,gt=0,lte=0.1"`
	RuinBaseRisk     float64            `mapstructure:"ruin_base_risk" validate:"gte=0,lte=1"`
	RuinFloor        float64            `mapstructure:"ruin_floor" validate:"gte=0,lte=1"`
	GradeMultipliers map[string]float64 `mapstructure:"grade_multipliers" validate:"required,dive,keys,oneof=A B C D a b c d,endkeys,gte=0,lte=1"`
	RiskMultipliers  map[string]float64 `mapstructure:"risk_multipliers" validate:"required,dive,keys,risktolerance,endkeys,gt=0"`
	DefaultRisk      string             `mapstructure:"default_risk" validate:"required,risktolerance"`
}

// GradeMultiplier returns the fractional-Kelly multiplier for a quality grade.
// Keys are matched case-insensitively because viper lowercases map keys.
func (s StakingConfig) GradeMultiplier(grade string) float64 {
	return lookupFold(s.GradeMultipliers, grade)
}

// RiskMultiplier returns the multiplier for a risk tolerance name.
func (s StakingConfig) RiskMultiplier(tolerance string) float64 {
	return lookupFold(s.RiskMultipliers, tolerance)
}

func lookupFold(m map[string]float64, key string) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return 0
}

// ValuationConfig controls the market evaluation pipeline.
type ValuationConfig struct {
	MinPrice             float64            `mapstructure:"min_price" validate:"required,gt=1"`
	MaxPrice             float64            `mapstructure:"max_price" validate:"required,gt=1"`
	EdgeThresholds       map[string]float64 `mapstructure:"edge_thresholds" validate:"dive,gte=0"`
	DefaultEdgeThreshold float64            `mapstructure:"default_edge_threshold" validate:"gte=0"`
	SteamThreshold       float64            `mapstructure:"steam_threshold" validate:"gte=0"`
	Bankroll             float64            `mapstructure:"bankroll" validate:"required,gt=0"`
	Concurrency          int                `mapstructure:"concurrency" validate:"required,gt=0,lte=256"`
}

// EdgeThresholdFor returns the minimum risk-adjusted edge required for a sport.
func (v ValuationConfig) EdgeThresholdFor(sport string) float64 {
	if t, ok := v.EdgeThresholds[strings.ToLower(sport)]; ok {
		return t
	}
	return v.DefaultEdgeThreshold
}

// QuotersConfig holds the static per-quoter precision and reliability tables.
type QuotersConfig struct {
	Precision          map[string]float64 `mapstructure:"precision" validate:"dive,gte=0"`
	Reliability        map[string]float64 `mapstructure:"reliability" validate:"dive,gte=0,lte=1"`
	DefaultPrecision   float64            `mapstructure:"default_precision" validate:"gte=0"`
	DefaultReliability float64            `mapstructure:"default_reliability" validate:"gte=0,lte=1"`
}

// HistoricalStoreConfig describes where head-to-head records are read from.
type HistoricalStoreConfig struct {
	Driver             string  `mapstructure:"driver" validate:"required,storedriver"`
	Host               string  `mapstructure:"host" validate:"required_if=Driver postgres"`
	Port               int     `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string  `mapstructure:"name" validate:"required_if=Driver postgres"`
	User               string  `mapstructure:"user" validate:"required_if=Driver postgres"`
	Password           string  `mapstructure:"password"`
	SSLMode            string  `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int     `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MaxIdleConnections int     `mapstructure:"max_idle_connections" validate:"omitempty,gt=0"`
	SQLitePath         string  `mapstructure:"sqlite_path" validate:"required_if=Driver sqlite"`
	CacheTTLSeconds    int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	LookupsPerSecond   float64 `mapstructure:"lookups_per_second" validate:"gte=0"`
	LookupBurst        int     `mapstructure:"lookup_burst" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string for the historical store
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.HistoricalStore.User,
		c.HistoricalStore.Password,
		c.HistoricalStore.Host,
		c.HistoricalStore.Port,
		c.HistoricalStore.Name,
		c.HistoricalStore.SSLMode,
	)
}
