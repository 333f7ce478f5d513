package config

// Driver names accepted for the historical store.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverNone     = "none"
)

// Engine defaults, overridable through the engine section.
const (
	DefaultMaxIterations              = 50
	DefaultTolerance                  = 1e-12
	DefaultPrecisionScale             = 10.0
	DefaultCredibleLevel              = 0.95
	DefaultLiquidityTax               = 0.01
	DefaultLiquiditySaturationQuoters = 10.0
	DefaultSpreadZeroAt               = 0.20
	DefaultFillFloor                  = 0.7
	DefaultCLVMin                     = 0.5
	DefaultCLVMax                     = 1.5
	DefaultMaxFullKelly               = 0.5
	DefaultMaxFraction                = 0.10
	DefaultRuinBaseRisk               = 0.05
	DefaultRuinFloor                  = 0.001
	DefaultMinPrice                   = 1.01
	DefaultMaxPrice                   = 100.0
	DefaultEdgeThreshold              = 0.02
	DefaultSteamThreshold             = 0.10
	DefaultBankroll                   = 1000.0
	DefaultConcurrency                = 8
	DefaultQuoterPrecision            = 3.0
	DefaultQuoterReliability          = 0.75
	DefaultPriorCacheTTLSeconds       = 3600
	DefaultLookupsPerSecond           = 50.0
	DefaultLookupBurst                = 10
)

// DefaultEngine returns the engine constants used when no configuration file is supplied.
func DefaultEngine() EngineConfig {
	return EngineConfig{
		Devig: DevigConfig{
			MaxIterations: DefaultMaxIterations,
			Tolerance:     DefaultTolerance,
		},
		Bayesian: BayesianConfig{
			PrecisionScale: DefaultPrecisionScale,
			CredibleLevel:  DefaultCredibleLevel,
		},
		Edge: EdgeConfig{
			LiquidityTax:               DefaultLiquidityTax,
			LiquiditySaturationQuoters: DefaultLiquiditySaturationQuoters,
			SpreadZeroAt:               DefaultSpreadZeroAt,
			FillFloor:                  DefaultFillFloor,
			CLVMin:                     DefaultCLVMin,
			CLVMax:                     DefaultCLVMax,
		},
		Staking: StakingConfig{
			MaxFullKelly: DefaultMaxFullKelly,
			MaxFraction:  DefaultMaxFraction,
			RuinBaseRisk: DefaultRuinBaseRisk,
			RuinFloor:    DefaultRuinFloor,
			GradeMultipliers: map[string]float64{
				"A": 0.50,
				"B": 0.25,
				"C": 0.10,
				"D": 0.00,
			},
			RiskMultipliers: map[string]float64{
				"conservative": 0.5,
				"moderate":     1.0,
				"aggressive":   1.5,
			},
			DefaultRisk: "moderate",
		},
		Valuation: ValuationConfig{
			MinPrice: DefaultMinPrice,
			MaxPrice: DefaultMaxPrice,
			EdgeThresholds: map[string]float64{
				"basketball_nba":       0.02,
				"americanfootball_nfl": 0.025,
				"icehockey_nhl":        0.025,
				"soccer_epl":           0.03,
			},
			DefaultEdgeThreshold: DefaultEdgeThreshold,
			SteamThreshold:       DefaultSteamThreshold,
			Bankroll:             DefaultBankroll,
			Concurrency:          DefaultConcurrency,
		},
	}
}

// DefaultQuoterTables returns the built-in precision and reliability tables.
func DefaultQuoterTables() QuotersConfig {
	return QuotersConfig{
		Precision: map[string]float64{
			"pinnacle":    10.0,
			"bookmaker":   10.0,
			"betfair":     9.0,
			"draftkings":  8.0,
			"fanduel":     8.0,
			"bet365":      7.0,
			"williamhill": 6.0,
			"caesars":     5.0,
			"betmgm":      5.0,
			"betrivers":   4.0,
			"bovada":      2.5,
			"betonlineag": 2.5,
			"mybookieag":  2.0,
		},
		Reliability: map[string]float64{
			"pinnacle":   1.0,
			"betfair":    0.95,
			"draftkings": 0.92,
			"fanduel":    0.90,
			"bet365":     0.88,
		},
		DefaultPrecision:   DefaultQuoterPrecision,
		DefaultReliability: DefaultQuoterReliability,
	}
}

// Default returns a complete configuration that needs no file or environment.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "value-radar",
			Environment: "development",
			LogLevel:    "info",
		},
		Engine:  DefaultEngine(),
		Quoters: DefaultQuoterTables(),
		HistoricalStore: HistoricalStoreConfig{
			Driver:           DriverNone,
			CacheTTLSeconds:  DefaultPriorCacheTTLSeconds,
			LookupsPerSecond: DefaultLookupsPerSecond,
			LookupBurst:      DefaultLookupBurst,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
