package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("risktolerance", validateRiskTolerance)
	_ = v.RegisterValidation("storedriver", validateStoreDriver)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateRiskTolerance(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "conservative", "moderate", "aggressive":
		return true
	default:
		return false
	}
}

func validateStoreDriver(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case DriverPostgres, DriverSQLite, DriverNone:
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	val := cfg.Engine.Valuation
	if val.MinPrice >= val.MaxPrice {
		return fmt.Errorf("engine.valuation.min_price must be below max_price")
	}

	edge := cfg.Engine.Edge
	if edge.CLVMin > edge.CLVMax {
		return fmt.Errorf("engine.edge.clv_min cannot exceed clv_max")
	}

	staking := cfg.Engine.Staking
	if staking.MaxFraction > staking.MaxFullKelly {
		return fmt.Errorf("engine.staking.max_fraction cannot exceed max_full_kelly")
	}
	for _, grade := range []string{"A", "B", "C", "D"} {
		if _, ok := findFold(staking.GradeMultipliers, grade); !ok {
			return fmt.Errorf("engine.staking.grade_multipliers is missing grade %s", grade)
		}
	}
	if staking.GradeMultiplier("D") != 0 {
		return fmt.Errorf("engine.staking.grade_multipliers must map grade D to 0")
	}
	if _, ok := findFold(staking.RiskMultipliers, staking.DefaultRisk); !ok {
		return fmt.Errorf("engine.staking.default_risk %q has no risk multiplier", staking.DefaultRisk)
	}

	store := cfg.HistoricalStore
	if store.MaxConnections > 0 && store.MaxIdleConnections > store.MaxConnections {
		return fmt.Errorf("max_idle_connections cannot exceed max_connections")
	}

	if cfg.Metrics.Enabled && (cfg.Metrics.Port == 0 || cfg.Metrics.Path == "") {
		return fmt.Errorf("metrics.port and metrics.path are required when metrics are enabled")
	}

	if cfg.IsProduction() && store.Driver == DriverPostgres && (store.SSLMode == "" || store.SSLMode == "disable") {
		return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
	}

	return nil
}

func findFold(m map[string]float64, key string) (float64, bool) {
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return 0, false
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var b strings.Builder
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required", "required_if":
			fmt.Fprintf(&b, "- Field '%s' is required\n", field)
		case "min", "max":
			fmt.Fprintf(&b, "- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			fmt.Fprintf(&b, "- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			fmt.Fprintf(&b, "- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			fmt.Fprintf(&b, "- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "risktolerance":
			fmt.Fprintf(&b, "- Field '%s' must be one of: conservative, moderate, aggressive\n", field)
		case "storedriver":
			fmt.Fprintf(&b, "- Field '%s' must be one of: postgres, sqlite, none\n", field)
		case "oneof":
			fmt.Fprintf(&b, "- Field '%s' has invalid value '%v'\n", field, value)
		default:
			fmt.Fprintf(&b, "- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", b.String())
}
