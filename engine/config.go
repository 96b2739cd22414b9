package engine

import (
	"errors"
	"fmt"

	"github.com/sartorproj/goforecast/accuracy"
	"github.com/sartorproj/goforecast/arima"
	"github.com/sartorproj/goforecast/ensemble"
	"github.com/sartorproj/goforecast/forecast"
	"github.com/sartorproj/goforecast/sarima"
	"github.com/sartorproj/goforecast/selector"
	"github.com/sartorproj/goforecast/smoothing"
)

// Config carries every tunable constant of the engine. It is read-only once
// passed to New.
type Config struct {
	ARIMA        arima.Order    `yaml:"arima"`
	SARIMA       sarima.Order   `yaml:"sarima"`
	SESAlpha     float64        `yaml:"ses_alpha"`
	DESAlpha     float64        `yaml:"des_alpha"`
	DESBeta      float64        `yaml:"des_beta"`
	SeasonLength int            `yaml:"season_length"`
	Grid         smoothing.Grid `yaml:"grid"`

	Seasonality selector.Seasonality      `yaml:"seasonality"`
	Selection   selector.Thresholds       `yaml:"selection"`
	Members     ensemble.MemberThresholds `yaml:"ensemble_members"`
	Weights     map[string]float64        `yaml:"weights"` // model type name -> prior weight

	HoldoutFraction float64 `yaml:"holdout_fraction"`
	MinPoints       int     `yaml:"min_points"`

	RevenueLookbackDays   int `yaml:"revenue_lookback_days"`
	CustomerLookbackDays  int `yaml:"customer_lookback_days"`
	InventoryLookbackDays int `yaml:"inventory_lookback_days"`

	InventoryMinRows          int     `yaml:"inventory_min_rows"`
	InventoryMinProductPoints int     `yaml:"inventory_min_product_points"`
	LeadTimeDays              int     `yaml:"lead_time_days"`
	ServiceZ                  float64 `yaml:"service_z"`

	ConfidenceScore  float64 `yaml:"confidence_score"`
	BatchConcurrency int     `yaml:"batch_concurrency"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	weights := make(map[string]float64)
	for kind, w := range ensemble.DefaultWeights() {
		weights[kind.String()] = w
	}
	return Config{
		ARIMA:        arima.DefaultOrder,
		SARIMA:       sarima.DefaultOrder,
		SESAlpha:     smoothing.DefaultSESAlpha,
		DESAlpha:     smoothing.DefaultDESAlpha,
		DESBeta:      smoothing.DefaultDESBeta,
		SeasonLength: smoothing.DefaultSeasonLength,
		Grid:         smoothing.DefaultGrid(),

		Seasonality: selector.DefaultSeasonality(),
		Selection:   selector.DefaultThresholds(),
		Members:     ensemble.DefaultMemberThresholds(),
		Weights:     weights,

		HoldoutFraction: accuracy.DefaultHoldoutFraction,
		MinPoints:       14,

		RevenueLookbackDays:   180,
		CustomerLookbackDays:  180,
		InventoryLookbackDays: 120,

		InventoryMinRows:          50,
		InventoryMinProductPoints: 14,
		LeadTimeDays:              7,
		ServiceZ:                  1.65,

		ConfidenceScore:  0.95,
		BatchConcurrency: 3,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.SeasonLength >= 1, "season_length must be positive, got %d", c.SeasonLength)
	check(c.SARIMA.M >= 1, "sarima.period must be positive, got %d", c.SARIMA.M)
	check(c.ARIMA.P >= 0 && c.ARIMA.D >= 0 && c.ARIMA.Q >= 0, "arima order must be non-negative, got %v", c.ARIMA)
	for _, w := range []struct {
		name string
		v    float64
	}{{"ses_alpha", c.SESAlpha}, {"des_alpha", c.DESAlpha}, {"des_beta", c.DESBeta}} {
		check(w.v >= 0 && w.v <= 1, "%s must be in [0, 1], got %v", w.name, w.v)
	}
	check(c.Seasonality.Lag >= 1, "seasonality.lag must be positive, got %d", c.Seasonality.Lag)
	check(c.HoldoutFraction > 0 && c.HoldoutFraction <= 1, "holdout_fraction must be in (0, 1], got %v", c.HoldoutFraction)
	check(c.MinPoints >= 1, "min_points must be positive, got %d", c.MinPoints)
	check(c.RevenueLookbackDays >= 1, "revenue_lookback_days must be positive, got %d", c.RevenueLookbackDays)
	check(c.CustomerLookbackDays >= 1, "customer_lookback_days must be positive, got %d", c.CustomerLookbackDays)
	check(c.InventoryLookbackDays >= 1, "inventory_lookback_days must be positive, got %d", c.InventoryLookbackDays)
	check(c.InventoryMinProductPoints >= 1, "inventory_min_product_points must be positive, got %d", c.InventoryMinProductPoints)
	check(c.LeadTimeDays >= 0, "lead_time_days must not be negative, got %d", c.LeadTimeDays)
	check(c.ServiceZ >= 0, "service_z must not be negative, got %v", c.ServiceZ)
	check(c.ConfidenceScore >= 0 && c.ConfidenceScore <= 1, "confidence_score must be in [0, 1], got %v", c.ConfidenceScore)
	check(c.BatchConcurrency >= 1, "batch_concurrency must be positive, got %d", c.BatchConcurrency)

	if _, err := c.ensembleWeights(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return forecast.InvalidInput("config", "%w", errors.Join(errs...))
	}
	return nil
}

// ensembleWeights resolves the configured names to model kinds. Kinds left
// out fall back to ensemble.DefaultWeight.
func (c Config) ensembleWeights() (ensemble.Weights, error) {
	out := make(ensemble.Weights, len(c.Weights))
	for name, w := range c.Weights {
		kind, err := forecast.ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("weights: %w", err)
		}
		if w < 0 {
			return nil, fmt.Errorf("weights: %s must not be negative, got %v", name, w)
		}
		out[kind] = w
	}
	return out, nil
}
