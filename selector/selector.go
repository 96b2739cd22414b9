// Package selector decides which model to run from a series' length and
// whether it shows a weekly cycle.
package selector

import (
	"github.com/sartorproj/goforecast/forecast"
	"github.com/sartorproj/goforecast/stats"
)

// Seasonality configures the lag autocorrelation test.
type Seasonality struct {
	Lag       int     `yaml:"lag"`
	Threshold float64 `yaml:"threshold"`
	MinPoints int     `yaml:"min_points"`
}

// DefaultSeasonality tests lag 7 against 0.2 with at least 14 points.
func DefaultSeasonality() Seasonality {
	return Seasonality{Lag: 7, Threshold: 0.2, MinPoints: 14}
}

// Thresholds are the series lengths at which the selection policy switches
// model.
type Thresholds struct {
	Seasonal int `yaml:"seasonal"`
	Ensemble int `yaml:"ensemble"`
	ARIMA    int `yaml:"arima"`
}

// DefaultThresholds returns 60 / 30 / 20.
func DefaultThresholds() Thresholds {
	return Thresholds{Seasonal: 60, Ensemble: 30, ARIMA: 20}
}

// Autocorrelation is the lag correlation used for the seasonality test.
func (s Seasonality) Autocorrelation(values []float64) float64 {
	return stats.Autocorrelation(values, s.Lag)
}

// SignificantLags lists the lags up to twice the seasonal lag whose
// autocorrelation clears the ±1.96/√n white-noise bound.
func (s Seasonality) SignificantLags(values []float64) []int {
	return stats.SignificantLags(stats.ACF(values, 2*s.Lag), stats.ConfidenceBound(len(values)))
}

// IsSeasonal reports whether the lag autocorrelation exceeds the threshold.
// Short or constant series are never seasonal.
func (s Seasonality) IsSeasonal(values []float64) bool {
	if len(values) < s.MinPoints || len(values) <= s.Lag {
		return false
	}
	if stats.Variance(values) == 0 {
		return false
	}
	return s.Autocorrelation(values) > s.Threshold
}

// Select applies the policy in priority order: long seasonal series get
// seasonal ARIMA, then the ensemble, then ARIMA, and Holt-Winters otherwise.
func (t Thresholds) Select(n int, seasonal bool) forecast.Kind {
	switch {
	case n >= t.Seasonal && seasonal:
		return forecast.KindSARIMA
	case n >= t.Ensemble:
		return forecast.KindEnsemble
	case n >= t.ARIMA:
		return forecast.KindARIMA
	default:
		return forecast.KindHoltWinters
	}
}

// Decision records a selection and the evidence behind it.
type Decision struct {
	Kind            forecast.Kind `json:"model"`
	Seasonal        bool          `json:"seasonal"`
	Autocorrelation float64       `json:"autocorrelation"`
	Points          int           `json:"points"`
	SignificantLags []int         `json:"significant_lags,omitempty"`
}

// Choose runs the seasonality test and the selection policy together.
func Choose(values []float64, s Seasonality, t Thresholds) Decision {
	seasonal := s.IsSeasonal(values)
	return Decision{
		Kind:            t.Select(len(values), seasonal),
		Seasonal:        seasonal,
		Autocorrelation: stats.Finite(s.Autocorrelation(values)),
		Points:          len(values),
		SignificantLags: s.SignificantLags(values),
	}
}
