package sarima

import (
	"errors"
	"fmt"
	"math"

	"github.com/sartorproj/goforecast/arima"
	"github.com/sartorproj/goforecast/forecast"
	"github.com/sartorproj/goforecast/stats"
	"github.com/sartorproj/goforecast/timeseries"
)

// DefaultOrder is SARIMA(1,1,1)(1,1,1)[7].
var DefaultOrder = Order{P: 1, D: 1, Q: 1, SP: 1, SD: 1, SQ: 1, M: 7}

// Order represents SARIMA model order (p, d, q) x (P, D, Q, m).
type Order struct {
	P int `yaml:"p"` // Non-seasonal AR order
	D int `yaml:"d"` // Non-seasonal differencing order
	Q int `yaml:"q"` // Non-seasonal MA order
	// Seasonal components
	SP int `yaml:"seasonal_p"` // Seasonal AR order
	SD int `yaml:"seasonal_d"` // Seasonal differencing order
	SQ int `yaml:"seasonal_q"` // Seasonal MA order
	M  int `yaml:"period"`     // Seasonal period (7 for daily data with a weekly cycle)
}

func (o Order) String() string {
	return fmt.Sprintf("SARIMA(%d,%d,%d)(%d,%d,%d)[%d]", o.P, o.D, o.Q, o.SP, o.SD, o.SQ, o.M)
}

// MinObservations returns the shortest series the order can be fitted to:
// three full seasons.
func (o Order) MinObservations() int {
	return 3 * o.M
}

// Model represents a SARIMA model.
type Model struct {
	Order     Order
	ARCoeffs  []float64 // Non-seasonal AR coefficients
	MACoeffs  []float64 // Non-seasonal MA coefficients
	SARCoeffs []float64 // Seasonal AR coefficients
	SMACoeffs []float64 // Seasonal MA coefficients
	Intercept float64
	Variance  float64 // population variance of the residuals
	LjungBox  *stats.LjungBoxResult

	fitted    bool
	data      []float64
	stages    [][]float64 // stages[i] is the series before seasonal difference i
	diffData  []float64
	arma      *arima.ARMA
	residuals []float64
}

// New creates a new SARIMA model with the specified order.
func New(p, d, q, sp, sd, sq, m int) *Model {
	return &Model{
		Order: Order{
			P: p, D: d, Q: q,
			SP: sp, SD: sd, SQ: sq, M: m,
		},
		ARCoeffs:  make([]float64, p),
		MACoeffs:  make([]float64, q),
		SARCoeffs: make([]float64, sp),
		SMACoeffs: make([]float64, sq),
	}
}

// Fit fits the SARIMA model to the given time series data.
func (m *Model) Fit(series *timeseries.Series) error {
	const op = "seasonal_arima"
	o := m.Order
	if o.M < 1 {
		return forecast.InvalidInput(op, "seasonal period must be positive, got %d", o.M)
	}
	if o.P < 0 || o.D < 0 || o.Q < 0 || o.SP < 0 || o.SD < 0 || o.SQ < 0 {
		return forecast.InvalidInput(op, "negative order %v", o)
	}
	n := series.Len()
	if n < o.MinObservations() {
		return forecast.InsufficientData(op, o.MinObservations(), n)
	}

	m.data = append([]float64(nil), series.Values...)

	// Non-seasonal differencing first, then seasonal.
	diff := timeseries.DifferenceN(m.data, o.D)
	m.stages = m.stages[:0]
	for i := 0; i < o.SD; i++ {
		m.stages = append(m.stages, diff)
		diff = timeseries.SeasonalDifference(diff, o.M)
	}
	arLags := arima.Lags(o.P, o.SP, o.M)
	maLags := arima.Lags(o.Q, o.SQ, o.M)
	if need := o.D + o.SD*o.M + max(len(arLags), len(maLags)) + 2; n < need {
		return forecast.InsufficientData(op, need, n)
	}
	m.diffData = diff

	m.arma = arima.EstimateARMA(m.diffData, arLags, maLags)
	m.residuals = m.arma.Residuals(m.diffData)

	m.ARCoeffs = m.arma.Coeffs(arima.Lags(o.P, 0, 0), false)
	m.MACoeffs = m.arma.Coeffs(arima.Lags(o.Q, 0, 0), true)
	m.SARCoeffs = m.arma.Coeffs(seasonalLags(o.SP, o.M), false)
	m.SMACoeffs = m.arma.Coeffs(seasonalLags(o.SQ, o.M), true)
	m.Intercept = m.arma.Intercept
	m.Variance = stats.Variance(m.residuals)
	m.LjungBox = stats.LjungBox(m.residuals, 10, len(arLags)+len(maLags))

	if math.IsNaN(m.Variance) || math.IsInf(m.Variance, 0) {
		return forecast.ModelFailure(op, errors.New("non-finite residual variance"))
	}

	m.fitted = true
	return nil
}

func seasonalLags(k, period int) []int {
	lags := make([]int, k)
	for i := range lags {
		lags[i] = (i + 1) * period
	}
	return lags
}

// Predict generates forecasts for the specified number of steps ahead.
func (m *Model) Predict(steps int) ([]float64, error) {
	if !m.fitted {
		return nil, errors.New("model must be fitted before prediction")
	}
	if steps < 1 {
		return nil, forecast.InvalidInput("seasonal_arima", "steps must be at least 1, got %d", steps)
	}

	forecasts := m.arma.Forecast(m.diffData, m.residuals, steps)

	// Undo seasonal differencing, then non-seasonal.
	for i := len(m.stages) - 1; i >= 0; i-- {
		forecasts = timeseries.SeasonalIntegrate(forecasts, m.stages[i], m.Order.M)
	}
	return timeseries.Integrate(forecasts, m.data, m.Order.D), nil
}

// Output forecasts steps ahead with 80% and 95% intervals.
func (m *Model) Output(steps int) (*forecast.Output, error) {
	points, err := m.Predict(steps)
	if err != nil {
		return nil, err
	}

	o := m.Order
	params := map[string]float64{
		"p": float64(o.P), "d": float64(o.D), "q": float64(o.Q),
		"seasonal_p": float64(o.SP), "seasonal_d": float64(o.SD), "seasonal_q": float64(o.SQ),
		"period":    float64(o.M),
		"intercept": m.Intercept,
		"sigma2":    m.Variance,
	}
	for prefix, coeffs := range map[string][]float64{
		"ar": m.ARCoeffs, "ma": m.MACoeffs, "sar": m.SARCoeffs, "sma": m.SMACoeffs,
	} {
		for i, c := range coeffs {
			params[fmt.Sprintf("%s_%d", prefix, i+1)] = c
		}
	}
	if m.LjungBox != nil {
		params["ljung_box_q"] = m.LjungBox.Statistic
		params["ljung_box_p"] = m.LjungBox.PValue
	}

	return &forecast.Output{
		Kind:      forecast.KindSARIMA,
		Forecasts: points,
		Intervals: forecast.Intervals(points, math.Sqrt(m.Variance)),
		Fitted:    m.FittedValues(),
		Residuals: arima.AlignResiduals(m.residuals, len(m.data)),
		Params:    params,
	}, nil
}

// Residuals returns the model residuals on the differenced scale.
func (m *Model) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	result := make([]float64, len(m.residuals))
	copy(result, m.residuals)
	return result
}

// FittedValues returns in-sample one-step predictions on the original scale.
// The first d + D·m points, consumed by differencing, are returned as
// observed.
func (m *Model) FittedValues() []float64 {
	if !m.fitted {
		return nil
	}
	return arima.FittedFromResiduals(m.data, m.residuals)
}
