package arima

import (
	"errors"
	"fmt"
	"math"

	"github.com/sartorproj/goforecast/forecast"
	"github.com/sartorproj/goforecast/stats"
	"github.com/sartorproj/goforecast/timeseries"
)

// MinObservations is the shortest series ARIMA will fit.
const MinObservations = 20

// DefaultOrder is ARIMA(2,1,2).
var DefaultOrder = Order{P: 2, D: 1, Q: 2}

// Order represents ARIMA model order (p, d, q).
type Order struct {
	P int `yaml:"p"` // AR order (number of autoregressive terms)
	D int `yaml:"d"` // Differencing order
	Q int `yaml:"q"` // MA order (number of moving average terms)
}

func (o Order) String() string {
	return fmt.Sprintf("ARIMA(%d,%d,%d)", o.P, o.D, o.Q)
}

// Model represents an ARIMA model.
type Model struct {
	Order     Order
	ARCoeffs  []float64 // AR coefficients (phi)
	MACoeffs  []float64 // MA coefficients (theta)
	Intercept float64   // mean of the differenced series
	Variance  float64   // population variance of the residuals
	LjungBox  *stats.LjungBoxResult

	fitted    bool
	data      []float64
	diffData  []float64
	arma      *ARMA
	residuals []float64
}

// New creates a new ARIMA model with the specified order.
func New(p, d, q int) *Model {
	return &Model{
		Order:    Order{P: p, D: d, Q: q},
		ARCoeffs: make([]float64, p),
		MACoeffs: make([]float64, q),
	}
}

// Fit fits the ARIMA model to the given time series data.
func (m *Model) Fit(series *timeseries.Series) error {
	const op = "arima"
	o := m.Order
	if o.P < 0 || o.D < 0 || o.Q < 0 {
		return forecast.InvalidInput(op, "negative order %v", o)
	}
	n := series.Len()
	required := max(MinObservations, o.P+o.Q+o.D+2)
	if n < required {
		return forecast.InsufficientData(op, required, n)
	}

	m.data = append([]float64(nil), series.Values...)
	m.diffData = timeseries.DifferenceN(m.data, o.D)
	if len(m.diffData) == 0 {
		return forecast.ModelFailure(op, errors.New("differencing resulted in empty series"))
	}

	m.arma = EstimateARMA(m.diffData, Lags(o.P, 0, 0), Lags(o.Q, 0, 0))
	m.residuals = m.arma.Residuals(m.diffData)

	m.ARCoeffs = append([]float64(nil), m.arma.AR...)
	m.MACoeffs = append([]float64(nil), m.arma.MA...)
	m.Intercept = m.arma.Intercept
	m.Variance = stats.Variance(m.residuals)
	m.LjungBox = stats.LjungBox(m.residuals, 10, o.P+o.Q)

	if math.IsNaN(m.Variance) || math.IsInf(m.Variance, 0) {
		return forecast.ModelFailure(op, errors.New("non-finite residual variance"))
	}

	m.fitted = true
	return nil
}

// Predict generates forecasts for the specified number of steps ahead on the
// original scale.
func (m *Model) Predict(steps int) ([]float64, error) {
	if !m.fitted {
		return nil, errors.New("model must be fitted before prediction")
	}
	if steps < 1 {
		return nil, forecast.InvalidInput("arima", "steps must be at least 1, got %d", steps)
	}

	diffForecasts := m.arma.Forecast(m.diffData, m.residuals, steps)
	return timeseries.Integrate(diffForecasts, m.data, m.Order.D), nil
}

// Output forecasts steps ahead with intervals ŷ ± z·σ·√h.
func (m *Model) Output(steps int) (*forecast.Output, error) {
	points, err := m.Predict(steps)
	if err != nil {
		return nil, err
	}

	params := map[string]float64{
		"p":         float64(m.Order.P),
		"d":         float64(m.Order.D),
		"q":         float64(m.Order.Q),
		"intercept": m.Intercept,
		"sigma2":    m.Variance,
	}
	for i, c := range m.ARCoeffs {
		params[fmt.Sprintf("ar_%d", i+1)] = c
	}
	for i, c := range m.MACoeffs {
		params[fmt.Sprintf("ma_%d", i+1)] = c
	}
	if m.LjungBox != nil {
		params["ljung_box_q"] = m.LjungBox.Statistic
		params["ljung_box_p"] = m.LjungBox.PValue
	}

	return &forecast.Output{
		Kind:      forecast.KindARIMA,
		Forecasts: points,
		Intervals: forecast.Intervals(points, math.Sqrt(m.Variance)),
		Fitted:    m.FittedValues(),
		Residuals: AlignResiduals(m.residuals, len(m.data)),
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

// FittedValues returns in-sample one-step predictions on the original scale,
// aligned with the input series.
func (m *Model) FittedValues() []float64 {
	if !m.fitted {
		return nil
	}
	return FittedFromResiduals(m.data, m.residuals)
}

// FittedFromResiduals maps residuals of a differenced series back onto the
// original series: x[t] − e[t−k] where k = len(x) − len(e), and x[t] for the
// first k points that differencing consumed.
func FittedFromResiduals(x, residuals []float64) []float64 {
	k := len(x) - len(residuals)
	out := make([]float64, len(x))
	for t := range x {
		if t < k {
			out[t] = x[t]
			continue
		}
		out[t] = x[t] - residuals[t-k]
	}
	return out
}

// AlignResiduals left-pads residuals with zeros to length n.
func AlignResiduals(residuals []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out[n-len(residuals):], residuals)
	return out
}
