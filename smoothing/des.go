package smoothing

import (
	"github.com/sartorproj/goforecast/forecast"
	"github.com/sartorproj/goforecast/timeseries"
)

// Default weights for double exponential smoothing.
const (
	DefaultDESAlpha = 0.3
	DefaultDESBeta  = 0.1
)

// DES is Holt's linear (double) exponential smoothing with level and trend.
type DES struct {
	Alpha float64
	Beta  float64
	Level float64
	Trend float64

	fitted     bool
	fittedVals []float64
	residuals  []float64
}

// NewDES creates a double exponential smoothing model.
func NewDES(alpha, beta float64) *DES {
	return &DES{Alpha: alpha, Beta: beta}
}

// Fit runs the level/trend recursion starting from level=x[0] and
// trend=x[1]-x[0]. At least two observations are required.
func (m *DES) Fit(series *timeseries.Series) error {
	const op = "double_exponential"
	if err := checkWeight(op, "alpha", m.Alpha); err != nil {
		return err
	}
	if err := checkWeight(op, "beta", m.Beta); err != nil {
		return err
	}
	x := series.Values
	n := len(x)
	if n < 2 {
		return forecast.InsufficientData(op, 2, n)
	}

	m.fittedVals = make([]float64, n)
	m.residuals = make([]float64, n)

	level := x[0]
	trend := x[1] - x[0]
	m.fittedVals[0] = level
	for t := 1; t < n; t++ {
		prev := level
		level = m.Alpha*x[t] + (1-m.Alpha)*(prev+trend)
		trend = m.Beta*(level-prev) + (1-m.Beta)*trend
		m.fittedVals[t] = level
		m.residuals[t] = x[t] - level
	}

	m.Level, m.Trend = level, trend
	m.fitted = true
	return nil
}

// Predict returns level + h·trend for h = 1..steps.
func (m *DES) Predict(steps int) ([]float64, error) {
	if !m.fitted {
		return nil, errNotFitted
	}
	if err := checkSteps("double_exponential", steps); err != nil {
		return nil, err
	}
	out := make([]float64, steps)
	for h := 1; h <= steps; h++ {
		out[h-1] = m.Level + float64(h)*m.Trend
	}
	return out, nil
}

// Output forecasts steps ahead with residual-based intervals.
func (m *DES) Output(steps int) (*forecast.Output, error) {
	points, err := m.Predict(steps)
	if err != nil {
		return nil, err
	}
	return output(forecast.KindDES, points, m.fittedVals, m.residuals,
		map[string]float64{"alpha": m.Alpha, "beta": m.Beta}), nil
}
