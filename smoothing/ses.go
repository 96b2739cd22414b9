package smoothing

import (
	"github.com/sartorproj/goforecast/forecast"
	"github.com/sartorproj/goforecast/timeseries"
)

// DefaultSESAlpha is the smoothing weight used when none is configured.
const DefaultSESAlpha = 0.3

// SES is simple exponential smoothing: s[0]=x[0], s[t]=α·x[t]+(1-α)·s[t-1].
// The forecast is flat at the final smoothed value.
type SES struct {
	Alpha float64
	Level float64

	fitted     bool
	fittedVals []float64
	residuals  []float64
}

// NewSES creates a simple exponential smoothing model.
func NewSES(alpha float64) *SES {
	return &SES{Alpha: alpha}
}

// Fit smooths the series. At least one observation is required.
func (m *SES) Fit(series *timeseries.Series) error {
	const op = "simple_exponential"
	if err := checkWeight(op, "alpha", m.Alpha); err != nil {
		return err
	}
	x := series.Values
	n := len(x)
	if n < 1 {
		return forecast.InsufficientData(op, 1, n)
	}

	m.fittedVals = make([]float64, n)
	m.residuals = make([]float64, n)

	s := x[0]
	m.fittedVals[0] = s
	for t := 1; t < n; t++ {
		s = m.Alpha*x[t] + (1-m.Alpha)*s
		m.fittedVals[t] = s
		m.residuals[t] = x[t] - s
	}

	m.Level = s
	m.fitted = true
	return nil
}

// Predict returns steps copies of the final level.
func (m *SES) Predict(steps int) ([]float64, error) {
	if !m.fitted {
		return nil, errNotFitted
	}
	if err := checkSteps("simple_exponential", steps); err != nil {
		return nil, err
	}
	out := make([]float64, steps)
	for i := range out {
		out[i] = m.Level
	}
	return out, nil
}

// Output forecasts steps ahead with residual-based intervals.
func (m *SES) Output(steps int) (*forecast.Output, error) {
	points, err := m.Predict(steps)
	if err != nil {
		return nil, err
	}
	return output(forecast.KindSES, points, m.fittedVals, m.residuals,
		map[string]float64{"alpha": m.Alpha}), nil
}
