package smoothing

import (
	"errors"

	"github.com/sartorproj/goforecast/forecast"
	"github.com/sartorproj/goforecast/stats"
)

var errNotFitted = errors.New("model must be fitted before prediction")

func checkWeight(op, name string, w float64) error {
	if w < 0 || w > 1 {
		return forecast.InvalidInput(op, "%s must be in [0, 1], got %v", name, w)
	}
	return nil
}

func checkSteps(op string, steps int) error {
	if steps < 1 {
		return forecast.InvalidInput(op, "steps must be at least 1, got %d", steps)
	}
	return nil
}

// output assembles a forecast.Output whose intervals use the population
// standard deviation of the in-sample residuals.
func output(kind forecast.Kind, points, fitted, residuals []float64, params map[string]float64) *forecast.Output {
	return &forecast.Output{
		Kind:      kind,
		Forecasts: points,
		Intervals: forecast.Intervals(points, stats.StdDev(residuals)),
		Fitted:    append([]float64(nil), fitted...),
		Residuals: append([]float64(nil), residuals...),
		Params:    params,
	}
}
