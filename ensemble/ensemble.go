package ensemble

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/sartorproj/goforecast/forecast"
)

// DefaultWeight applies to kinds missing from the weight table.
const DefaultWeight = 0.2

// Runner fits one model kind to values and forecasts horizon steps.
type Runner interface {
	Forecast(kind forecast.Kind, values []float64, horizon int) (*forecast.Output, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(kind forecast.Kind, values []float64, horizon int) (*forecast.Output, error)

// Forecast implements Runner.
func (f RunnerFunc) Forecast(kind forecast.Kind, values []float64, horizon int) (*forecast.Output, error) {
	return f(kind, values, horizon)
}

// Weights maps a model kind to its prior weight.
type Weights map[forecast.Kind]float64

// DefaultWeights reflects typical accuracy: seasonal ARIMA highest, SES lowest.
func DefaultWeights() Weights {
	return Weights{
		forecast.KindSES:         0.10,
		forecast.KindDES:         0.20,
		forecast.KindHoltWinters: 0.25,
		forecast.KindARIMA:       0.30,
		forecast.KindSARIMA:      0.35,
	}
}

// Of returns the weight of kind, DefaultWeight when absent.
func (w Weights) Of(kind forecast.Kind) float64 {
	if v, ok := w[kind]; ok {
		return v
	}
	return DefaultWeight
}

// MemberThresholds gate the ARIMA family by series length.
type MemberThresholds struct {
	ARIMA  int `yaml:"arima"`
	SARIMA int `yaml:"sarima"`
}

// DefaultMemberThresholds admits ARIMA from 20 points and SARIMA from 21.
func DefaultMemberThresholds() MemberThresholds {
	return MemberThresholds{ARIMA: 20, SARIMA: 21}
}

// Members returns SES, DES and Holt-Winters, plus ARIMA and SARIMA when the
// series is long enough.
func (t MemberThresholds) Members(n int) []forecast.Kind {
	kinds := []forecast.Kind{forecast.KindSES, forecast.KindDES, forecast.KindHoltWinters}
	if n >= t.ARIMA {
		kinds = append(kinds, forecast.KindARIMA)
	}
	if n >= t.SARIMA {
		kinds = append(kinds, forecast.KindSARIMA)
	}
	return kinds
}

// DefaultMembers is DefaultMemberThresholds().Members(n).
func DefaultMembers(n int) []forecast.Kind {
	return DefaultMemberThresholds().Members(n)
}

// Failure records a member that was excluded from the blend.
type Failure struct {
	Kind forecast.Kind
	Err  error
}

// Result is the blended output together with the per-member detail.
type Result struct {
	*forecast.Output
	Weights  Weights                           // renormalised over survivors
	Members  map[forecast.Kind]*forecast.Output // survivors only
	Failures []Failure
}

// Combine runs every member, drops the ones that fail, renormalises the
// weights of the rest to sum to 1 and blends forecasts, bounds and fitted
// values as weight-dotted sums. It fails only if every member fails.
func Combine(values []float64, horizon int, members []forecast.Kind, runner Runner, weights Weights) (*Result, error) {
	const op = "ensemble"
	if horizon < 1 {
		return nil, forecast.InvalidInput(op, "horizon must be at least 1, got %d", horizon)
	}
	if len(members) == 0 {
		return nil, forecast.InvalidInput(op, "no ensemble members")
	}
	if weights == nil {
		weights = DefaultWeights()
	}

	res := &Result{
		Weights: make(Weights),
		Members: make(map[forecast.Kind]*forecast.Output),
	}
	var survivors []forecast.Kind
	var errs []error
	total := 0.0

	for _, kind := range members {
		if kind == forecast.KindEnsemble {
			continue
		}
		out, err := runner.Forecast(kind, values, horizon)
		if err == nil && len(out.Forecasts) != horizon {
			err = fmt.Errorf("%s returned %d forecasts, want %d", kind, len(out.Forecasts), horizon)
		}
		if err != nil {
			res.Failures = append(res.Failures, Failure{Kind: kind, Err: err})
			errs = append(errs, fmt.Errorf("%s: %w", kind, err))
			continue
		}
		if len(out.Intervals) != horizon {
			out.Intervals = forecast.Intervals(out.Forecasts, 0)
		}
		w := weights.Of(kind)
		if w <= 0 {
			continue
		}
		res.Members[kind] = out
		res.Weights[kind] = w
		survivors = append(survivors, kind)
		total += w
	}

	if len(survivors) == 0 {
		if len(errs) == 0 {
			errs = append(errs, errors.New("no member carries positive weight"))
		}
		return nil, forecast.ModelFailure(op, errors.Join(errs...))
	}

	n := len(values)
	pred := make([]float64, horizon)
	lo80 := make([]float64, horizon)
	hi80 := make([]float64, horizon)
	lo95 := make([]float64, horizon)
	hi95 := make([]float64, horizon)
	fitted := make([]float64, n)

	for _, kind := range survivors {
		w := res.Weights[kind] / total
		res.Weights[kind] = w

		out := res.Members[kind]
		floats.AddScaled(pred, w, out.Forecasts)
		floats.AddScaled(lo80, w, column(out.Intervals, func(iv forecast.Interval) float64 { return iv.Lower80 }))
		floats.AddScaled(hi80, w, column(out.Intervals, func(iv forecast.Interval) float64 { return iv.Upper80 }))
		floats.AddScaled(lo95, w, column(out.Intervals, func(iv forecast.Interval) float64 { return iv.Lower95 }))
		floats.AddScaled(hi95, w, column(out.Intervals, func(iv forecast.Interval) float64 { return iv.Upper95 }))
		if len(out.Fitted) == n {
			floats.AddScaled(fitted, w, out.Fitted)
		} else {
			floats.AddScaled(fitted, w, values)
		}
	}

	intervals := make([]forecast.Interval, horizon)
	for i := range intervals {
		intervals[i] = forecast.Interval{Lower80: lo80[i], Upper80: hi80[i], Lower95: lo95[i], Upper95: hi95[i]}
	}
	residuals := make([]float64, n)
	floats.SubTo(residuals, values, fitted)

	params := make(map[string]float64, len(res.Weights))
	for kind, w := range res.Weights {
		params["weight_"+kind.String()] = w
	}

	res.Output = &forecast.Output{
		Kind:      forecast.KindEnsemble,
		Forecasts: pred,
		Intervals: intervals,
		Fitted:    fitted,
		Residuals: residuals,
		Params:    params,
	}
	return res, nil
}

// column extracts one bound per horizon.
func column(ivs []forecast.Interval, pick func(forecast.Interval) float64) []float64 {
	out := make([]float64, len(ivs))
	for i, iv := range ivs {
		out[i] = pick(iv)
	}
	return out
}
