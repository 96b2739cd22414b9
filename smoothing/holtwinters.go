package smoothing

import (
	"math"

	"github.com/sartorproj/goforecast/forecast"
	"github.com/sartorproj/goforecast/stats"
	"github.com/sartorproj/goforecast/timeseries"
)

// DefaultSeasonLength is the weekly cycle of daily data.
const DefaultSeasonLength = 7

// HoltWinters is triple exponential smoothing with additive trend and
// multiplicative seasonality.
type HoltWinters struct {
	Alpha        float64
	Beta         float64
	Gamma        float64
	SeasonLength int

	Level     float64
	Trend     float64
	Seasonals []float64
	MSE       float64 // in-sample mean squared one-step error

	fitted     bool
	n          int
	fittedVals []float64
	residuals  []float64
}

// NewHoltWinters creates a Holt-Winters model with fixed weights.
func NewHoltWinters(alpha, beta, gamma float64, seasonLength int) *HoltWinters {
	return &HoltWinters{Alpha: alpha, Beta: beta, Gamma: gamma, SeasonLength: seasonLength}
}

// Fit runs the recursion over the whole series. The series must cover at
// least two full seasons.
func (m *HoltWinters) Fit(series *timeseries.Series) error {
	if err := m.validate(series.Len()); err != nil {
		return err
	}
	m.apply(run(series.Values, m.SeasonLength, m.Alpha, m.Beta, m.Gamma))
	return nil
}

func (m *HoltWinters) validate(n int) error {
	const op = "triple_exponential"
	if m.SeasonLength < 1 {
		return forecast.InvalidInput(op, "season length must be positive, got %d", m.SeasonLength)
	}
	for _, w := range []struct {
		name string
		v    float64
	}{{"alpha", m.Alpha}, {"beta", m.Beta}, {"gamma", m.Gamma}} {
		if err := checkWeight(op, w.name, w.v); err != nil {
			return err
		}
	}
	if n < 2*m.SeasonLength {
		return forecast.InsufficientData(op, 2*m.SeasonLength, n)
	}
	return nil
}

func (m *HoltWinters) apply(st state) {
	m.Level = st.level
	m.Trend = st.trend
	m.Seasonals = st.seasonals
	m.MSE = st.mse
	m.n = len(st.fitted)
	m.fittedVals = st.fitted
	m.residuals = st.residuals
	m.fitted = true
}

// Predict returns (level + h·trend)·seasonal[(n+h-1) mod s] for h = 1..steps.
func (m *HoltWinters) Predict(steps int) ([]float64, error) {
	if !m.fitted {
		return nil, errNotFitted
	}
	if err := checkSteps("triple_exponential", steps); err != nil {
		return nil, err
	}
	s := m.SeasonLength
	out := make([]float64, steps)
	for h := 1; h <= steps; h++ {
		out[h-1] = (m.Level + float64(h)*m.Trend) * m.Seasonals[(m.n+h-1)%s]
	}
	return out, nil
}

// Output forecasts steps ahead with residual-based intervals.
func (m *HoltWinters) Output(steps int) (*forecast.Output, error) {
	points, err := m.Predict(steps)
	if err != nil {
		return nil, err
	}
	return output(forecast.KindHoltWinters, points, m.fittedVals, m.residuals, map[string]float64{
		"alpha":         m.Alpha,
		"beta":          m.Beta,
		"gamma":         m.Gamma,
		"season_length": float64(m.SeasonLength),
		"mse":           m.MSE,
	}), nil
}

// Residuals returns a copy of the in-sample one-step residuals.
func (m *HoltWinters) Residuals() []float64 {
	if !m.fitted {
		return nil
	}
	return append([]float64(nil), m.residuals...)
}

type state struct {
	level     float64
	trend     float64
	seasonals []float64
	fitted    []float64
	residuals []float64
	mse       float64
}

// ratio returns a/b, or 0 when b is 0.
func ratio(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// run executes one Holt-Winters pass. x must hold at least 2·s values.
func run(x []float64, s int, alpha, beta, gamma float64) state {
	n := len(x)
	first := stats.Mean(x[:s])
	second := stats.Mean(x[s : 2*s])

	level := first
	trend := (second - first) / float64(s)
	seasonals := make([]float64, s)
	for i := 0; i < s; i++ {
		seasonals[i] = ratio(x[i], level)
	}

	fitted := make([]float64, n)
	residuals := make([]float64, n)
	fitted[0] = level * seasonals[0]
	residuals[0] = x[0] - fitted[0]

	sse := residuals[0] * residuals[0]
	for t := 1; t < n; t++ {
		idx := t % s
		pred := (level + trend) * seasonals[idx]
		fitted[t] = pred
		residuals[t] = x[t] - pred
		sse += residuals[t] * residuals[t]

		deseasoned := x[t]
		if seasonals[idx] != 0 {
			deseasoned = x[t] / seasonals[idx]
		}
		prev := level
		level = alpha*deseasoned + (1-alpha)*(prev+trend)
		trend = beta*(level-prev) + (1-beta)*trend
		seasonals[idx] = gamma*ratio(x[t], level) + (1-gamma)*seasonals[idx]
	}

	return state{
		level:     level,
		trend:     trend,
		seasonals: seasonals,
		fitted:    fitted,
		residuals: residuals,
		mse:       sse / float64(n),
	}
}

// Range is an inclusive parameter range walked in fixed steps.
type Range struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step"`
}

// Values expands the range. Steps are counted in integers so floating-point
// accumulation never drops or adds an endpoint.
func (r Range) Values() []float64 {
	if r.Step <= 0 || r.Max < r.Min {
		return []float64{r.Min}
	}
	count := int(math.Floor((r.Max-r.Min)/r.Step+1e-9)) + 1
	out := make([]float64, count)
	for i := range out {
		out[i] = r.Min + float64(i)*r.Step
	}
	return out
}

// Grid is the Holt-Winters parameter search space.
type Grid struct {
	Alpha          Range `yaml:"alpha"`
	Beta           Range `yaml:"beta"`
	Gamma          Range `yaml:"gamma"`
	MaxEvaluations int   `yaml:"max_evaluations"` // 0 means unbounded
}

// DefaultGrid searches α ∈ {0.1 … 0.9} and β, γ ∈ {0.01, 0.11, 0.21}.
func DefaultGrid() Grid {
	return Grid{
		Alpha:          Range{Min: 0.1, Max: 0.9, Step: 0.2},
		Beta:           Range{Min: 0.01, Max: 0.3, Step: 0.1},
		Gamma:          Range{Min: 0.01, Max: 0.3, Step: 0.1},
		MaxEvaluations: 45,
	}
}

// FitBest grid-searches (α, β, γ) minimising in-sample MSE and returns the
// fitted winner. Ties keep the first combination visited (α outermost).
func FitBest(series *timeseries.Series, seasonLength int, grid Grid) (*HoltWinters, error) {
	alphas, betas, gammas := grid.Alpha.Values(), grid.Beta.Values(), grid.Gamma.Values()

	best := NewHoltWinters(alphas[0], betas[0], gammas[0], seasonLength)
	if err := best.validate(series.Len()); err != nil {
		return nil, err
	}

	var (
		bestState state
		found     bool
		evals     int
	)
search:
	for _, a := range alphas {
		for _, b := range betas {
			for _, g := range gammas {
				if grid.MaxEvaluations > 0 && evals >= grid.MaxEvaluations {
					break search
				}
				evals++
				st := run(series.Values, seasonLength, a, b, g)
				if math.IsNaN(st.mse) || math.IsInf(st.mse, 0) {
					continue
				}
				if !found || st.mse < bestState.mse {
					bestState = st
					best.Alpha, best.Beta, best.Gamma = a, b, g
					found = true
				}
			}
		}
	}

	if !found {
		bestState = run(series.Values, seasonLength, best.Alpha, best.Beta, best.Gamma)
	}
	best.apply(bestState)
	return best, nil
}
