package arima

import (
	"math"
	"sort"

	"github.com/sartorproj/goforecast/stats"
)

// CoeffBound clamps every estimated coefficient to (-CoeffBound, CoeffBound).
const CoeffBound = 0.99

// ARMA is a demeaned ARMA recursion over arbitrary lag sets:
//
//	y_t = μ + Σ AR[i]·(y_{t-ARLags[i]} − μ) + Σ MA[j]·e_{t-MALags[j]} + e_t
//
// Seasonal terms are expressed as additional lags at multiples of the period.
type ARMA struct {
	Intercept float64
	ARLags    []int
	AR        []float64
	MALags    []int
	MA        []float64
}

// Lags returns 1..p followed by period·1..period·sp with duplicates removed.
func Lags(p, sp, period int) []int {
	seen := make(map[int]bool)
	var lags []int
	add := func(l int) {
		if l > 0 && !seen[l] {
			seen[l] = true
			lags = append(lags, l)
		}
	}
	for i := 1; i <= p; i++ {
		add(i)
	}
	for k := 1; k <= sp; k++ {
		add(k * period)
	}
	sort.Ints(lags)
	return lags
}

func maxLag(lags ...[]int) int {
	m := 0
	for _, ls := range lags {
		for _, l := range ls {
			if l > m {
				m = l
			}
		}
	}
	return m
}

func consecutive(lags []int) bool {
	for i, l := range lags {
		if l != i+1 {
			return false
		}
	}
	return true
}

func clampCoeffs(c []float64) {
	for i, v := range c {
		c[i] = math.Max(-CoeffBound, math.Min(CoeffBound, stats.Finite(v)))
	}
}

// EstimateARMA fits the recursion to y deterministically. Pure AR models with
// consecutive lags use Yule-Walker. Otherwise a Hannan-Rissanen two-stage
// regression is tried: a long autoregression estimates the innovations, then
// y is regressed on its lags and the lagged innovations. When the regression
// is singular, under-determined or produces a larger residual sum of squares
// than the autoregressive fallback, the fallback is used.
func EstimateARMA(y []float64, arLags, maLags []int) *ARMA {
	mu := stats.Mean(y)
	z := make([]float64, len(y))
	for i, v := range y {
		z[i] = v - mu
	}

	fallback := &ARMA{
		Intercept: mu,
		ARLags:    append([]int(nil), arLags...),
		AR:        yuleWalkerAt(z, arLags),
		MALags:    append([]int(nil), maLags...),
		MA:        make([]float64, len(maLags)),
	}
	clampCoeffs(fallback.AR)

	if stats.Variance(z) == 0 || (len(maLags) == 0 && consecutive(arLags)) {
		return fallback
	}

	hr, ok := hannanRissanen(z, arLags, maLags)
	if !ok {
		return fallback
	}
	hr.Intercept = mu

	if sse(hr.Residuals(y)) < sse(fallback.Residuals(y)) {
		return hr
	}
	return fallback
}

// yuleWalkerAt solves Yule-Walker up to the largest lag and keeps the
// coefficients of the requested lags.
func yuleWalkerAt(z []float64, lags []int) []float64 {
	out := make([]float64, len(lags))
	order := maxLag(lags)
	if order == 0 || order >= len(z) {
		return out
	}
	phi := stats.YuleWalker(z, order)
	for i, l := range lags {
		out[i] = phi[l-1]
	}
	return out
}

func hannanRissanen(z []float64, arLags, maLags []int) (*ARMA, bool) {
	n := len(z)
	m := maxLag(arLags, maLags)

	long := m + 3
	if long < 10 {
		long = 10
	}
	if long > n/3 {
		long = n / 3
	}
	if long < 1 {
		return nil, false
	}

	// Stage 1: innovations from a long autoregression.
	phi := stats.YuleWalker(z, long)
	e := make([]float64, n)
	for t := long; t < n; t++ {
		pred := 0.0
		for i, c := range phi {
			pred += c * z[t-i-1]
		}
		e[t] = z[t] - pred
	}

	// Stage 2: regress z_t on lagged z and lagged innovations.
	start := long + m
	cols := len(arLags) + len(maLags)
	if cols == 0 || n-start < cols+1 {
		return nil, false
	}
	rows := make([][]float64, 0, n-start)
	target := make([]float64, 0, n-start)
	for t := start; t < n; t++ {
		row := make([]float64, 0, cols)
		for _, l := range arLags {
			row = append(row, z[t-l])
		}
		for _, l := range maLags {
			row = append(row, e[t-l])
		}
		rows = append(rows, row)
		target = append(target, z[t])
	}

	beta, err := stats.LeastSquares(rows, target)
	if err != nil {
		return nil, false
	}

	est := &ARMA{
		ARLags: append([]int(nil), arLags...),
		AR:     append([]float64(nil), beta[:len(arLags)]...),
		MALags: append([]int(nil), maLags...),
		MA:     append([]float64(nil), beta[len(arLags):]...),
	}
	clampCoeffs(est.AR)
	clampCoeffs(est.MA)
	return est, true
}

func sse(residuals []float64) float64 {
	s := 0.0
	for _, r := range residuals {
		s += r * r
	}
	if math.IsNaN(s) {
		return math.Inf(1)
	}
	return s
}

// predict returns the one-step prediction for index t given the history in y
// and the residuals e; lags reaching before the start are ignored.
func (a *ARMA) predict(y, e []float64, t int) float64 {
	pred := a.Intercept
	for i, l := range a.ARLags {
		if t-l >= 0 {
			pred += a.AR[i] * (y[t-l] - a.Intercept)
		}
	}
	for i, l := range a.MALags {
		if t-l >= 0 {
			pred += a.MA[i] * e[t-l]
		}
	}
	return pred
}

// Residuals recomputes the one-step residuals of y recursively.
func (a *ARMA) Residuals(y []float64) []float64 {
	e := make([]float64, len(y))
	for t := range y {
		e[t] = y[t] - a.predict(y, e, t)
	}
	return e
}

// Forecast extends y by steps predictions. Future innovations are zero.
func (a *ARMA) Forecast(y, residuals []float64, steps int) []float64 {
	n := len(y)
	extY := make([]float64, n+steps)
	copy(extY, y)
	extE := make([]float64, n+steps)
	copy(extE, residuals)

	for t := n; t < n+steps; t++ {
		extY[t] = a.predict(extY, extE, t)
	}

	out := make([]float64, steps)
	copy(out, extY[n:])
	return out
}

// Coeffs returns the coefficients of the given lags, zero where a lag is not
// part of the recursion.
func (a *ARMA) Coeffs(lags []int, ma bool) []float64 {
	src, srcLags := a.AR, a.ARLags
	if ma {
		src, srcLags = a.MA, a.MALags
	}
	out := make([]float64, len(lags))
	for i, l := range lags {
		for j, sl := range srcLags {
			if sl == l {
				out[i] = src[j]
			}
		}
	}
	return out
}
