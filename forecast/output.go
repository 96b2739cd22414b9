package forecast

import (
	"math"

	"github.com/sartorproj/goforecast/stats"
)

// Normal quantiles for the two reported confidence levels.
const (
	Z80 = 1.28
	Z95 = 1.96
)

// Interval holds the 80% and 95% bounds of a single forecast horizon.
type Interval struct {
	Lower80 float64 `json:"lower_80"`
	Upper80 float64 `json:"upper_80"`
	Lower95 float64 `json:"lower_95"`
	Upper95 float64 `json:"upper_95"`
}

// Output is what every model produces for a fitted series.
type Output struct {
	Kind      Kind
	Forecasts []float64 // length exactly h
	Intervals []Interval
	Fitted    []float64 // aligned with the input series
	Residuals []float64
	Params    map[string]float64
}

// Intervals computes ŷ_h ± z·σ·√h for each horizon h = 1..len(points).
func Intervals(points []float64, sigma float64) []Interval {
	out := make([]Interval, len(points))
	for i, p := range points {
		w := sigma * math.Sqrt(float64(i+1))
		out[i] = Interval{
			Lower80: p - Z80*w,
			Upper80: p + Z80*w,
			Lower95: p - Z95*w,
			Upper95: p + Z95*w,
		}
	}
	return out
}

// Sanitize replaces NaN/Inf everywhere with 0 and restores the ordering
// lower95 ≤ lower80 ≤ forecast ≤ upper80 ≤ upper95 for every horizon.
func (o *Output) Sanitize() {
	for i := range o.Forecasts {
		o.Forecasts[i] = stats.Finite(o.Forecasts[i])
	}
	for i := range o.Fitted {
		o.Fitted[i] = stats.Finite(o.Fitted[i])
	}
	for i := range o.Residuals {
		o.Residuals[i] = stats.Finite(o.Residuals[i])
	}
	for k, v := range o.Params {
		o.Params[k] = stats.Finite(v)
	}

	if len(o.Intervals) != len(o.Forecasts) {
		o.Intervals = Intervals(o.Forecasts, 0)
	}
	for i := range o.Intervals {
		p := o.Forecasts[i]
		iv := &o.Intervals[i]
		iv.Lower80 = math.Min(stats.Finite(iv.Lower80), p)
		iv.Upper80 = math.Max(stats.Finite(iv.Upper80), p)
		iv.Lower95 = math.Min(stats.Finite(iv.Lower95), iv.Lower80)
		iv.Upper95 = math.Max(stats.Finite(iv.Upper95), iv.Upper80)
	}
}
