// Package accuracy scores in-sample fitted values against a held-out tail
// of the actual series.
package accuracy

import (
	"math"

	"github.com/shopspring/decimal"
)

// DefaultHoldoutFraction holds out the last 20% of the series.
const DefaultHoldoutFraction = 0.2

// Record holds the error metrics of one evaluation. MAPE is a percentage.
type Record struct {
	MAPE       float64 `json:"mape"`
	MAE        float64 `json:"mae"`
	RMSE       float64 `json:"rmse"`
	SampleSize int     `json:"sample_size"`
}

// HoldoutSize returns max(1, ceil(fraction·n)), capped at n.
func HoldoutSize(n int, fraction float64) int {
	if n <= 0 {
		return 0
	}
	size := int(math.Ceil(fraction*float64(n) - 1e-9))
	if size < 1 {
		size = 1
	}
	if size > n {
		size = n
	}
	return size
}

// Evaluate compares the last HoldoutSize(len(actual)) actual values with the
// fitted values at the same positions. Actual zeros contribute nothing to the
// MAPE numerator but still count in its denominator. Metrics are rounded to
// two decimals; an empty or misaligned input yields the zero Record.
func Evaluate(actual, fitted []float64, fraction float64) Record {
	n := len(actual)
	if n == 0 || len(fitted) < n {
		return Record{}
	}
	size := HoldoutSize(n, fraction)
	act := actual[n-size:]
	fit := fitted[n-size : n]

	var mape, mae, sse float64
	for i := range act {
		diff := act[i] - fit[i]
		if act[i] != 0 {
			mape += math.Abs(diff / act[i])
		}
		mae += math.Abs(diff)
		sse += diff * diff
	}
	count := float64(size)

	return Record{
		MAPE:       round2(mape / count * 100),
		MAE:        round2(mae / count),
		RMSE:       round2(math.Sqrt(sse / count)),
		SampleSize: size,
	}
}

func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
