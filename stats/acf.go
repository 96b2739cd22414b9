package stats

import "math"

// ACF calculates the Autocorrelation Function of values.
// Returns ACF values for lags 0 to maxLag, or nil for a constant series.
func ACF(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := Mean(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}

	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (values[i] - mean) * (values[i-k] - mean)
		}
		acf[k] = sum / variance
	}

	return acf
}

// Autocorrelation returns the lag-k autocorrelation normalised by the number
// of overlapping pairs:
//
//	Σ_{t≥lag} (x_t−μ)(x_{t−lag}−μ) / ((n−lag) · popvar)
//
// It returns 0 when lag is out of range or the series is constant.
func Autocorrelation(values []float64, lag int) float64 {
	n := len(values)
	if lag <= 0 || lag >= n {
		return 0
	}
	variance := Variance(values)
	if variance == 0 {
		return 0
	}

	mean := Mean(values)
	sum := 0.0
	for t := lag; t < n; t++ {
		sum += (values[t] - mean) * (values[t-lag] - mean)
	}
	return sum / (float64(n-lag) * variance)
}

// ConfidenceBound returns the approximate 95% significance bound ±1.96/√n
// for sample autocorrelations.
func ConfidenceBound(n int) float64 {
	if n <= 0 {
		return 0
	}
	return 1.96 / math.Sqrt(float64(n))
}

// SignificantLags returns the lags (index ≥ 1) whose ACF value exceeds confBound
// in magnitude.
func SignificantLags(values []float64, confBound float64) []int {
	var significant []int
	for i := 1; i < len(values); i++ { // Skip lag 0
		if math.Abs(values[i]) > confBound {
			significant = append(significant, i)
		}
	}
	return significant
}
