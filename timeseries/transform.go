package timeseries

// Difference returns values[i] - values[i-1] for i = 1..n-1.
func Difference(values []float64) []float64 {
	if len(values) < 2 {
		return []float64{}
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = values[i] - values[i-1]
	}
	return out
}

// DifferenceN applies d rounds of Difference.
func DifferenceN(values []float64, d int) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	for i := 0; i < d; i++ {
		out = Difference(out)
	}
	return out
}

// SeasonalDifference returns values[i] - values[i-s] for i = s..n-1.
func SeasonalDifference(values []float64, s int) []float64 {
	if s <= 0 || len(values) <= s {
		return []float64{}
	}
	out := make([]float64, len(values)-s)
	for i := s; i < len(values); i++ {
		out[i-s] = values[i] - values[i-s]
	}
	return out
}

// Integrate reverses d rounds of differencing. history is the undifferenced
// series preceding deltas; round k is anchored on the last value of history
// differenced k times, and deltas are cumulatively summed from that anchor.
//
//	Integrate(DifferenceN(v, d), v[:d], d) == v[d:]
//
// history must hold at least d values.
func Integrate(deltas, history []float64, d int) []float64 {
	result := make([]float64, len(deltas))
	copy(result, deltas)
	if d <= 0 || len(history) < d {
		return result
	}

	anchors := make([]float64, d)
	level := history
	for k := 0; k < d; k++ {
		anchors[k] = level[len(level)-1]
		level = Difference(level)
	}

	// Undo the innermost differencing first.
	for k := d - 1; k >= 0; k-- {
		prev := anchors[k]
		for j := range result {
			result[j] += prev
			prev = result[j]
		}
	}
	return result
}

// SeasonalIntegrate reverses one round of seasonal differencing at period s
// using the last s values of history: y[t] = z[t] + y[t-s].
func SeasonalIntegrate(deltas, history []float64, s int) []float64 {
	result := make([]float64, len(deltas))
	copy(result, deltas)
	if s <= 0 || len(history) < s {
		return result
	}

	base := history[len(history)-s:]
	for j := range result {
		if j < s {
			result[j] += base[j]
		} else {
			result[j] += result[j-s]
		}
	}
	return result
}
