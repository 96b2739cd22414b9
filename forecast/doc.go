// Package forecast holds the vocabulary shared by every model and generator:
// the model Kind, the Output a fitted model produces, confidence Intervals and
// the structured Error type.
//
// Intervals widen with the square root of the horizon:
//
//	iv := forecast.Intervals(points, sigma)
//	// iv[h-1].Lower95 == points[h-1] - 1.96*sigma*sqrt(h)
//
// Errors carry a machine-readable reason:
//
//	if errors.Is(err, forecast.ErrInsufficientData) {
//	    // not enough history
//	}
package forecast
