// Package stats provides the numeric building blocks shared by the
// forecasting models: population moments, autocorrelation, the Yule-Walker
// and least-squares estimators, and the Ljung-Box residual diagnostic.
//
// All variances are population variances (denominator n).
//
//	v := stats.Variance(values)
//	r7 := stats.Autocorrelation(values, 7)
//
//	// AR(2) coefficients via Levinson-Durbin
//	phi := stats.YuleWalker(values, 2)
//
//	// Ordinary least squares, one regressor row per observation
//	beta, err := stats.LeastSquares(rows, y)
//
//	lb := stats.LjungBox(residuals, 10, p+q)
//	if lb != nil && lb.PValue > 0.05 {
//	    // Residuals are white noise
//	}
package stats
