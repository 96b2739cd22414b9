// Package smoothing implements the exponential smoothing family: simple (SES),
// double (Holt's linear trend) and triple (Holt-Winters, multiplicative
// seasonality) smoothing.
//
// Every model follows the same lifecycle:
//
//	model := smoothing.NewDES(0.3, 0.1)
//	if err := model.Fit(series); err != nil {
//	    return err
//	}
//	out, err := model.Output(30) // forecasts, intervals, fitted values
//
// Holt-Winters weights are usually chosen by grid search:
//
//	hw, err := smoothing.FitBest(series, 7, smoothing.DefaultGrid())
//
// Intervals are ŷ ± z·σ·√h where σ is the population standard deviation of
// the in-sample residuals.
package smoothing
