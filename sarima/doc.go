// Package sarima implements Seasonal ARIMA (SARIMA) models for time series with seasonality.
//
// SARIMA models extend ARIMA to handle seasonal patterns. A SARIMA(p,d,q)(P,D,Q)[m] model includes:
//   - Non-seasonal components: AR(p), I(d), MA(q)
//   - Seasonal components: SAR(P), SI(D), SMA(Q) at seasonal period m
//
// Seasonal terms enter the recursion additively as extra lags at k·m, and
// are estimated together with the regular terms by arima.EstimateARMA.
//
// # Basic Usage
//
// Daily data with a weekly cycle:
//
//	// SARIMA(1,1,1)(1,1,1)[7]
//	model := sarima.New(1, 1, 1, 1, 1, 1, 7)
//
//	if err := model.Fit(series); err != nil {
//	    return err
//	}
//
//	out, _ := model.Output(30)
//
// At least three full seasons (3·m points) are required.
//
// # Integration
//
// Fit differences d times and then seasonally D times. Forecasts are
// integrated in the reverse order: seasonal first, then non-seasonal.
package sarima
