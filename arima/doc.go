// Package arima implements AutoRegressive Integrated Moving Average (ARIMA) models.
//
// ARIMA models are used for analyzing and forecasting time series data. An ARIMA(p,d,q)
// model combines:
//   - AR(p): AutoRegressive component with p lags
//   - I(d): Integration (differencing) of order d
//   - MA(q): Moving Average component with q lags
//
// # Basic Usage
//
//	model := arima.New(2, 1, 2)
//	if err := model.Fit(series); err != nil {
//	    return err
//	}
//	out, err := model.Output(30)
//
// # Estimation
//
// The differenced series is demeaned into the intercept. Pure AR models are
// estimated with Yule-Walker; models with MA terms use the Hannan-Rissanen
// two-stage regression, falling back to Yule-Walker with zero MA terms when the
// regression is degenerate. Coefficients are clamped to (-0.99, 0.99) and
// residuals are recomputed recursively with the final coefficients. The
// procedure is deterministic: fitting the same series twice gives identical
// models.
//
// The ARMA recursion is exported so seasonal models can reuse it with extra
// lags at multiples of the period:
//
//	est := arima.EstimateARMA(y, arima.Lags(1, 1, 7), arima.Lags(1, 1, 7))
//
// # Forecasting
//
// Forecasts run the recursion forward with zero future innovations and are
// integrated back onto the original scale. Intervals are ŷ ± z·σ·√h with σ²
// the population variance of the residuals.
package arima
