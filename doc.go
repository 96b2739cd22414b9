// Package goforecast forecasts daily e-commerce metrics with classical time
// series models.
//
// A shop's daily revenue, new customers and per-product unit sales are fitted
// with exponential smoothing (simple, double and Holt-Winters), ARIMA and
// SARIMA, or with a weighted ensemble of all five. Revenue is routed to a
// model by a seasonality and history-length rule; customers always use the
// ensemble; inventory uses Holt-Winters per product and derives safety stock
// and reorder points.
//
// It follows the methodology from "Forecasting: Principles and Practice".
//
// # Quick Start
//
// Fit a single model:
//
//	series := timeseries.New(values)
//	model := arima.New(1, 1, 1)
//	if err := model.Fit(series); err != nil {
//		return err
//	}
//	out, _ := model.Output(14) // forecasts with 80% and 95% intervals
//
// Run a generator against a repository:
//
//	eng, _ := engine.New(engine.DefaultConfig(), repo, repo, log, metrics.New(nil))
//	res, err := eng.Revenue(ctx, "shop.example", 30, engine.RevenueOptions{Scenarios: true})
//
// # Packages
//
//   - timeseries: daily series, CSV loading, differencing and integration
//   - stats: moments, autocorrelation, Ljung-Box, least squares
//   - smoothing: SES, DES and multiplicative Holt-Winters with grid search
//   - arima, sarima: Hannan-Rissanen fitted (seasonal) ARIMA
//   - ensemble: weighted combination of model forecasts
//   - selector: seasonality detection and model choice
//   - accuracy: hold-out MAPE, MAE and RMSE
//   - engine: revenue, customer, inventory and batch generators
//
// The forecastctl command runs the generators from CSV, SQLite or Postgres.
//
// # References
//
//   - Hyndman, R.J., & Athanasopoulos, G. (2021). Forecasting: Principles and Practice
//   - Box, G. E. P., & Jenkins, G. M. (1976). Time Series Analysis: Forecasting and Control
package goforecast
