// Package timeseries provides daily time series data structures and transforms.
//
// A Series holds calendar-day timestamps and non-negative values. Gaps between
// days are allowed; they simply make the series shorter and are never filled.
//
// # Creating a Series
//
//	series, err := timeseries.NewDaily(dates, values)
//
//	// From raw (ISO day, value) pairs as a data source returns them
//	series, err := timeseries.FromObservations("revenue", obs)
//
//	// Ordering only, synthetic days from the Unix epoch
//	series := timeseries.New([]float64{100, 102, 105})
//
// # Differencing and Integration
//
//	d1 := timeseries.Difference(values)           // length n-1
//	s7 := timeseries.SeasonalDifference(values, 7) // length n-7
//
//	// Integrate is the left inverse of DifferenceN given the preceding history
//	back := timeseries.Integrate(timeseries.DifferenceN(values, 2), values[:2], 2)
//	// back == values[2:]
//
// Forecasts produced on a differenced scale are integrated with the full
// history so that the first forecast is anchored on the last observation.
//
// # Loading from CSV
//
//	series, err := timeseries.LoadCSV("revenue.csv", nil) // date,value
//
//	// One series per product: product_id,date,value
//	byProduct, ids, err := timeseries.LoadGroupedCSV(f, nil)
package timeseries
