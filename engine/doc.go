// Package engine turns daily shop aggregates into revenue, customer and
// inventory forecasts.
//
// An Engine reads history from a SeriesSource, picks and runs models through
// a single dispatch over forecast.Kind, shapes the result into daily points
// with weekly and monthly roll-ups, scores it on a held-out tail and writes
// it to a ResultSink:
//
//	eng, err := engine.New(engine.DefaultConfig(), store, store, log, m)
//	rev, err := eng.Revenue(ctx, "shop.example.com", 30, engine.RevenueOptions{Scenarios: true})
//	inv, err := eng.Inventory(ctx, "shop.example.com", 30)
//
// Every generator refuses to fit a series below its minimum length and
// returns a *forecast.Error with reason insufficient_data instead.
//
// Batch runs several generators concurrently and reports failures per
// generator:
//
//	res := eng.Batch(ctx, shop, []string{"revenue", "customers", "inventory"}, 30)
package engine
