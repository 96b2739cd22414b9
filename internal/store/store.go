// Package store holds what the SQL repositories share: the lookback cutoff
// and the assembly of per-product series from grouped query rows.
package store

import (
	"fmt"
	"time"

	"github.com/sartorproj/goforecast/engine"
	"github.com/sartorproj/goforecast/timeseries"
)

// SnapshotMetric is the metric_snapshots.metric value holding daily sales.
const SnapshotMetric = "sales"

// Cutoff returns the first day inside a lookback window ending on now's day.
func Cutoff(now time.Time, lookbackDays int) time.Time {
	return timeseries.Day(now).AddDate(0, 0, -lookbackDays)
}

// Products collects (product, day, units) rows ordered by product then day.
type Products struct {
	ids []string
	obs map[string][]timeseries.Observation
}

// NewProducts returns an empty collector.
func NewProducts() *Products {
	return &Products{obs: make(map[string][]timeseries.Observation)}
}

// Add appends one row. Rows of a product must arrive in day order.
func (p *Products) Add(productID, day string, units float64) {
	if _, ok := p.obs[productID]; !ok {
		p.ids = append(p.ids, productID)
	}
	p.obs[productID] = append(p.obs[productID], timeseries.Observation{Date: day, Value: units})
}

// Series validates the collected rows into one series per product, in the
// order products were first added.
func (p *Products) Series() ([]engine.ProductSeries, error) {
	out := make([]engine.ProductSeries, 0, len(p.ids))
	for _, id := range p.ids {
		s, err := timeseries.FromObservations(id, p.obs[id])
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", id, err)
		}
		out = append(out, engine.ProductSeries{ProductID: id, Series: s})
	}
	return out, nil
}
