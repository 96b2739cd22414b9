package engine

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sartorproj/goforecast/forecast"
)

// BatchKinds are the generators Batch can run.
var BatchKinds = []string{MetricRevenue, MetricCustomers, MetricInventory}

// Failures maps a generator name to its error.
type Failures map[string]error

// MarshalJSON renders each error as its structured payload.
func (f Failures) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(f))
	for k, err := range f {
		out[k] = forecast.Payload(err)
	}
	return json.Marshal(out)
}

// BatchResult holds the generators that succeeded and the errors of those
// that did not.
type BatchResult struct {
	Shop      string             `json:"shop"`
	Revenue   *RevenueForecast   `json:"revenue,omitempty"`
	Customers *CustomerForecast  `json:"customers,omitempty"`
	Inventory *InventoryForecast `json:"inventory,omitempty"`
	Errors    Failures           `json:"errors,omitempty"`
	Generated time.Time          `json:"generated"`
}

// Batch runs the named generators concurrently, at most
// Config.BatchConcurrency at a time. A failing or unknown kind is recorded in
// Errors and never stops the others. Revenue includes scenarios.
func (e *Engine) Batch(ctx context.Context, shop string, kinds []string, horizon int) *BatchResult {
	res := &BatchResult{Shop: shop, Errors: make(Failures), Generated: e.now().UTC()}
	var mu sync.Mutex
	fail := func(kind string, err error) {
		mu.Lock()
		res.Errors[kind] = err
		mu.Unlock()
	}

	var g errgroup.Group
	g.SetLimit(e.cfg.BatchConcurrency)
	seen := make(map[string]bool)
	for _, raw := range kinds {
		kind := strings.ToLower(strings.TrimSpace(raw))
		if seen[kind] {
			continue
		}
		seen[kind] = true

		switch kind {
		case MetricRevenue:
			g.Go(func() error {
				out, err := e.Revenue(ctx, shop, horizon, RevenueOptions{Scenarios: true})
				if err != nil {
					fail(kind, err)
					return nil
				}
				mu.Lock()
				res.Revenue = out
				mu.Unlock()
				return nil
			})
		case MetricCustomers:
			g.Go(func() error {
				out, err := e.Customers(ctx, shop, horizon)
				if err != nil {
					fail(kind, err)
					return nil
				}
				mu.Lock()
				res.Customers = out
				mu.Unlock()
				return nil
			})
		case MetricInventory:
			g.Go(func() error {
				out, err := e.Inventory(ctx, shop, horizon)
				if err != nil {
					fail(kind, err)
					return nil
				}
				mu.Lock()
				res.Inventory = out
				mu.Unlock()
				return nil
			})
		default:
			fail(raw, forecast.InvalidInput("batch", "unknown forecast kind %q, want one of %s",
				raw, strings.Join(BatchKinds, ", ")))
		}
	}
	_ = g.Wait()

	if len(res.Errors) > 0 {
		e.log.Warn("batch completed with errors", "shop", shop, "failed", len(res.Errors))
	}
	return res
}
