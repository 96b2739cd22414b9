// Package memory is an in-process Repository for tests and CSV input.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sartorproj/goforecast/engine"
	"github.com/sartorproj/goforecast/timeseries"
)

type seriesKey struct {
	shop   string
	metric string
}

type modelKey struct {
	shop       string
	modelType  string
	metricType string
}

// Store keeps series and results in maps guarded by a mutex.
type Store struct {
	mu sync.RWMutex

	now       func() time.Time
	series    map[seriesKey]*timeseries.Series
	products  map[string]map[string]*timeseries.Series
	models    map[modelKey]engine.ModelRecord
	forecasts map[string][]engine.ForecastRow  // by model ID
	inventory map[string][]engine.InventoryRow // by shop
}

var _ engine.Repository = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock sets the day lookback windows end on.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		now:       time.Now,
		series:    make(map[seriesKey]*timeseries.Series),
		products:  make(map[string]map[string]*timeseries.Series),
		models:    make(map[modelKey]engine.ModelRecord),
		forecasts: make(map[string][]engine.ForecastRow),
		inventory: make(map[string][]engine.InventoryRow),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PutSeries stores the daily series of a metric, replacing any previous one.
func (s *Store) PutSeries(shop, metric string, series *timeseries.Series) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.series[seriesKey{shop, metric}] = series.Copy()
}

// PutProduct stores the daily unit sales of a product.
func (s *Store) PutProduct(shop, productID string, series *timeseries.Series) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID, ok := s.products[shop]
	if !ok {
		byID = make(map[string]*timeseries.Series)
		s.products[shop] = byID
	}
	byID[productID] = series.Copy()
}

// FetchDailySeries implements engine.SeriesSource.
func (s *Store) FetchDailySeries(ctx context.Context, shop, metric string, lookbackDays int) (*timeseries.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	series, ok := s.series[seriesKey{shop, metric}]
	if !ok {
		return &timeseries.Series{Name: metric}, nil
	}
	out := s.window(series, lookbackDays)
	out.Name = metric
	return out, nil
}

// FetchProductSeries implements engine.SeriesSource.
func (s *Store) FetchProductSeries(ctx context.Context, shop string, lookbackDays int) ([]engine.ProductSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	byID := s.products[shop]
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]engine.ProductSeries, 0, len(ids))
	for _, id := range ids {
		w := s.window(byID[id], lookbackDays)
		if w.Len() == 0 {
			continue
		}
		w.Name = id
		out = append(out, engine.ProductSeries{ProductID: id, Series: w})
	}
	return out, nil
}

// window keeps the days on or after today minus lookbackDays.
func (s *Store) window(series *timeseries.Series, lookbackDays int) *timeseries.Series {
	from := timeseries.Day(s.now()).AddDate(0, 0, -lookbackDays)
	start := sort.Search(series.Len(), func(i int) bool {
		return !series.Timestamps[i].Before(from)
	})
	return series.Slice(start, series.Len())
}

// SaveModel implements engine.ResultSink.
func (s *Store) SaveModel(ctx context.Context, rec engine.ModelRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if rec.ID == "" {
		return "", fmt.Errorf("model record for %s/%s has no id", rec.Shop, rec.MetricType)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := modelKey{rec.Shop, rec.ModelType, rec.MetricType}
	if old, ok := s.models[key]; ok {
		rec.ID = old.ID
	}
	s.models[key] = rec
	return rec.ID, nil
}

// SaveForecastRows implements engine.ResultSink.
func (s *Store) SaveForecastRows(ctx context.Context, modelID string, rows []engine.ForecastRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forecasts[modelID] = append([]engine.ForecastRow(nil), rows...)
	return nil
}

// SaveInventoryRows implements engine.ResultSink.
func (s *Store) SaveInventoryRows(ctx context.Context, shop string, rows []engine.InventoryRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory[shop] = append([]engine.InventoryRow(nil), rows...)
	return nil
}

// Models returns every stored model record of shop, sorted by metric then
// model type.
func (s *Store) Models(shop string) []engine.ModelRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []engine.ModelRecord
	for k, rec := range s.models {
		if k.shop == shop {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MetricType != out[j].MetricType {
			return out[i].MetricType < out[j].MetricType
		}
		return out[i].ModelType < out[j].ModelType
	})
	return out
}

// ForecastRows returns a copy of the rows stored for modelID.
func (s *Store) ForecastRows(modelID string) []engine.ForecastRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]engine.ForecastRow(nil), s.forecasts[modelID]...)
}

// InventoryRows returns a copy of the rows stored for shop.
func (s *Store) InventoryRows(shop string) []engine.InventoryRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]engine.InventoryRow(nil), s.inventory[shop]...)
}
