package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sartorproj/goforecast/engine"
	"github.com/sartorproj/goforecast/forecast"
	"github.com/sartorproj/goforecast/internal/config"
	"github.com/sartorproj/goforecast/internal/logger"
	"github.com/sartorproj/goforecast/internal/metrics"
	"github.com/sartorproj/goforecast/internal/store/memory"
	"github.com/sartorproj/goforecast/internal/store/postgres"
	"github.com/sartorproj/goforecast/internal/store/sqlite"
	"github.com/sartorproj/goforecast/timeseries"
)

const (
	sourceCSV      = "csv"
	sourceSQLite   = "sqlite"
	sourcePostgres = "postgres"

	csvShop = "local"
)

// app is what every forecasting command runs against.
type app struct {
	cfg   config.Config
	log   *logger.Logger
	reg   *prometheus.Registry
	eng   *engine.Engine
	close func() error
}

// setup loads configuration and opens the history source named by --source.
func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	if shop == "" {
		if source != sourceCSV {
			return nil, forecast.InvalidInput("setup", "--shop is required for --source %s", source)
		}
		shop = csvShop
	}

	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	eng, err := engine.New(cfg.Engine, repo, repo, log, metrics.New(reg))
	if err != nil {
		closeRepo()
		return nil, err
	}
	log.Debug("source opened", "source", source, "shop", shop)
	return &app{cfg: cfg, log: log, reg: reg, eng: eng, close: closeRepo}, nil
}

// shutdown releases the source, writes metrics when asked to and flushes
// the logger.
func (a *app) shutdown() {
	if err := a.close(); err != nil {
		a.log.Warn("close source", "error", err)
	}
	if metricsFile != "" {
		if err := prometheus.WriteToTextfile(metricsFile, a.reg); err != nil {
			a.log.Warn("write metrics", "file", metricsFile, "error", err)
		}
	}
	a.log.Sync()
}

func openRepository(ctx context.Context, cfg config.Config) (engine.Repository, func() error, error) {
	switch source {
	case sourceCSV:
		store, err := loadCSV()
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return nil }, nil
	case sourceSQLite:
		store, err := sqlite.Open(cfg.Database.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case sourcePostgres:
		if cfg.Database.URL == "" {
			return nil, nil, forecast.InvalidInput("setup", "%s is not set", config.EnvDatabaseURL)
		}
		store, err := postgres.New(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, forecast.InvalidInput("setup", "unknown source %q", source)
	}
}

// loadCSV builds a memory store from the --*-csv files. Lookback windows end
// on the latest date found in them.
func loadCSV() (*memory.Store, error) {
	var (
		series  = make(map[string]*timeseries.Series)
		latest  time.Time
		observe = func(s *timeseries.Series) {
			if day, _, ok := s.Last(); ok && day.After(latest) {
				latest = day
			}
		}
	)
	for metric, path := range map[string]string{
		engine.MetricRevenue:   revenueCSV,
		engine.MetricCustomers: customersCSV,
	} {
		if path == "" {
			continue
		}
		s, err := timeseries.LoadCSV(path, timeseries.DefaultCSVOptions())
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		series[metric] = s
		observe(s)
	}

	var (
		products map[string]*timeseries.Series
		ids      []string
	)
	if productsCSV != "" {
		f, err := os.Open(productsCSV)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		products, ids, err = timeseries.LoadGroupedCSV(f, timeseries.DefaultCSVOptions())
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", productsCSV, err)
		}
		for _, id := range ids {
			observe(products[id])
		}
	}

	if latest.IsZero() {
		latest = time.Now()
	}
	store := memory.New(memory.WithClock(func() time.Time { return latest }))
	for metric, s := range series {
		store.PutSeries(shop, metric, s)
	}
	for _, id := range ids {
		store.PutProduct(shop, id, products[id])
	}
	return store, nil
}
