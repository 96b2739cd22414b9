// Package sqlite is an engine.Repository over a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sartorproj/goforecast/engine"
	"github.com/sartorproj/goforecast/internal/store"
	"github.com/sartorproj/goforecast/timeseries"
)

// Store reads metric snapshots and writes forecast results to SQLite.
// Dates are stored as YYYY-MM-DD text.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ engine.Repository = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock sets the day lookback windows end on.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=ON", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS metric_snapshots (
	shop_domain TEXT NOT NULL,
	source TEXT NOT NULL DEFAULT 'shopify',
	metric TEXT NOT NULL,
	date TEXT NOT NULL,
	value REAL NOT NULL DEFAULT 0,
	quantity INTEGER NOT NULL DEFAULT 0,
	product_id TEXT
	);`,
	`CREATE INDEX IF NOT EXISTS idx_snapshots_shop_date ON metric_snapshots(shop_domain, metric, date);`,
	`CREATE TABLE IF NOT EXISTS customer_profiles (
	shop_domain TEXT NOT NULL,
	customer_id TEXT NOT NULL,
	date TEXT NOT NULL,
	first_order_date TEXT
	);`,
	`CREATE INDEX IF NOT EXISTS idx_customers_shop_date ON customer_profiles(shop_domain, date);`,
	`CREATE TABLE IF NOT EXISTS forecast_models (
	id TEXT PRIMARY KEY,
	shop_domain TEXT NOT NULL,
	model_type TEXT NOT NULL,
	metric_type TEXT NOT NULL,
	parameters TEXT NOT NULL,
	accuracy_metrics TEXT NOT NULL,
	last_trained DATETIME NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(shop_domain, model_type, metric_type)
	);`,
	`CREATE TABLE IF NOT EXISTS forecast_results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	model_id TEXT NOT NULL REFERENCES forecast_models(id),
	forecast_date TEXT NOT NULL,
	target_date TEXT NOT NULL,
	predicted_value REAL NOT NULL,
	lower_bound_80 REAL NOT NULL,
	upper_bound_80 REAL NOT NULL,
	lower_bound_95 REAL NOT NULL,
	upper_bound_95 REAL NOT NULL,
	confidence_score REAL NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE INDEX IF NOT EXISTS idx_results_model ON forecast_results(model_id, target_date);`,
	`CREATE TABLE IF NOT EXISTS inventory_forecasts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	shop_domain TEXT NOT NULL,
	product_id TEXT NOT NULL,
	forecast_date TEXT NOT NULL,
	target_date TEXT NOT NULL,
	predicted_units INTEGER NOT NULL,
	lower_bound INTEGER NOT NULL,
	upper_bound INTEGER NOT NULL,
	reorder_point INTEGER,
	safety_stock INTEGER,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_shop ON inventory_forecasts(shop_domain, product_id, forecast_date);`,
}

// Migrate creates the tables and indexes that do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	for _, q := range schema {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

const (
	revenueQuery = `
	SELECT date, COALESCE(SUM(value), 0)
	FROM metric_snapshots
	WHERE shop_domain = ? AND source = 'shopify' AND metric = ? AND date >= ?
	GROUP BY date
	ORDER BY date ASC`

	customersQuery = `
	SELECT date, COUNT(DISTINCT customer_id)
	FROM customer_profiles
	WHERE shop_domain = ? AND date >= ? AND first_order_date = date
	GROUP BY date
	ORDER BY date ASC`

	productsQuery = `
	SELECT product_id, date, COALESCE(SUM(quantity), 0)
	FROM metric_snapshots
	WHERE shop_domain = ? AND source = 'shopify' AND date >= ? AND product_id IS NOT NULL
	GROUP BY product_id, date
	ORDER BY product_id, date ASC`
)

// FetchDailySeries implements engine.SeriesSource.
func (s *Store) FetchDailySeries(ctx context.Context, shop, metric string, lookbackDays int) (*timeseries.Series, error) {
	cutoff := store.Cutoff(s.now(), lookbackDays).Format(timeseries.DateLayout)

	var (
		rows *sql.Rows
		err  error
	)
	switch metric {
	case engine.MetricRevenue:
		rows, err = s.db.QueryContext(ctx, revenueQuery, shop, store.SnapshotMetric, cutoff)
	case engine.MetricCustomers:
		rows, err = s.db.QueryContext(ctx, customersQuery, shop, cutoff)
	default:
		return nil, fmt.Errorf("sqlite: no daily query for metric %q", metric)
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", metric, err)
	}
	defer rows.Close()

	var obs []timeseries.Observation
	for rows.Next() {
		var o timeseries.Observation
		if err := rows.Scan(&o.Date, &o.Value); err != nil {
			return nil, fmt.Errorf("scan %s: %w", metric, err)
		}
		obs = append(obs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", metric, err)
	}
	return timeseries.FromObservations(metric, obs)
}

// FetchProductSeries implements engine.SeriesSource.
func (s *Store) FetchProductSeries(ctx context.Context, shop string, lookbackDays int) ([]engine.ProductSeries, error) {
	cutoff := store.Cutoff(s.now(), lookbackDays).Format(timeseries.DateLayout)
	rows, err := s.db.QueryContext(ctx, productsQuery, shop, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := store.NewProducts()
	for rows.Next() {
		var (
			id, day string
			units   float64
		)
		if err := rows.Scan(&id, &day, &units); err != nil {
			return nil, fmt.Errorf("scan products: %w", err)
		}
		products.Add(id, day, units)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}
	return products.Series()
}

// SaveModel upserts on (shop, model type, metric type) and returns the stored
// id, which is the first id ever saved for that key.
func (s *Store) SaveModel(ctx context.Context, rec engine.ModelRecord) (string, error) {
	if rec.ID == "" {
		return "", fmt.Errorf("model record for %s/%s has no id", rec.Shop, rec.MetricType)
	}
	params, err := json.Marshal(rec.Parameters)
	if err != nil {
		return "", fmt.Errorf("marshal parameters: %w", err)
	}
	acc, err := json.Marshal(rec.Accuracy)
	if err != nil {
		return "", fmt.Errorf("marshal accuracy: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO forecast_models (id, shop_domain, model_type, metric_type, parameters, accuracy_metrics, last_trained)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(shop_domain, model_type, metric_type) DO UPDATE SET
		parameters = excluded.parameters,
		accuracy_metrics = excluded.accuracy_metrics,
		last_trained = excluded.last_trained`,
		rec.ID, rec.Shop, rec.ModelType, rec.MetricType, string(params), string(acc), rec.TrainedAt.UTC())
	if err != nil {
		return "", fmt.Errorf("upsert model: %w", err)
	}

	var id string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM forecast_models WHERE shop_domain = ? AND model_type = ? AND metric_type = ?`,
		rec.Shop, rec.ModelType, rec.MetricType).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("read model id: %w", err)
	}
	return id, tx.Commit()
}

// SaveForecastRows replaces every row stored for modelID.
func (s *Store) SaveForecastRows(ctx context.Context, modelID string, rows []engine.ForecastRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM forecast_results WHERE model_id = ?`, modelID); err != nil {
		return fmt.Errorf("clear forecast rows: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO forecast_results (model_id, forecast_date, target_date, predicted_value,
		lower_bound_80, upper_bound_80, lower_bound_95, upper_bound_95, confidence_score)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		_, err := stmt.ExecContext(ctx, modelID, r.ForecastDate, r.TargetDate, r.Predicted,
			r.Lower80, r.Upper80, r.Lower95, r.Upper95, r.ConfidenceScore)
		if err != nil {
			return fmt.Errorf("insert forecast row %s: %w", r.TargetDate, err)
		}
	}
	return tx.Commit()
}

// SaveInventoryRows replaces every inventory row stored for shop.
func (s *Store) SaveInventoryRows(ctx context.Context, shop string, rows []engine.InventoryRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory_forecasts WHERE shop_domain = ?`, shop); err != nil {
		return fmt.Errorf("clear inventory rows: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO inventory_forecasts (shop_domain, product_id, forecast_date, target_date,
		predicted_units, lower_bound, upper_bound, reorder_point, safety_stock)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		_, err := stmt.ExecContext(ctx, shop, r.ProductID, r.ForecastDate, r.TargetDate,
			r.PredictedUnits, r.Lower80, r.Upper80, r.ReorderPoint, r.SafetyStock)
		if err != nil {
			return fmt.Errorf("insert inventory row %s/%s: %w", r.ProductID, r.TargetDate, err)
		}
	}
	return tx.Commit()
}
