package engine

import (
	"context"
	"time"

	"github.com/sartorproj/goforecast/accuracy"
	"github.com/sartorproj/goforecast/timeseries"
)

// Metric names understood by SeriesSource.FetchDailySeries.
const (
	MetricRevenue   = "revenue"
	MetricCustomers = "customers"
	MetricInventory = "inventory"
)

// ProductSeries is the daily unit sales of one product.
type ProductSeries struct {
	ProductID string
	Series    *timeseries.Series
}

// SeriesSource returns daily aggregates. Lookback windows end on the current
// day and include the day lookbackDays before it; missing days are simply
// absent from the series.
type SeriesSource interface {
	FetchDailySeries(ctx context.Context, shop, metric string, lookbackDays int) (*timeseries.Series, error)
	// FetchProductSeries returns one series per product, sorted by product ID.
	FetchProductSeries(ctx context.Context, shop string, lookbackDays int) ([]ProductSeries, error)
}

// ModelRecord describes the model behind a persisted forecast set. Stores
// keep one record per (Shop, ModelType, MetricType).
type ModelRecord struct {
	ID         string             `json:"id"`
	Shop       string             `json:"shop"`
	ModelType  string             `json:"model_type"`
	MetricType string             `json:"metric_type"`
	Parameters map[string]float64 `json:"parameters"`
	Accuracy   accuracy.Record    `json:"accuracy_metrics"`
	TrainedAt  time.Time          `json:"trained_at"`
}

// ForecastRow is one persisted forecast day.
type ForecastRow struct {
	ForecastDate    string  `json:"forecast_date"`
	TargetDate      string  `json:"target_date"`
	Predicted       float64 `json:"predicted_value"`
	Lower80         float64 `json:"lower_bound_80"`
	Upper80         float64 `json:"upper_bound_80"`
	Lower95         float64 `json:"lower_bound_95"`
	Upper95         float64 `json:"upper_bound_95"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// InventoryRow is one persisted product demand day with the product's
// reorder recommendation.
type InventoryRow struct {
	ProductID      string `json:"product_id"`
	ForecastDate   string `json:"forecast_date"`
	TargetDate     string `json:"target_date"`
	PredictedUnits int    `json:"predicted_units"`
	Lower80        int    `json:"lower_bound"`
	Upper80        int    `json:"upper_bound"`
	ReorderPoint   int    `json:"reorder_point"`
	SafetyStock    int    `json:"safety_stock"`
}

// ResultSink persists generated forecasts. Writes replace: a new forecast
// set for a model, or a new inventory set for a shop, removes the previous
// one.
type ResultSink interface {
	// SaveModel upserts the record and returns the ID rows attach to. An
	// existing record for the same key keeps its ID.
	SaveModel(ctx context.Context, rec ModelRecord) (string, error)
	SaveForecastRows(ctx context.Context, modelID string, rows []ForecastRow) error
	SaveInventoryRows(ctx context.Context, shop string, rows []InventoryRow) error
}

// Repository is a store that is both source and sink.
type Repository interface {
	SeriesSource
	ResultSink
}
