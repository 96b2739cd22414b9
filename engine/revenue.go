package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sartorproj/goforecast/accuracy"
	"github.com/sartorproj/goforecast/forecast"
	"github.com/sartorproj/goforecast/internal/metrics"
	"github.com/sartorproj/goforecast/selector"
	"github.com/sartorproj/goforecast/timeseries"
)

// ConfidenceLevels are the interval levels every forecast reports.
var ConfidenceLevels = []float64{0.80, 0.95}

// RevenueOptions tunes a revenue forecast.
type RevenueOptions struct {
	Scenarios bool // include optimistic and pessimistic variants
}

// RevenueForecast is a daily revenue forecast with its aggregates.
type RevenueForecast struct {
	Shop       string             `json:"shop"`
	Model      forecast.Kind      `json:"model"`
	Selection  selector.Decision  `json:"selection"`
	Daily      []DayForecast      `json:"daily"`
	Weekly     []WeekBucket       `json:"weekly"`
	Monthly    []MonthBucket      `json:"monthly"`
	Scenarios  *Scenarios         `json:"scenarios,omitempty"`
	Accuracy   accuracy.Record    `json:"accuracy"`
	Insights   Insights           `json:"insights"`
	Parameters map[string]float64 `json:"parameters"`
	Horizon    int                `json:"horizon"`
	DataPoints int                `json:"data_points"`
	Confidence []float64          `json:"confidence"`
	ModelID    string             `json:"model_id,omitempty"`
	Generated  time.Time          `json:"generated"`
}

// Revenue forecasts daily revenue for shop over horizon days. The model is
// chosen from the series length and its weekly autocorrelation.
func (e *Engine) Revenue(ctx context.Context, shop string, horizon int, opts RevenueOptions) (*RevenueForecast, error) {
	const op = MetricRevenue
	series, err := e.fetch(ctx, op, shop, e.cfg.RevenueLookbackDays, horizon)
	if err != nil {
		return nil, err
	}

	decision := selector.Choose(series.Values, e.cfg.Seasonality, e.cfg.Selection)
	log := e.log.With("shop", shop, "metric", op)
	log.Info("model selected", "model", decision.Kind.String(), "points", decision.Points,
		"seasonal", decision.Seasonal, "autocorrelation", decision.Autocorrelation)

	out, err := e.Forecast(decision.Kind, series.Values, horizon)
	if err != nil {
		e.metrics.Generation(op, decision.Kind.String(), metrics.OutcomeError)
		return nil, fmt.Errorf("%s forecast: %w", op, err)
	}

	daily := shapeDays(series.FutureDates(horizon), out, money)
	acc := accuracy.Evaluate(series.Values, out.Fitted, e.cfg.HoldoutFraction)
	res := &RevenueForecast{
		Shop:       shop,
		Model:      decision.Kind,
		Selection:  decision,
		Daily:      daily,
		Weekly:     Weekly(daily),
		Monthly:    Monthly(daily),
		Accuracy:   acc,
		Insights:   Summarize(daily, acc.MAPE),
		Parameters: out.Params,
		Horizon:    horizon,
		DataPoints: series.Len(),
		Confidence: ConfidenceLevels,
		Generated:  e.now().UTC(),
	}
	if opts.Scenarios {
		res.Scenarios = BuildScenarios(daily)
	}

	res.ModelID, err = e.saveForecast(ctx, shop, op, decision.Kind, out.Params, acc, daily)
	if err != nil {
		e.metrics.Generation(op, decision.Kind.String(), metrics.OutcomeError)
		return nil, err
	}

	e.metrics.Generation(op, decision.Kind.String(), metrics.OutcomeSuccess)
	log.Info("forecast generated", "model", decision.Kind.String(), "horizon", horizon, "mape", acc.MAPE)
	return res, nil
}

// fetch loads a daily metric and enforces the minimum point count before any
// model runs.
func (e *Engine) fetch(ctx context.Context, metric, shop string, lookbackDays, horizon int) (*timeseries.Series, error) {
	if horizon < 1 {
		return nil, forecast.InvalidInput(metric, "horizon must be at least 1, got %d", horizon)
	}
	series, err := e.source.FetchDailySeries(ctx, shop, metric, lookbackDays)
	if err != nil {
		e.metrics.Generation(metric, "none", metrics.OutcomeError)
		return nil, fmt.Errorf("fetch %s series: %w", metric, err)
	}
	if series.Len() < e.cfg.MinPoints {
		e.metrics.Generation(metric, "none", metrics.OutcomeInsufficientData)
		e.log.Info("insufficient history", "shop", shop, "metric", metric,
			"required", e.cfg.MinPoints, "available", series.Len())
		return nil, forecast.InsufficientData(metric, e.cfg.MinPoints, series.Len())
	}
	return series, nil
}

// saveForecast upserts the model record and replaces its forecast rows.
func (e *Engine) saveForecast(ctx context.Context, shop, metric string, kind forecast.Kind,
	params map[string]float64, acc accuracy.Record, days []DayForecast) (string, error) {
	if e.sink == nil {
		return "", nil
	}
	now := e.now().UTC()
	id, err := e.sink.SaveModel(ctx, ModelRecord{
		ID:         uuid.NewString(),
		Shop:       shop,
		ModelType:  kind.String(),
		MetricType: metric,
		Parameters: params,
		Accuracy:   acc,
		TrainedAt:  now,
	})
	if err != nil {
		return "", fmt.Errorf("save %s model: %w", metric, err)
	}

	rows := forecastRows(days, now.Format(timeseries.DateLayout), e.cfg.ConfidenceScore)
	if err := e.sink.SaveForecastRows(ctx, id, rows); err != nil {
		return "", fmt.Errorf("save %s forecast rows: %w", metric, err)
	}
	e.log.Debug("stored forecast", "shop", shop, "metric", metric, "model_id", id, "rows", len(rows))
	return id, nil
}
