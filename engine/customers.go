package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sartorproj/goforecast/accuracy"
	"github.com/sartorproj/goforecast/forecast"
	"github.com/sartorproj/goforecast/internal/metrics"
	"github.com/sartorproj/goforecast/stats"
)

// TrendWindow is the number of trailing days the recent growth trend covers.
const TrendWindow = 14

// MonthProjection is the projected total of one calendar month.
type MonthProjection struct {
	Month     string  `json:"month"`
	Projected float64 `json:"projected"`
	AvgDaily  float64 `json:"avg_daily"`
}

// CustomerTrends describes recent history and the forecast by month.
type CustomerTrends struct {
	Recent  float64           `json:"recent"` // % change, second half of the window vs first
	Monthly []MonthProjection `json:"monthly"`
}

// GrowthMetrics compares the first and last forecast week.
type GrowthMetrics struct {
	WeeklyGrowthRate float64 `json:"weekly_growth_rate"`
	FirstWeekTotal   int     `json:"first_week_total"`
	LastWeekTotal    int     `json:"last_week_total"`
}

// CustomerForecast is a daily new-customer forecast.
type CustomerForecast struct {
	Shop       string          `json:"shop"`
	Model      forecast.Kind   `json:"model"`
	Daily      []DayForecast   `json:"daily"`
	Weekly     []WeekBucket    `json:"weekly"`
	Accuracy   accuracy.Record `json:"accuracy"`
	Trends     CustomerTrends  `json:"trends"`
	Growth     *GrowthMetrics  `json:"growth,omitempty"` // nil for horizons under a week
	Insights   Insights        `json:"insights"`
	Horizon    int             `json:"horizon"`
	DataPoints int             `json:"data_points"`
	Confidence []float64       `json:"confidence"`
	ModelID    string          `json:"model_id,omitempty"`
	Generated  time.Time       `json:"generated"`
}

// Customers forecasts daily customer acquisition for shop. Acquisition is
// noisy, so the ensemble always runs; counts are whole customers.
func (e *Engine) Customers(ctx context.Context, shop string, horizon int) (*CustomerForecast, error) {
	const op = MetricCustomers
	series, err := e.fetch(ctx, op, shop, e.cfg.CustomerLookbackDays, horizon)
	if err != nil {
		return nil, err
	}
	kind := forecast.KindEnsemble
	log := e.log.With("shop", shop, "metric", op)

	out, err := e.Forecast(kind, series.Values, horizon)
	if err != nil {
		e.metrics.Generation(op, kind.String(), metrics.OutcomeError)
		return nil, fmt.Errorf("%s forecast: %w", op, err)
	}

	daily := shapeDays(series.FutureDates(horizon), out, count)
	acc := accuracy.Evaluate(series.Values, out.Fitted, e.cfg.HoldoutFraction)
	res := &CustomerForecast{
		Shop:     shop,
		Model:    kind,
		Daily:    daily,
		Weekly:   Weekly(daily),
		Accuracy: acc,
		Trends: CustomerTrends{
			Recent:  round2(GrowthTrend(series.Tail(TrendWindow).Values)),
			Monthly: MonthlyProjection(daily),
		},
		Growth:     WeeklyGrowth(daily),
		Insights:   Summarize(daily, acc.MAPE),
		Horizon:    horizon,
		DataPoints: series.Len(),
		Confidence: ConfidenceLevels,
		Generated:  e.now().UTC(),
	}

	res.ModelID, err = e.saveForecast(ctx, shop, op, kind, out.Params, acc, daily)
	if err != nil {
		e.metrics.Generation(op, kind.String(), metrics.OutcomeError)
		return nil, err
	}

	e.metrics.Generation(op, kind.String(), metrics.OutcomeSuccess)
	log.Info("forecast generated", "model", kind.String(), "horizon", horizon, "trend", res.Trends.Recent)
	return res, nil
}

// GrowthTrend is the percentage change of the second half's mean over the
// first half's. The first half is the shorter one for odd lengths.
func GrowthTrend(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mid := len(values) / 2
	return stats.GrowthRate(stats.Mean(values[:mid]), stats.Mean(values[mid:]))
}

// MonthlyProjection totals the predicted values per calendar month.
func MonthlyProjection(days []DayForecast) []MonthProjection {
	groups := group(days, func(t time.Time) string {
		return t.Format("2006-01")
	})
	out := make([]MonthProjection, len(groups))
	for i, g := range groups {
		out[i] = MonthProjection{
			Month:     g.key,
			Projected: round2(g.bounds.Predicted),
			AvgDaily:  round2(g.bounds.Predicted / float64(g.days)),
		}
	}
	return out
}

// WeeklyGrowth compares the first seven forecast days with the last seven.
// It returns nil when fewer than seven days are forecast.
func WeeklyGrowth(days []DayForecast) *GrowthMetrics {
	const week = 7
	if len(days) < week {
		return nil
	}
	var first, last float64
	for i := 0; i < week; i++ {
		first += days[i].Predicted
		last += days[len(days)-week+i].Predicted
	}
	rate := 0.0
	if first > 0 {
		rate = (last - first) / first * 100
	}
	return &GrowthMetrics{
		WeeklyGrowthRate: round2(rate),
		FirstWeekTotal:   int(math.Round(first)),
		LastWeekTotal:    int(math.Round(last)),
	}
}
