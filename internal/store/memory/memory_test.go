package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/goforecast/engine"
	"github.com/sartorproj/goforecast/timeseries"
)

func daily(t *testing.T, start time.Time, values ...float64) *timeseries.Series {
	t.Helper()
	dates := make([]time.Time, len(values))
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	s, err := timeseries.NewDaily(dates, values)
	require.NoError(t, err)
	return s
}

func TestFetchDailySeriesAppliesLookback(t *testing.T) {
	today := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time { return today }))
	s.PutSeries("shop", engine.MetricRevenue, daily(t, time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC), 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11))

	got, err := s.FetchDailySeries(context.Background(), "shop", engine.MetricRevenue, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 7, 8, 9, 10, 11}, got.Values)
	assert.Equal(t, "2024-06-25", got.Timestamps[0].Format(timeseries.DateLayout))

	missing, err := s.FetchDailySeries(context.Background(), "other", engine.MetricRevenue, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, missing.Len())
}

func TestFetchProductSeriesSorted(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time { return start.AddDate(0, 0, 3) }))
	s.PutProduct("shop", "b", daily(t, start, 1, 2, 3))
	s.PutProduct("shop", "a", daily(t, start, 4, 5, 6))

	got, err := s.FetchProductSeries(context.Background(), "shop", 30)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ProductID)
	assert.Equal(t, "b", got[1].ProductID)
	assert.Equal(t, "a", got[0].Series.Name)
}

func TestSaveModelUpsertKeepsID(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, err := s.SaveModel(ctx, engine.ModelRecord{ID: "first", Shop: "shop", ModelType: "ensemble", MetricType: "revenue"})
	require.NoError(t, err)
	assert.Equal(t, "first", id)

	id, err = s.SaveModel(ctx, engine.ModelRecord{ID: "second", Shop: "shop", ModelType: "ensemble", MetricType: "revenue"})
	require.NoError(t, err)
	assert.Equal(t, "first", id)
	assert.Len(t, s.Models("shop"), 1)

	_, err = s.SaveModel(ctx, engine.ModelRecord{Shop: "shop"})
	assert.Error(t, err)
}

func TestSaveRowsReplace(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.SaveForecastRows(ctx, "m", []engine.ForecastRow{{TargetDate: "2024-01-01"}, {TargetDate: "2024-01-02"}}))
	require.NoError(t, s.SaveForecastRows(ctx, "m", []engine.ForecastRow{{TargetDate: "2024-02-01"}}))
	rows := s.ForecastRows("m")
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-02-01", rows[0].TargetDate)

	require.NoError(t, s.SaveInventoryRows(ctx, "shop", []engine.InventoryRow{{ProductID: "a"}, {ProductID: "b"}}))
	require.NoError(t, s.SaveInventoryRows(ctx, "shop", nil))
	assert.Empty(t, s.InventoryRows("shop"))
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().FetchDailySeries(ctx, "shop", engine.MetricRevenue, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
