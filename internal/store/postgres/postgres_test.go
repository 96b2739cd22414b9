package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/goforecast/engine"
	"github.com/sartorproj/goforecast/timeseries"
)

func TestDaysParsesRowDates(t *testing.T) {
	f, target, err := days("2024-03-30", "2024-04-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC), f)
	assert.Equal(t, 3*24*time.Hour, target.Sub(f))

	_, _, err = days("2024-03-30", "02/04/2024")
	assert.Error(t, err)
}

// openStore connects to FORECAST_TEST_DATABASE_URL, skipping when unset.
func openStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("FORECAST_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("FORECAST_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	s, err := New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(ctx))
	return s
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	today := time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return today }

	shop := "test-" + time.Now().UTC().Format("150405.000000")
	for i := 0; i < 3; i++ {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO metric_snapshots (shop_domain, metric, date, value, quantity, product_id) VALUES ($1, 'sales', $2, $3, $4, $5)`,
			shop, today.AddDate(0, 0, -i), 10+float64(i), i+1, "sku")
		require.NoError(t, err)
	}

	series, err := s.FetchDailySeries(ctx, shop, engine.MetricRevenue, 30)
	require.NoError(t, err)
	assert.Equal(t, []float64{12, 11, 10}, series.Values)
	assert.Equal(t, "2024-03-30", series.Timestamps[2].Format(timeseries.DateLayout))

	products, err := s.FetchProductSeries(ctx, shop, 30)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, []float64{3, 2, 1}, products[0].Series.Values)

	rec := engine.ModelRecord{ID: shop + "-a", Shop: shop, ModelType: "ses", MetricType: engine.MetricRevenue, TrainedAt: today}
	id, err := s.SaveModel(ctx, rec)
	require.NoError(t, err)
	rec.ID = shop + "-b"
	again, err := s.SaveModel(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	rows := []engine.ForecastRow{
		{ForecastDate: "2024-03-30", TargetDate: "2024-03-31", Predicted: 1},
		{ForecastDate: "2024-03-30", TargetDate: "2024-04-01", Predicted: 2},
	}
	require.NoError(t, s.SaveForecastRows(ctx, id, rows))
	require.NoError(t, s.SaveForecastRows(ctx, id, rows[:1]))
	var n int
	require.NoError(t, s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM forecast_results WHERE model_id = $1`, id).Scan(&n))
	assert.Equal(t, 1, n)

	require.NoError(t, s.SaveInventoryRows(ctx, shop, []engine.InventoryRow{{ProductID: "sku", ForecastDate: "2024-03-30", TargetDate: "2024-03-31"}}))
	require.NoError(t, s.SaveInventoryRows(ctx, shop, nil))
	require.NoError(t, s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_forecasts WHERE shop_domain = $1`, shop).Scan(&n))
	assert.Equal(t, 0, n)
}
