package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/goforecast/engine"
	"github.com/sartorproj/goforecast/timeseries"
)

func flatDays(from time.Time, n int, predicted float64) []engine.DayForecast {
	days := make([]engine.DayForecast, n)
	for i := range days {
		days[i] = engine.DayForecast{
			Date: from.AddDate(0, 0, i).Format(timeseries.DateLayout),
			Bounds: engine.Bounds{
				Predicted: predicted,
				Lower80:   predicted - 1,
				Upper80:   predicted + 1,
				Lower95:   predicted - 2,
				Upper95:   predicted + 2,
			},
		}
	}
	return days
}

func TestWeekStartIsSunday(t *testing.T) {
	wed := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2023-12-31", engine.WeekStart(wed).Format(timeseries.DateLayout))

	sun := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, sun, engine.WeekStart(sun))
}

func TestWeeklyBucketsAnchorOnSunday(t *testing.T) {
	days := flatDays(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), 7, 10)

	weeks := engine.Weekly(days)
	require.Len(t, weeks, 2)

	assert.Equal(t, "2023-12-31", weeks[0].WeekStart)
	assert.Equal(t, 4, weeks[0].Days)
	assert.Equal(t, 40.0, weeks[0].Predicted)
	assert.Equal(t, 36.0, weeks[0].Lower80)
	assert.Equal(t, 48.0, weeks[0].Upper95)

	assert.Equal(t, "2024-01-07", weeks[1].WeekStart)
	assert.Equal(t, 3, weeks[1].Days)
	assert.Equal(t, 30.0, weeks[1].Predicted)
}

func TestMonthlyBuckets(t *testing.T) {
	days := flatDays(time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC), 5, 1.111)

	months := engine.Monthly(days)
	require.Len(t, months, 2)
	assert.Equal(t, "2024-02", months[0].Month)
	assert.Equal(t, 3, months[0].Days) // leap year
	assert.Equal(t, 3.33, months[0].Predicted)
	assert.Equal(t, "2024-03", months[1].Month)
	assert.Equal(t, 2, months[1].Days)
	assert.Equal(t, 2.22, months[1].Predicted)
}

func TestScenarioFactorsKeepOrdering(t *testing.T) {
	days := flatDays(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 3, 100)
	sc := engine.BuildScenarios(days)

	opt := sc.Optimistic[0]
	assert.Equal(t, 120.0, opt.Predicted)
	assert.Equal(t, 113.85, opt.Lower80)
	assert.Equal(t, 126.25, opt.Upper80)
	assert.Equal(t, 107.8, opt.Lower95)
	assert.Equal(t, 132.6, opt.Upper95)

	pess := sc.Pessimistic[0]
	assert.Equal(t, 80.0, pess.Predicted)
	assert.Equal(t, 74.25, pess.Lower80)
	assert.Equal(t, 68.6, pess.Lower95)
	assert.Equal(t, 91.8, pess.Upper95)

	assertDaysOrdered(t, sc.Optimistic)
	assertDaysOrdered(t, sc.Pessimistic)
	assert.Equal(t, days, sc.Realistic)

	sc.Realistic[0].Predicted = 0
	assert.Equal(t, 100.0, days[0].Predicted)
}

func TestSummarize(t *testing.T) {
	days := flatDays(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 4, 10)
	days[1].Predicted = 25
	days[2].Predicted = 5

	ins := engine.Summarize(days, 12)
	assert.Equal(t, 50.0, ins.Total)
	assert.Equal(t, 12.5, ins.DailyAverage)
	assert.Equal(t, "2024-01-02", ins.Peak.Date)
	assert.Equal(t, 25.0, ins.Peak.Value)
	assert.Equal(t, "2024-01-03", ins.Lowest.Date)
	assert.Equal(t, "excellent", ins.Accuracy)

	assert.Equal(t, "good", engine.Summarize(days, 25).Accuracy)
	assert.Equal(t, "fair", engine.Summarize(days, 25.01).Accuracy)
	assert.Nil(t, engine.Summarize(nil, 0).Peak)
}

func TestGrowthTrend(t *testing.T) {
	assert.Equal(t, 0.0, engine.GrowthTrend([]float64{5}))
	assert.Equal(t, 100.0, engine.GrowthTrend([]float64{1, 1, 2, 2}))
	// Odd length: [2] against [4, 4].
	assert.Equal(t, 100.0, engine.GrowthTrend([]float64{2, 4, 4}))
	assert.Equal(t, 0.0, engine.GrowthTrend([]float64{0, 0, 3, 3}))
}

func TestWeeklyGrowth(t *testing.T) {
	assert.Nil(t, engine.WeeklyGrowth(flatDays(time.Now(), 6, 1)))

	days := flatDays(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 14, 2)
	for i := 7; i < 14; i++ {
		days[i].Predicted = 3
	}
	g := engine.WeeklyGrowth(days)
	require.NotNil(t, g)
	assert.Equal(t, 14, g.FirstWeekTotal)
	assert.Equal(t, 21, g.LastWeekTotal)
	assert.Equal(t, 50.0, g.WeeklyGrowthRate)
}

func TestMonthlyProjection(t *testing.T) {
	days := flatDays(time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC), 4, 3)
	proj := engine.MonthlyProjection(days)
	require.Len(t, proj, 2)
	assert.Equal(t, engine.MonthProjection{Month: "2024-01", Projected: 6, AvgDaily: 3}, proj[0])
	assert.Equal(t, engine.MonthProjection{Month: "2024-02", Projected: 6, AvgDaily: 3}, proj[1])
}

func TestRecommendReorderPoint(t *testing.T) {
	rec := engine.Recommend(10, 2, 7, 1.65)
	assert.Equal(t, 4, rec.SafetyStock)
	assert.Equal(t, 74, rec.ReorderPoint)
	assert.Equal(t, 10.0, rec.AvgDailyDemand)
	assert.Equal(t, 2.0, rec.DemandVariability)

	zero := engine.Recommend(0, 0, 7, 1.65)
	assert.Equal(t, 0, zero.SafetyStock)
	assert.Equal(t, 0, zero.ReorderPoint)

	withDemand := rec.WithDemand(120)
	assert.Equal(t, 120, withDemand.TotalForecastDemand)
	assert.Equal(t, engine.LevelHigh, withDemand.StockoutRisk)
	assert.Equal(t, engine.LevelHigh, withDemand.Priority)
}

func TestPriorityAndRisk(t *testing.T) {
	assert.Equal(t, engine.LevelLow, engine.Priority(50))
	assert.Equal(t, engine.LevelMedium, engine.Priority(51))
	assert.Equal(t, engine.LevelMedium, engine.Priority(100))
	assert.Equal(t, engine.LevelHigh, engine.Priority(101))

	assert.Equal(t, engine.LevelLow, engine.StockoutRisk(74, 74))
	assert.Equal(t, engine.LevelHigh, engine.StockoutRisk(75, 74))
}
