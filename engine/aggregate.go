package engine

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sartorproj/goforecast/forecast"
	"github.com/sartorproj/goforecast/stats"
	"github.com/sartorproj/goforecast/timeseries"
)

// Bounds is a point forecast with its 80% and 95% interval. The same shape
// carries per-field scenario factors.
type Bounds struct {
	Predicted float64 `json:"predicted"`
	Lower80   float64 `json:"lower80"`
	Upper80   float64 `json:"upper80"`
	Lower95   float64 `json:"lower95"`
	Upper95   float64 `json:"upper95"`
}

func (b Bounds) add(o Bounds) Bounds {
	return Bounds{
		Predicted: b.Predicted + o.Predicted,
		Lower80:   b.Lower80 + o.Lower80,
		Upper80:   b.Upper80 + o.Upper80,
		Lower95:   b.Lower95 + o.Lower95,
		Upper95:   b.Upper95 + o.Upper95,
	}
}

func (b Bounds) scale(f Bounds) Bounds {
	return Bounds{
		Predicted: b.Predicted * f.Predicted,
		Lower80:   b.Lower80 * f.Lower80,
		Upper80:   b.Upper80 * f.Upper80,
		Lower95:   b.Lower95 * f.Lower95,
		Upper95:   b.Upper95 * f.Upper95,
	}
}

func (b Bounds) apply(fn func(float64) float64) Bounds {
	return Bounds{
		Predicted: fn(b.Predicted),
		Lower80:   fn(b.Lower80),
		Upper80:   fn(b.Upper80),
		Lower95:   fn(b.Lower95),
		Upper95:   fn(b.Upper95),
	}
}

// DayForecast is one forecast day.
type DayForecast struct {
	Date string `json:"date"`
	Bounds
}

// WeekBucket sums the forecast days of one Sunday-anchored week.
type WeekBucket struct {
	WeekStart string `json:"week_start"`
	Bounds
	Days int `json:"days"`
}

// MonthBucket sums the forecast days of one calendar month.
type MonthBucket struct {
	Month string `json:"month"`
	Bounds
	Days int `json:"days"`
}

// Scenario factors applied per field to the base daily forecast.
var (
	OptimisticFactors  = Bounds{Predicted: 1.2, Lower80: 1.15, Upper80: 1.25, Lower95: 1.1, Upper95: 1.3}
	PessimisticFactors = Bounds{Predicted: 0.8, Lower80: 0.75, Upper80: 0.85, Lower95: 0.7, Upper95: 0.9}
)

// Scenarios are the base forecast and its scaled variants.
type Scenarios struct {
	Optimistic  []DayForecast `json:"optimistic"`
	Realistic   []DayForecast `json:"realistic"`
	Pessimistic []DayForecast `json:"pessimistic"`
}

// DayValue names a single day's predicted value.
type DayValue struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Insights summarises a daily forecast.
type Insights struct {
	Total        float64   `json:"total"`
	DailyAverage float64   `json:"daily_average"`
	Peak         *DayValue `json:"peak,omitempty"`
	Lowest       *DayValue `json:"lowest,omitempty"`
	Accuracy     string    `json:"accuracy,omitempty"` // excellent, good or fair by MAPE
}

// round2 rounds half away from zero to two decimals. Non-finite input is 0.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(stats.Finite(v)).Round(2).Float64()
	return f
}

func money(v float64) float64 {
	return round2(math.Max(0, v))
}

func count(v float64) float64 {
	return math.Max(0, math.Round(stats.Finite(v)))
}

// shapeDays pairs forecast days with dates and applies round to every field.
// round must be monotone so the interval ordering survives.
func shapeDays(dates []time.Time, out *forecast.Output, round func(float64) float64) []DayForecast {
	days := make([]DayForecast, len(out.Forecasts))
	for i, p := range out.Forecasts {
		iv := out.Intervals[i]
		days[i] = DayForecast{
			Date: dates[i].Format(timeseries.DateLayout),
			Bounds: Bounds{
				Predicted: p,
				Lower80:   iv.Lower80,
				Upper80:   iv.Upper80,
				Lower95:   iv.Lower95,
				Upper95:   iv.Upper95,
			}.apply(round),
		}
	}
	return days
}

type bucket struct {
	key    string
	bounds Bounds
	days   int
}

// group sums days by key, keeping keys in first-seen order.
func group(days []DayForecast, key func(time.Time) string) []bucket {
	var out []bucket
	index := make(map[string]int)
	for _, d := range days {
		t, err := time.Parse(timeseries.DateLayout, d.Date)
		if err != nil {
			continue
		}
		k := key(t)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, bucket{key: k})
		}
		out[i].bounds = out[i].bounds.add(d.Bounds)
		out[i].days++
	}
	return out
}

// WeekStart returns the Sunday on or before t.
func WeekStart(t time.Time) time.Time {
	return t.AddDate(0, 0, -int(t.Weekday()))
}

// Weekly sums days into Sunday-anchored weeks.
func Weekly(days []DayForecast) []WeekBucket {
	groups := group(days, func(t time.Time) string {
		return WeekStart(t).Format(timeseries.DateLayout)
	})
	out := make([]WeekBucket, len(groups))
	for i, g := range groups {
		out[i] = WeekBucket{WeekStart: g.key, Bounds: g.bounds.apply(round2), Days: g.days}
	}
	return out
}

// Monthly sums days into calendar months keyed YYYY-MM.
func Monthly(days []DayForecast) []MonthBucket {
	groups := group(days, func(t time.Time) string {
		return t.Format("2006-01")
	})
	out := make([]MonthBucket, len(groups))
	for i, g := range groups {
		out[i] = MonthBucket{Month: g.key, Bounds: g.bounds.apply(round2), Days: g.days}
	}
	return out
}

// Scale multiplies every day by factors field by field, rounding to two
// decimals.
func Scale(days []DayForecast, factors Bounds) []DayForecast {
	out := make([]DayForecast, len(days))
	for i, d := range days {
		out[i] = DayForecast{Date: d.Date, Bounds: d.scale(factors).apply(round2)}
	}
	return out
}

// BuildScenarios derives the optimistic and pessimistic variants of days.
func BuildScenarios(days []DayForecast) *Scenarios {
	realistic := make([]DayForecast, len(days))
	copy(realistic, days)
	return &Scenarios{
		Optimistic:  Scale(days, OptimisticFactors),
		Realistic:   realistic,
		Pessimistic: Scale(days, PessimisticFactors),
	}
}

// accuracyGrade bands a MAPE percentage.
func accuracyGrade(mape float64) string {
	switch {
	case mape <= 15:
		return "excellent"
	case mape <= 25:
		return "good"
	default:
		return "fair"
	}
}

// Summarize totals days and finds the highest and lowest day. Ties keep the
// earliest day.
func Summarize(days []DayForecast, mape float64) Insights {
	ins := Insights{Accuracy: accuracyGrade(mape)}
	if len(days) == 0 {
		return ins
	}
	peak, low := 0, 0
	for i, d := range days {
		ins.Total += d.Predicted
		if d.Predicted > days[peak].Predicted {
			peak = i
		}
		if d.Predicted < days[low].Predicted {
			low = i
		}
	}
	ins.DailyAverage = round2(ins.Total / float64(len(days)))
	ins.Total = round2(ins.Total)
	ins.Peak = &DayValue{Date: days[peak].Date, Value: days[peak].Predicted}
	ins.Lowest = &DayValue{Date: days[low].Date, Value: days[low].Predicted}
	return ins
}

// forecastRows converts days to persisted rows generated on forecastDate.
func forecastRows(days []DayForecast, forecastDate string, confidence float64) []ForecastRow {
	rows := make([]ForecastRow, len(days))
	for i, d := range days {
		rows[i] = ForecastRow{
			ForecastDate:    forecastDate,
			TargetDate:      d.Date,
			Predicted:       d.Predicted,
			Lower80:         d.Lower80,
			Upper80:         d.Upper80,
			Lower95:         d.Lower95,
			Upper95:         d.Upper95,
			ConfidenceScore: confidence,
		}
	}
	return rows
}
