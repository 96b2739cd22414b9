package engine

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sartorproj/goforecast/accuracy"
	"github.com/sartorproj/goforecast/forecast"
	"github.com/sartorproj/goforecast/internal/metrics"
	"github.com/sartorproj/goforecast/stats"
	"github.com/sartorproj/goforecast/timeseries"
)

// Priority and stockout risk labels.
const (
	LevelHigh   = "high"
	LevelMedium = "medium"
	LevelLow    = "low"
)

// Demand totals above which a product is high or medium priority.
const (
	HighPriorityDemand   = 100
	MediumPriorityDemand = 50
)

// TopProducts is how many products the summary ranks by demand.
const TopProducts = 5

// UnitForecast is one forecast day in whole units.
type UnitForecast struct {
	Date           string `json:"date"`
	PredictedUnits int    `json:"predicted_units"`
	Lower80        int    `json:"lower80"`
	Upper80        int    `json:"upper80"`
	Lower95        int    `json:"lower95"`
	Upper95        int    `json:"upper95"`
}

// Recommendation is the reorder advice for one product.
type Recommendation struct {
	ReorderPoint        int     `json:"reorder_point"`
	SafetyStock         int     `json:"safety_stock"`
	AvgDailyDemand      float64 `json:"avg_daily_demand"`
	DemandVariability   float64 `json:"demand_variability"`
	TotalForecastDemand int     `json:"total_forecast_demand"`
	StockoutRisk        string  `json:"stockout_risk"`
	Priority            string  `json:"priority"`
}

// Recommend derives safety stock and reorder point from historical daily
// demand: ss = ceil(z·σ), rop = ceil(avg·lead + ss).
func Recommend(avgDaily, stdDev float64, leadTimeDays int, z float64) Recommendation {
	ss := math.Ceil(stats.Finite(z * stdDev))
	rop := math.Ceil(stats.Finite(avgDaily*float64(leadTimeDays) + ss))
	return Recommendation{
		ReorderPoint:      int(rop),
		SafetyStock:       int(ss),
		AvgDailyDemand:    round2(avgDaily),
		DemandVariability: round2(stdDev),
	}
}

// WithDemand adds the forecast totals and the labels derived from them.
func (r Recommendation) WithDemand(total int) Recommendation {
	r.TotalForecastDemand = total
	r.StockoutRisk = StockoutRisk(total, r.ReorderPoint)
	r.Priority = Priority(total)
	return r
}

// StockoutRisk is high when forecast demand exceeds the reorder point.
func StockoutRisk(totalDemand, reorderPoint int) string {
	if totalDemand > reorderPoint {
		return LevelHigh
	}
	return LevelLow
}

// Priority ranks a product by forecast demand.
func Priority(totalDemand int) string {
	switch {
	case totalDemand > HighPriorityDemand:
		return LevelHigh
	case totalDemand > MediumPriorityDemand:
		return LevelMedium
	default:
		return LevelLow
	}
}

// ProductForecast is the demand forecast of one product.
type ProductForecast struct {
	ProductID      string          `json:"product_id"`
	Forecast       []UnitForecast  `json:"forecast"`
	Recommendation Recommendation  `json:"recommendations"`
	Model          forecast.Kind   `json:"model"`
	Accuracy       accuracy.Record `json:"accuracy"`
	DataPoints     int             `json:"data_points"`
}

// SkippedProduct is a product left out of the forecast.
type SkippedProduct struct {
	ProductID  string `json:"product_id"`
	DataPoints int    `json:"data_points"`
	Reason     string `json:"reason"`
}

// ProductDemand ranks a product in the summary.
type ProductDemand struct {
	ProductID string `json:"product_id"`
	Demand    int    `json:"demand"`
}

// InventorySummary aggregates all forecast products.
type InventorySummary struct {
	TotalProducts       int             `json:"total_products"`
	TotalDemandForecast int             `json:"total_demand_forecast"`
	ReorderAlerts       int             `json:"reorder_alerts"`
	TopDemand           []ProductDemand `json:"top_demand"`
	Horizon             int             `json:"horizon"`
	Model               forecast.Kind   `json:"model"`
}

// InventoryForecast holds per-product demand forecasts for a shop.
type InventoryForecast struct {
	Shop      string            `json:"shop"`
	Products  []ProductForecast `json:"forecasts"`
	Skipped   []SkippedProduct  `json:"skipped,omitempty"`
	Summary   InventorySummary  `json:"summary"`
	Generated time.Time         `json:"generated"`
}

// Inventory forecasts unit demand per product with Holt-Winters and derives
// reorder recommendations. Products with too little history, or whose fit
// fails, are skipped and reported; they never fail the whole run.
func (e *Engine) Inventory(ctx context.Context, shop string, horizon int) (*InventoryForecast, error) {
	const op = MetricInventory
	kind := forecast.KindHoltWinters
	if horizon < 1 {
		return nil, forecast.InvalidInput(op, "horizon must be at least 1, got %d", horizon)
	}

	products, err := e.source.FetchProductSeries(ctx, shop, e.cfg.InventoryLookbackDays)
	if err != nil {
		e.metrics.Generation(op, "none", metrics.OutcomeError)
		return nil, fmt.Errorf("fetch product series: %w", err)
	}
	rows := 0
	for _, p := range products {
		rows += p.Series.Len()
	}
	if rows < e.cfg.InventoryMinRows {
		e.metrics.Generation(op, "none", metrics.OutcomeInsufficientData)
		return nil, forecast.InsufficientData(op, e.cfg.InventoryMinRows, rows)
	}

	log := e.log.With("shop", shop, "metric", op)
	res := &InventoryForecast{
		Shop:      shop,
		Generated: e.now().UTC(),
		Summary:   InventorySummary{Horizon: horizon, Model: kind},
	}

	for _, p := range products {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := p.Series.Len()
		if n < e.cfg.InventoryMinProductPoints {
			res.skip(p.ProductID, n, fmt.Sprintf("insufficient data: %d of %d points", n, e.cfg.InventoryMinProductPoints))
			e.metrics.ProductsSkipped.Inc()
			log.Debug("product skipped", "product", p.ProductID, "points", n)
			continue
		}
		pf, err := e.forecastProduct(p, horizon)
		if err != nil {
			res.skip(p.ProductID, n, err.Error())
			e.metrics.ProductsSkipped.Inc()
			log.Warn("product forecast failed", "product", p.ProductID, "points", n, "error", err)
			continue
		}
		res.Products = append(res.Products, *pf)
	}

	res.summarize()
	if err := e.saveInventory(ctx, shop, res.Products); err != nil {
		e.metrics.Generation(op, kind.String(), metrics.OutcomeError)
		return nil, err
	}

	e.metrics.Generation(op, kind.String(), metrics.OutcomeSuccess)
	log.Info("forecast generated", "products", res.Summary.TotalProducts,
		"skipped", len(res.Skipped), "demand", res.Summary.TotalDemandForecast)
	return res, nil
}

func (e *Engine) forecastProduct(p ProductSeries, horizon int) (*ProductForecast, error) {
	values := p.Series.Values
	out, err := e.Forecast(forecast.KindHoltWinters, values, horizon)
	if err != nil {
		return nil, err
	}

	dates := p.Series.FutureDates(horizon)
	units := make([]UnitForecast, horizon)
	total := 0
	for i, v := range out.Forecasts {
		iv := out.Intervals[i]
		units[i] = UnitForecast{
			Date:           dates[i].Format(timeseries.DateLayout),
			PredictedUnits: int(count(v)),
			Lower80:        int(count(iv.Lower80)),
			Upper80:        int(count(iv.Upper80)),
			Lower95:        int(count(iv.Lower95)),
			Upper95:        int(count(iv.Upper95)),
		}
		total += units[i].PredictedUnits
	}

	rec := Recommend(p.Series.Mean(), p.Series.Std(), e.cfg.LeadTimeDays, e.cfg.ServiceZ)
	return &ProductForecast{
		ProductID:      p.ProductID,
		Forecast:       units,
		Recommendation: rec.WithDemand(total),
		Model:          forecast.KindHoltWinters,
		Accuracy:       accuracy.Evaluate(values, out.Fitted, e.cfg.HoldoutFraction),
		DataPoints:     len(values),
	}, nil
}

func (r *InventoryForecast) skip(id string, n int, reason string) {
	r.Skipped = append(r.Skipped, SkippedProduct{ProductID: id, DataPoints: n, Reason: reason})
}

func (r *InventoryForecast) summarize() {
	s := &r.Summary
	s.TotalProducts = len(r.Products)
	ranked := make([]ProductDemand, 0, len(r.Products))
	for _, p := range r.Products {
		demand := p.Recommendation.TotalForecastDemand
		s.TotalDemandForecast += demand
		if p.Recommendation.ReorderPoint > 0 {
			s.ReorderAlerts++
		}
		ranked = append(ranked, ProductDemand{ProductID: p.ProductID, Demand: demand})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Demand > ranked[j].Demand
	})
	if len(ranked) > TopProducts {
		ranked = ranked[:TopProducts]
	}
	s.TopDemand = ranked
}

// saveInventory replaces the shop's inventory rows.
func (e *Engine) saveInventory(ctx context.Context, shop string, products []ProductForecast) error {
	if e.sink == nil {
		return nil
	}
	forecastDate := e.now().UTC().Format(timeseries.DateLayout)
	var rows []InventoryRow
	for _, p := range products {
		for _, u := range p.Forecast {
			rows = append(rows, InventoryRow{
				ProductID:      p.ProductID,
				ForecastDate:   forecastDate,
				TargetDate:     u.Date,
				PredictedUnits: u.PredictedUnits,
				Lower80:        u.Lower80,
				Upper80:        u.Upper80,
				ReorderPoint:   p.Recommendation.ReorderPoint,
				SafetyStock:    p.Recommendation.SafetyStock,
			})
		}
	}
	if err := e.sink.SaveInventoryRows(ctx, shop, rows); err != nil {
		return fmt.Errorf("save inventory rows: %w", err)
	}
	e.log.Debug("stored inventory forecast", "shop", shop, "products", len(products), "rows", len(rows))
	return nil
}
