package arima

import (
	"errors"
	"math"
	"testing"

	"github.com/sartorproj/goforecast/forecast"
	"github.com/sartorproj/goforecast/timeseries"
)

func ar1Series(n int, phi float64) *timeseries.Series {
	values := make([]float64, n)
	values[0] = 100
	for i := 1; i < n; i++ {
		innovation := float64(i%7-3) / 3
		values[i] = phi*(values[i-1]-100) + 100 + innovation
	}
	return timeseries.New(values)
}

func TestNewARIMA(t *testing.T) {
	model := New(2, 1, 1)

	if model.Order.P != 2 {
		t.Errorf("Expected P=2, got %d", model.Order.P)
	}
	if model.Order.D != 1 {
		t.Errorf("Expected D=1, got %d", model.Order.D)
	}
	if model.Order.Q != 1 {
		t.Errorf("Expected Q=1, got %d", model.Order.Q)
	}
	if model.Order.String() != "ARIMA(2,1,1)" {
		t.Errorf("Unexpected order string %s", model.Order)
	}
}

func TestARIMAFitAR1(t *testing.T) {
	phi := 0.7
	model := New(1, 0, 0)

	if err := model.Fit(ar1Series(200, phi)); err != nil {
		t.Fatalf("Failed to fit AR(1) model: %v", err)
	}

	if len(model.ARCoeffs) != 1 {
		t.Fatalf("Expected 1 AR coefficient, got %d", len(model.ARCoeffs))
	}

	t.Logf("True AR coeff: %f, Estimated: %f", phi, model.ARCoeffs[0])

	if model.ARCoeffs[0] <= 0 || model.ARCoeffs[0] >= CoeffBound {
		t.Errorf("AR coefficient should be positive and inside the bound, got %f", model.ARCoeffs[0])
	}

	if len(model.Residuals()) != 200 {
		t.Errorf("Expected 200 residuals, got %d", len(model.Residuals()))
	}
}

func TestARIMAFitMA1(t *testing.T) {
	n := 200
	values := make([]float64, n)
	innovations := make([]float64, n)

	for i := 0; i < n; i++ {
		innovations[i] = float64(i%7-3) / 3
	}

	theta := 0.5
	values[0] = innovations[0] + 100
	for i := 1; i < n; i++ {
		values[i] = innovations[i] + theta*innovations[i-1] + 100
	}

	model := New(0, 0, 1)
	if err := model.Fit(timeseries.New(values)); err != nil {
		t.Fatalf("Failed to fit MA(1) model: %v", err)
	}

	if math.Abs(model.MACoeffs[0]) >= 1 {
		t.Errorf("MA coefficient must be clamped, got %f", model.MACoeffs[0])
	}
	t.Logf("True MA coeff: %f, Estimated: %f", theta, model.MACoeffs[0])
}

func TestARIMALinearTrend(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 100 + 2*float64(i)
	}

	model := New(DefaultOrder.P, DefaultOrder.D, DefaultOrder.Q)
	if err := model.Fit(timeseries.New(values)); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	out, err := model.Output(3)
	if err != nil {
		t.Fatalf("Output failed: %v", err)
	}

	for h, f := range out.Forecasts {
		want := 158 + 2*float64(h+1)
		if math.Abs(f-want) > 1e-9 {
			t.Errorf("h=%d: expected %f, got %f", h+1, want, f)
		}
	}
	if model.Variance != 0 {
		t.Errorf("Expected zero residual variance, got %f", model.Variance)
	}
	if out.Intervals[2].Lower95 != out.Forecasts[2] {
		t.Errorf("Zero variance should give degenerate intervals, got %+v", out.Intervals[2])
	}
}

func TestARIMAPredict(t *testing.T) {
	n := 100
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = 100 + float64(i)/10 + float64(i%7-3)/2
	}

	model := New(1, 1, 0)
	if err := model.Fit(timeseries.New(values)); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	forecasts, err := model.Predict(5)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}

	if len(forecasts) != 5 {
		t.Errorf("Expected 5 forecasts, got %d", len(forecasts))
	}

	lastValue := values[n-1]
	for i, f := range forecasts {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			t.Errorf("Forecast %d is NaN or Inf", i)
		}
		if math.Abs(f-lastValue) > 50 {
			t.Errorf("Forecast %d is far from the last value: %f (last value: %f)", i, f, lastValue)
		}
	}

	t.Logf("Last value: %f, Forecasts: %v", lastValue, forecasts)
}

func TestARIMAIntervalsWiden(t *testing.T) {
	model := New(1, 0, 1)
	if err := model.Fit(ar1Series(100, 0.5)); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}
	out, err := model.Output(10)
	if err != nil {
		t.Fatalf("Output failed: %v", err)
	}

	for h := range out.Forecasts {
		iv := out.Intervals[h]
		if !(iv.Lower95 <= iv.Lower80 && iv.Lower80 <= out.Forecasts[h] &&
			out.Forecasts[h] <= iv.Upper80 && iv.Upper80 <= iv.Upper95) {
			t.Errorf("Interval ordering violated at h=%d: %+v", h+1, iv)
		}
	}
	first := out.Intervals[0].Upper95 - out.Intervals[0].Lower95
	last := out.Intervals[9].Upper95 - out.Intervals[9].Lower95
	if math.Abs(last-first*math.Sqrt(10)) > 1e-9 {
		t.Errorf("Expected width to grow with sqrt(h): first=%f last=%f", first, last)
	}
	if _, ok := out.Params["ljung_box_p"]; !ok {
		t.Error("Expected a Ljung-Box p-value in the parameters")
	}
}

func TestARIMAInsufficientData(t *testing.T) {
	values := make([]float64, 19)
	model := New(2, 1, 2)

	err := model.Fit(timeseries.New(values))

	var fe *forecast.Error
	if !errors.As(err, &fe) {
		t.Fatalf("Expected *forecast.Error, got %v", err)
	}
	if fe.Reason != forecast.ReasonInsufficientData || fe.Required != MinObservations || fe.Available != 19 {
		t.Errorf("Unexpected error %+v", fe)
	}
}

func TestARIMAFittedValues(t *testing.T) {
	n := 100
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = float64(i) + float64(i%5-2)/2
	}

	model := New(1, 1, 0)
	if err := model.Fit(timeseries.New(values)); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	fitted := model.FittedValues()
	if len(fitted) != n {
		t.Fatalf("Expected %d fitted values, got %d", n, len(fitted))
	}
	if fitted[0] != values[0] {
		t.Errorf("First fitted value should equal the observation consumed by differencing")
	}

	resid := model.Residuals()
	if math.Abs(fitted[10]-(values[10]-resid[9])) > 1e-12 {
		t.Errorf("Fitted value should be actual minus residual")
	}
}

func TestARIMADeterministic(t *testing.T) {
	series := ar1Series(150, 0.6)

	a := New(2, 1, 2)
	b := New(2, 1, 2)
	if err := a.Fit(series); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if err := b.Fit(series); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	fa, _ := a.Predict(7)
	fb, _ := b.Predict(7)
	for i := range fa {
		if fa[i] != fb[i] {
			t.Errorf("Forecast %d differs between identical fits: %f vs %f", i, fa[i], fb[i])
		}
	}
}

func TestARIMAWhiteNoise(t *testing.T) {
	n := 200
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = float64(i%7-3) / 3
	}

	series := timeseries.New(values)
	model := New(0, 0, 0)

	if err := model.Fit(series); err != nil {
		t.Fatalf("Failed to fit white noise: %v", err)
	}

	actualMean := series.Mean()
	if math.Abs(model.Intercept-actualMean) > 1e-12 {
		t.Errorf("Intercept should equal the mean: got %f, expected %f", model.Intercept, actualMean)
	}
}

func TestARIMAMultipleOrders(t *testing.T) {
	tests := []struct {
		name    string
		p, d, q int
	}{
		{"AR1", 1, 0, 0},
		{"AR2", 2, 0, 0},
		{"MA1", 0, 0, 1},
		{"MA2", 0, 0, 2},
		{"ARMA11", 1, 0, 1},
		{"ARIMA110", 1, 1, 0},
		{"ARIMA011", 0, 1, 1},
		{"ARIMA111", 1, 1, 1},
		{"ARIMA211", 2, 1, 1},
		{"ARIMA212", 2, 1, 2},
		{"ARIMA022", 0, 2, 2},
	}

	series := ar1Series(150, 0.6)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := New(tt.p, tt.d, tt.q)
			if err := model.Fit(series); err != nil {
				t.Fatalf("Model %s failed to fit: %v", tt.name, err)
			}

			forecasts, err := model.Predict(3)
			if err != nil {
				t.Fatalf("Prediction failed: %v", err)
			}

			if len(forecasts) != 3 {
				t.Errorf("Expected 3 forecasts, got %d", len(forecasts))
			}
			for i, f := range forecasts {
				if math.IsNaN(f) || math.IsInf(f, 0) {
					t.Errorf("Forecast %d is not finite", i)
				}
			}

			t.Logf("%s - AR: %v, MA: %v, Forecasts: %v", tt.name, model.ARCoeffs, model.MACoeffs, forecasts)
		})
	}
}

func TestLags(t *testing.T) {
	got := Lags(2, 2, 7)
	want := []int{1, 2, 7, 14}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, got)
		}
	}

	if len(Lags(7, 1, 7)) != 7 {
		t.Errorf("Overlapping seasonal lag should be deduplicated, got %v", Lags(7, 1, 7))
	}
}

func TestEstimateARMAConstantSeries(t *testing.T) {
	y := make([]float64, 30)
	for i := range y {
		y[i] = 2
	}
	est := EstimateARMA(y, Lags(1, 1, 7), Lags(1, 1, 7))

	if est.Intercept != 2 {
		t.Errorf("Expected intercept 2, got %f", est.Intercept)
	}
	for _, c := range append(est.AR, est.MA...) {
		if c != 0 {
			t.Errorf("Constant series should have zero coefficients, got AR=%v MA=%v", est.AR, est.MA)
		}
	}
	if f := est.Forecast(y, est.Residuals(y), 2); f[0] != 2 || f[1] != 2 {
		t.Errorf("Expected flat forecast at the mean, got %v", f)
	}
}
