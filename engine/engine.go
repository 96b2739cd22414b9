package engine

import (
	"errors"
	"time"

	"github.com/sartorproj/goforecast/arima"
	"github.com/sartorproj/goforecast/ensemble"
	"github.com/sartorproj/goforecast/forecast"
	"github.com/sartorproj/goforecast/internal/logger"
	"github.com/sartorproj/goforecast/internal/metrics"
	"github.com/sartorproj/goforecast/sarima"
	"github.com/sartorproj/goforecast/smoothing"
	"github.com/sartorproj/goforecast/timeseries"
)

// Engine runs the domain generators over a SeriesSource and persists to a
// ResultSink. Its configuration is fixed at construction, so one Engine may
// serve concurrent calls.
type Engine struct {
	cfg     Config
	weights ensemble.Weights
	source  SeriesSource
	sink    ResultSink
	log     *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// New validates cfg and builds an Engine. A nil sink disables persistence;
// nil log and m fall back to a no-op logger and unregistered metrics.
func New(cfg Config, source SeriesSource, sink ResultSink, log *logger.Logger, m *metrics.Metrics) (*Engine, error) {
	if source == nil {
		return nil, errors.New("engine: series source is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	weights, err := cfg.ensembleWeights()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	if m == nil {
		m = metrics.New(nil)
	}
	return &Engine{
		cfg:     cfg,
		weights: weights,
		source:  source,
		sink:    sink,
		log:     log,
		metrics: m,
		now:     time.Now,
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

type model interface {
	Fit(series *timeseries.Series) error
	Output(steps int) (*forecast.Output, error)
}

// Forecast fits the model of the given kind to values and forecasts horizon
// days. It is the single dispatch point over model kinds and implements
// ensemble.Runner. The returned output is sanitized.
func (e *Engine) Forecast(kind forecast.Kind, values []float64, horizon int) (*forecast.Output, error) {
	if horizon < 1 {
		return nil, forecast.InvalidInput("forecast", "horizon must be at least 1, got %d", horizon)
	}
	start := time.Now()
	defer e.metrics.ObserveFit(kind.String(), start)

	var (
		out *forecast.Output
		err error
	)
	if kind == forecast.KindEnsemble {
		var res *ensemble.Result
		res, err = e.combine(values, horizon)
		if res != nil {
			out = res.Output
		}
	} else {
		out, err = e.single(kind, timeseries.New(values), horizon)
	}
	if err != nil {
		return nil, err
	}
	out.Sanitize()
	return out, nil
}

func (e *Engine) single(kind forecast.Kind, series *timeseries.Series, horizon int) (*forecast.Output, error) {
	var m model
	switch kind {
	case forecast.KindSES:
		m = smoothing.NewSES(e.cfg.SESAlpha)
	case forecast.KindDES:
		m = smoothing.NewDES(e.cfg.DESAlpha, e.cfg.DESBeta)
	case forecast.KindHoltWinters:
		hw, err := smoothing.FitBest(series, e.cfg.SeasonLength, e.cfg.Grid)
		if err != nil {
			return nil, err
		}
		return hw.Output(horizon)
	case forecast.KindARIMA:
		o := e.cfg.ARIMA
		m = arima.New(o.P, o.D, o.Q)
	case forecast.KindSARIMA:
		o := e.cfg.SARIMA
		m = sarima.New(o.P, o.D, o.Q, o.SP, o.SD, o.SQ, o.M)
	default:
		return nil, forecast.InvalidInput("forecast", "unknown model kind %v", kind)
	}
	if err := m.Fit(series); err != nil {
		return nil, err
	}
	return m.Output(horizon)
}

// combine runs the ensemble and reports excluded members.
func (e *Engine) combine(values []float64, horizon int) (*ensemble.Result, error) {
	members := e.cfg.Members.Members(len(values))
	res, err := ensemble.Combine(values, horizon, members, e, e.weights)
	if res != nil {
		for _, f := range res.Failures {
			e.log.Warn("ensemble member excluded", "model", f.Kind.String(), "points", len(values), "error", f.Err)
			e.metrics.ModelFailures.WithLabelValues(f.Kind.String()).Inc()
		}
	}
	if err != nil {
		e.log.Warn("ensemble failed", "points", len(values), "error", err)
		for _, kind := range members {
			e.metrics.ModelFailures.WithLabelValues(kind.String()).Inc()
		}
		return nil, err
	}
	return res, nil
}
