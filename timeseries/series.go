package timeseries

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// DateLayout is the ISO-8601 calendar day layout used for all dates.
const DateLayout = "2006-01-02"

var (
	// ErrLengthMismatch is returned when dates and values differ in length.
	ErrLengthMismatch = errors.New("timestamps and values must have the same length")
	// ErrUnordered is returned when dates are not strictly increasing.
	ErrUnordered = errors.New("dates must be strictly increasing")
	// ErrInvalidValue is returned for negative or non-finite observations.
	ErrInvalidValue = errors.New("values must be finite and non-negative")
)

// Series represents a daily time series. Timestamps are calendar days at
// midnight UTC; gaps between days are allowed and are never interpolated.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string
}

// Observation is a single raw (day, value) pair as delivered by a data source.
type Observation struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// New creates a series from values, stamping consecutive days starting at the
// Unix epoch. Useful when only the ordering of values matters.
func New(values []float64) *Series {
	timestamps := make([]time.Time, len(values))
	base := time.Unix(0, 0).UTC()
	for i := range timestamps {
		timestamps[i] = base.AddDate(0, 0, i)
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}
}

// NewDaily creates a validated daily series. Dates are truncated to the day.
func NewDaily(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, ErrLengthMismatch
	}

	days := make([]time.Time, len(timestamps))
	vals := make([]float64, len(values))
	for i, ts := range timestamps {
		days[i] = Day(ts)
		if i > 0 && !days[i].After(days[i-1]) {
			return nil, fmt.Errorf("%w: %s follows %s", ErrUnordered,
				days[i].Format(DateLayout), days[i-1].Format(DateLayout))
		}
		v := values[i]
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, fmt.Errorf("%w: %v on %s", ErrInvalidValue, v, days[i].Format(DateLayout))
		}
		vals[i] = v
	}

	return &Series{
		Timestamps: days,
		Values:     vals,
	}, nil
}

// FromObservations parses ISO day strings into a validated series.
func FromObservations(name string, obs []Observation) (*Series, error) {
	timestamps := make([]time.Time, len(obs))
	values := make([]float64, len(obs))
	for i, o := range obs {
		ts, err := time.Parse(DateLayout, o.Date)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", o.Date, err)
		}
		timestamps[i] = ts
		values[i] = o.Value
	}
	s, err := NewDaily(timestamps, values)
	if err != nil {
		return nil, err
	}
	s.Name = name
	return s, nil
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return stat.Mean(s.Values, nil)
}

// Variance calculates the population variance of the series.
func (s *Series) Variance() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return stat.PopVariance(s.Values, nil)
}

// Std calculates the population standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Last returns the final day and value. ok is false for an empty series.
func (s *Series) Last() (day time.Time, value float64, ok bool) {
	n := len(s.Values)
	if n == 0 {
		return time.Time{}, 0, false
	}
	if len(s.Timestamps) == n {
		day = s.Timestamps[n-1]
	}
	return day, s.Values[n-1], true
}

// FutureDates returns the h calendar days following the last observation.
func (s *Series) FutureDates(h int) []time.Time {
	last, _, ok := s.Last()
	if !ok || h <= 0 {
		return nil
	}
	dates := make([]time.Time, h)
	for i := range dates {
		dates[i] = last.AddDate(0, 0, i+1)
	}
	return dates
}

// Tail returns the last n observations (or the whole series if shorter).
func (s *Series) Tail(n int) *Series {
	return s.Slice(len(s.Values)-n, len(s.Values))
}

// Slice returns a slice of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Values: []float64{}, Name: s.Name}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	timestamps := make([]time.Time, len(values))
	if len(s.Timestamps) >= end {
		copy(timestamps, s.Timestamps[start:end])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}
