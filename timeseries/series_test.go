package timeseries

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	s := New(values)

	if s.Len() != 5 {
		t.Errorf("Expected length 5, got %d", s.Len())
	}

	for i, v := range s.Values {
		if v != values[i] {
			t.Errorf("Expected value %f at index %d, got %f", values[i], i, v)
		}
	}

	if got := s.Timestamps[1].Sub(s.Timestamps[0]); got != 24*time.Hour {
		t.Errorf("Expected daily spacing, got %v", got)
	}
}

func TestNewDaily(t *testing.T) {
	base := time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC)
	dates := []time.Time{base, base.AddDate(0, 0, 1), base.AddDate(0, 0, 3)}

	s, err := NewDaily(dates, []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("NewDaily failed: %v", err)
	}
	if s.Timestamps[0].Hour() != 0 {
		t.Errorf("Expected dates truncated to the day, got %v", s.Timestamps[0])
	}

	if _, err := NewDaily(dates[:2], []float64{1}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("Expected ErrLengthMismatch, got %v", err)
	}

	unordered := []time.Time{base, base}
	if _, err := NewDaily(unordered, []float64{1, 2}); !errors.Is(err, ErrUnordered) {
		t.Errorf("Expected ErrUnordered, got %v", err)
	}

	if _, err := NewDaily(dates[:1], []float64{-1}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Expected ErrInvalidValue for negative value, got %v", err)
	}
	if _, err := NewDaily(dates[:1], []float64{math.NaN()}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Expected ErrInvalidValue for NaN, got %v", err)
	}
}

func TestNewDailyDoesNotAliasInput(t *testing.T) {
	values := []float64{1, 2}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := NewDaily([]time.Time{base, base.AddDate(0, 0, 1)}, values)
	if err != nil {
		t.Fatalf("NewDaily failed: %v", err)
	}
	s.Values[0] = 99
	if values[0] != 1 {
		t.Errorf("Caller slice was mutated: %v", values)
	}
}

func TestFromObservations(t *testing.T) {
	s, err := FromObservations("revenue", []Observation{
		{Date: "2024-01-30", Value: 10},
		{Date: "2024-01-31", Value: 12},
	})
	if err != nil {
		t.Fatalf("FromObservations failed: %v", err)
	}
	if s.Name != "revenue" || s.Len() != 2 {
		t.Errorf("Unexpected series %+v", s)
	}

	if _, err := FromObservations("bad", []Observation{{Date: "30/01/2024", Value: 1}}); err == nil {
		t.Error("Expected a parse error for a non-ISO date")
	}
}

func TestMeanVariancePopulation(t *testing.T) {
	s := New([]float64{2, 4, 4, 4, 5, 5, 7, 9})

	if math.Abs(s.Mean()-5) > 1e-10 {
		t.Errorf("Expected mean 5, got %f", s.Mean())
	}
	// Population variance of the classic example is exactly 4.
	if math.Abs(s.Variance()-4) > 1e-10 {
		t.Errorf("Expected variance 4, got %f", s.Variance())
	}
	if math.Abs(s.Std()-2) > 1e-10 {
		t.Errorf("Expected std 2, got %f", s.Std())
	}

	empty := New(nil)
	if empty.Mean() != 0 || empty.Variance() != 0 {
		t.Error("Empty series should have zero mean and variance")
	}
}

func TestFutureDates(t *testing.T) {
	base := time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC)
	s, err := NewDaily([]time.Time{base, base.AddDate(0, 0, 1)}, []float64{1, 2})
	if err != nil {
		t.Fatalf("NewDaily failed: %v", err)
	}

	dates := s.FutureDates(3)
	want := []string{"2024-02-29", "2024-03-01", "2024-03-02"}
	if len(dates) != len(want) {
		t.Fatalf("Expected %d dates, got %d", len(want), len(dates))
	}
	for i, d := range dates {
		if d.Format(DateLayout) != want[i] {
			t.Errorf("Date %d: expected %s, got %s", i, want[i], d.Format(DateLayout))
		}
	}

	if New(nil).FutureDates(3) != nil {
		t.Error("Empty series should produce no future dates")
	}
}

func TestTailAndSlice(t *testing.T) {
	s := New([]float64{1, 2, 3, 4, 5})

	tail := s.Tail(2)
	if tail.Len() != 2 || tail.Values[0] != 4 {
		t.Errorf("Unexpected tail %v", tail.Values)
	}
	if s.Tail(10).Len() != 5 {
		t.Error("Tail longer than the series should return everything")
	}

	slice := s.Slice(1, 3)
	slice.Values[0] = 100
	if s.Values[1] != 2 {
		t.Error("Slice should copy values")
	}
	if s.Slice(4, 2).Len() != 0 {
		t.Error("Inverted bounds should produce an empty series")
	}
}
