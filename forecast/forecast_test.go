package forecast

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindRoundTrip(t *testing.T) {
	for _, k := range Kinds {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	k, err := ParseKind("holt_winters")
	require.NoError(t, err)
	assert.Equal(t, KindHoltWinters, k)

	_, err = ParseKind("prophet")
	assert.Error(t, err)
	assert.Equal(t, "unknown", KindUnknown.String())
}

func TestKindJSON(t *testing.T) {
	b, err := json.Marshal(map[string]Kind{"model": KindSARIMA})
	require.NoError(t, err)
	assert.JSONEq(t, `{"model":"seasonal_arima"}`, string(b))

	var k Kind
	require.NoError(t, json.Unmarshal([]byte(`"ensemble"`), &k))
	assert.Equal(t, KindEnsemble, k)
}

func TestIntervalsWidenWithHorizon(t *testing.T) {
	iv := Intervals([]float64{10, 10, 10, 10}, 2)
	require.Len(t, iv, 4)

	assert.InDelta(t, 10-1.96*2, iv[0].Lower95, 1e-12)
	assert.InDelta(t, 10+1.28*2*2, iv[3].Upper80, 1e-12)

	for h := 1; h < len(iv); h++ {
		prev := iv[h-1].Upper95 - iv[h-1].Lower95
		cur := iv[h].Upper95 - iv[h].Lower95
		assert.Greater(t, cur, prev)
	}
}

func TestSanitize(t *testing.T) {
	out := &Output{
		Forecasts: []float64{math.NaN(), 5},
		Intervals: []Interval{
			{Lower80: math.Inf(-1), Upper80: 1, Lower95: 2, Upper95: math.NaN()},
			{Lower80: 4, Upper80: 6, Lower95: 4.5, Upper95: 7},
		},
		Fitted:    []float64{math.Inf(1)},
		Residuals: []float64{math.NaN()},
		Params:    map[string]float64{"alpha": math.NaN()},
	}

	out.Sanitize()

	assert.Equal(t, 0.0, out.Forecasts[0])
	assert.Equal(t, 0.0, out.Fitted[0])
	assert.Equal(t, 0.0, out.Residuals[0])
	assert.Equal(t, 0.0, out.Params["alpha"])
	for i, iv := range out.Intervals {
		p := out.Forecasts[i]
		assert.LessOrEqual(t, iv.Lower95, iv.Lower80)
		assert.LessOrEqual(t, iv.Lower80, p)
		assert.LessOrEqual(t, p, iv.Upper80)
		assert.LessOrEqual(t, iv.Upper80, iv.Upper95)
	}
	assert.Equal(t, 4.0, out.Intervals[1].Lower95)
}

func TestSanitizeFillsMissingIntervals(t *testing.T) {
	out := &Output{Forecasts: []float64{1, 2}}
	out.Sanitize()
	require.Len(t, out.Intervals, 2)
	assert.Equal(t, 2.0, out.Intervals[1].Upper95)
}

func TestErrorReasons(t *testing.T) {
	err := fmt.Errorf("revenue: %w", InsufficientData("revenue", 14, 9))

	assert.True(t, errors.Is(err, ErrInsufficientData))
	assert.False(t, errors.Is(err, ErrModelFailure))
	assert.Equal(t, ReasonInsufficientData, ReasonOf(err))
	assert.Equal(t, Reason(""), ReasonOf(errors.New("plain")))

	var fe *Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 14, fe.Required)
	assert.Equal(t, 9, fe.Available)

	cause := errors.New("singular matrix")
	mf := ModelFailure("arima", cause)
	assert.True(t, errors.Is(mf, cause))
	assert.Contains(t, mf.Error(), "singular matrix")

	assert.Equal(t, ReasonInvalidInput, ReasonOf(InvalidInput("forecast", "horizon %d", 0)))
}

func TestErrorJSON(t *testing.T) {
	b, err := json.Marshal(InsufficientData("revenue", 14, 9))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "insufficient_data", got["reason"])
	assert.EqualValues(t, 14, got["required"])
	assert.EqualValues(t, 9, got["available"])
	assert.Contains(t, got["error"], "required 14")
}

func TestPayloadWrappedAndPlain(t *testing.T) {
	wrapped := fmt.Errorf("customers: %w", InsufficientData("customers", 14, 3))
	b, err := json.Marshal(Payload(wrapped))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "insufficient_data", got["reason"])
	assert.EqualValues(t, 3, got["available"])
	assert.True(t, strings.HasPrefix(got["error"].(string), "customers: "))

	b, err = json.Marshal(Payload(errors.New("connection refused")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"connection refused"}`, string(b))
}
