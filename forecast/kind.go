package forecast

import (
	"fmt"
	"strings"
)

// Kind identifies a forecasting model.
type Kind int

const (
	KindUnknown Kind = iota
	KindSES
	KindDES
	KindHoltWinters
	KindARIMA
	KindSARIMA
	KindEnsemble
)

var kindNames = map[Kind]string{
	KindSES:         "simple_exponential",
	KindDES:         "double_exponential",
	KindHoltWinters: "triple_exponential",
	KindARIMA:       "arima",
	KindSARIMA:      "seasonal_arima",
	KindEnsemble:    "ensemble",
}

// Kinds lists every concrete model kind in dispatch order.
var Kinds = []Kind{KindSES, KindDES, KindHoltWinters, KindARIMA, KindSARIMA, KindEnsemble}

// String returns the persisted model type name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind maps a model type name to its Kind. Short aliases used by
// configuration files (ses, des, holt_winters, sarima) are accepted too.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple_exponential", "ses":
		return KindSES, nil
	case "double_exponential", "des", "holt":
		return KindDES, nil
	case "triple_exponential", "holt_winters", "hw":
		return KindHoltWinters, nil
	case "arima":
		return KindARIMA, nil
	case "seasonal_arima", "sarima":
		return KindSARIMA, nil
	case "ensemble":
		return KindEnsemble, nil
	}
	return KindUnknown, fmt.Errorf("unknown model kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
