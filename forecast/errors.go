package forecast

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Reason classifies a forecasting failure.
type Reason string

const (
	ReasonInsufficientData Reason = "insufficient_data"
	ReasonModelFailure     Reason = "model_failure"
	ReasonInvalidInput     Reason = "invalid_input"
)

// Sentinels for errors.Is matching on the reason alone.
var (
	ErrInsufficientData = &Error{Reason: ReasonInsufficientData}
	ErrModelFailure     = &Error{Reason: ReasonModelFailure}
	ErrInvalidInput     = &Error{Reason: ReasonInvalidInput}
)

// Error is the structured error returned by models and generators.
type Error struct {
	Reason    Reason
	Op        string
	Required  int
	Available int
	Err       error
}

func (e *Error) Error() string {
	msg := string(e.Reason)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Reason == ReasonInsufficientData && e.Required > 0 {
		msg += fmt.Sprintf(" (required %d, available %d)", e.Required, e.Available)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a sentinel with the same reason.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Reason == e.Reason
}

type payload struct {
	Error     string `json:"error"`
	Reason    Reason `json:"reason,omitempty"`
	Required  int    `json:"required,omitempty"`
	Available int    `json:"available,omitempty"`
}

// MarshalJSON renders the error as {error, reason, required, available}.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(Payload(e))
}

// Payload returns the JSON object for any error. An *Error in the chain
// contributes its reason and counts; the message is always err.Error().
func Payload(err error) any {
	p := payload{Error: err.Error()}
	var fe *Error
	if errors.As(err, &fe) {
		p.Reason = fe.Reason
		if fe.Reason == ReasonInsufficientData {
			p.Required, p.Available = fe.Required, fe.Available
		}
	}
	return p
}

// InsufficientData reports that op needs required points but got available.
func InsufficientData(op string, required, available int) error {
	return &Error{Reason: ReasonInsufficientData, Op: op, Required: required, Available: available}
}

// ModelFailure wraps err as a model_failure for op.
func ModelFailure(op string, err error) error {
	return &Error{Reason: ReasonModelFailure, Op: op, Err: err}
}

// InvalidInput reports a malformed argument to op.
func InvalidInput(op, format string, args ...any) error {
	return &Error{Reason: ReasonInvalidInput, Op: op, Err: fmt.Errorf(format, args...)}
}

// ReasonOf returns the reason of the first *Error in err's chain, or "" if
// there is none.
func ReasonOf(err error) Reason {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Reason
	}
	return ""
}
