package replicate

import (
	"errors"
	"fmt"
)

// ErrToolsUnsupported is returned when a call declares tools. The model
// families served by this API have no tool invocation protocol, so the call
// fails before any network request is made.
var ErrToolsUnsupported = errors.New("replicate: tool invocation is not supported")

// ErrMalformedResponse is returned when the API answers with a payload that
// is missing required fields or carries an unrecognized status. It is fatal;
// the poll loop never retries past it.
var ErrMalformedResponse = errors.New("replicate: malformed response")

// ConfigError reports an invalid adapter configuration. It is returned by
// New before any network request can happen.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("replicate: config: %s: %s", e.Field, e.Reason)
}

// PredictionError reports a prediction that reached a failed or canceled
// terminal state. Error returns the provider-supplied reason verbatim.
type PredictionError struct {
	Status Status
	Reason string
}

func (e *PredictionError) Error() string {
	return e.Reason
}
