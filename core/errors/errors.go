package errors

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrValidation is matched by every ValidationError via errors.Is.
var ErrValidation = errors.New("failed to validate inputs")

// ConfigError is returned when a config value is missing or out of range.
type ConfigError struct {
	Field  string
	Reason string
}

func (c ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", c.Field, c.Reason)
}

// ValidationError describes why an oracle request was rejected.
// It is meant for operator logs only and must not be sent back to the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// OracleError is returned by the client when the oracle answers with a non-200 status.
type OracleError struct {
	StatusCode int
	Body       string
}

func (e *OracleError) Error() string {
	if e.Body == "" {
		return "oracle returned status " + strconv.Itoa(e.StatusCode)
	}
	return fmt.Sprintf("oracle returned status %d: %s", e.StatusCode, e.Body)
}

// ConnectError is returned when the client cannot reach the oracle.
type ConnectError struct {
	Err error
}

func (c ConnectError) Error() string {
	return "connect error: " + c.Err.Error()
}

func (c ConnectError) Unwrap() error {
	return c.Err
}
