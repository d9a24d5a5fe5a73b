package godbc

import "fmt"

// ConnectionError reports a failure to establish or keep a session:
// malformed URL, authentication failure, or unreachable host.
type ConnectionError struct {
	URL   string // redacted, never carries a password
	Cause error
}

func (e *ConnectionError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("connection error: %v", e.Cause)
	}
	return fmt.Sprintf("connection error: %s: %v", e.URL, e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// SyntaxError reports SQL the backend rejected as malformed.
type SyntaxError struct {
	SQL   string
	Cause error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %v", e.Cause)
}

func (e *SyntaxError) Unwrap() error {
	return e.Cause
}

// ParameterError reports a positional-parameter mismatch: wrong count, or a
// value kind the statement cannot bind. Want and Got are -1 when the
// mismatch is not about count.
type ParameterError struct {
	Want  int
	Got   int
	Cause error
}

func (e *ParameterError) Error() string {
	if e.Want >= 0 {
		return fmt.Sprintf("parameter error: statement takes %d parameters, got %d", e.Want, e.Got)
	}
	return fmt.Sprintf("parameter error: %v", e.Cause)
}

func (e *ParameterError) Unwrap() error {
	return e.Cause
}

// DriverError wraps a backend-specific failure that fits no other category.
type DriverError struct {
	Driver string
	Cause  error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("%s driver error: %v", e.Driver, e.Cause)
}

func (e *DriverError) Unwrap() error {
	return e.Cause
}
