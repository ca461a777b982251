package warehouse

import (
	"fmt"
	"strings"
	"time"
)

// ConfigurationError indicates a missing or empty connection parameter.
// It is returned before any network call is attempted.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return "missing warehouse config: set " + strings.Join(e.Missing, ", ")
}

// TransportError indicates a network failure or a non-2xx HTTP response
// while submitting or polling a statement.
type TransportError struct {
	Op         string // "submit" or "poll"
	StatusCode int    // zero for network failures
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("warehouse %s failed: %v", e.Op, e.Err)
	}
	if e.Body == "" {
		return fmt.Sprintf("warehouse %s failed: %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("warehouse %s failed: %d %s", e.Op, e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError indicates a successful HTTP response whose body violates the
// statement API contract, such as a missing statement_id.
type ProtocolError struct {
	Message string
	Err     error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return "warehouse protocol error: " + e.Message + ": " + e.Err.Error()
	}
	return "warehouse protocol error: " + e.Message
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// RemoteExecutionError indicates the statement itself ended in a failure
// terminal state.
type RemoteExecutionError struct {
	StatementID string
	State       State
	ErrorCode   string
	Message     string
}

func (e *RemoteExecutionError) Error() string {
	msg := "warehouse statement " + string(e.State)
	if e.ErrorCode != "" {
		msg += " (" + e.ErrorCode + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// TimeoutError indicates the statement did not reach a terminal state within
// the poll budget or before the caller's deadline. StatementID is empty when
// the deadline expired during submit.
type TimeoutError struct {
	StatementID string
	LastState   State
	Waited      time.Duration
	Err         error
}

func (e *TimeoutError) Error() string {
	if e.StatementID == "" {
		return fmt.Sprintf("warehouse submit timed out after %s", e.Waited.Truncate(time.Millisecond))
	}
	return fmt.Sprintf("warehouse statement %s still %s after %s", e.StatementID, e.LastState, e.Waited.Truncate(time.Millisecond))
}

func (e *TimeoutError) Unwrap() error { return e.Err }
