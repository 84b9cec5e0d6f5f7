package completion

import "fmt"

// TransportError represents a network failure or a non-success HTTP status
// from the completion endpoint.
type TransportError struct {
	StatusCode int
	Status     string
	Cause      error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("completion API error: %d %s", e.StatusCode, e.Status)
	}
	if e.Cause != nil {
		return fmt.Sprintf("completion request failed: %v", e.Cause)
	}
	return "completion request failed"
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// SchemaError indicates the response envelope lacked the expected
// first-choice message content.
type SchemaError struct {
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid completion response: %s", e.Message)
}
