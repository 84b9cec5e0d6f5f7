package parsing

import "fmt"

// ParseError represents a failure to extract structured data from a
// completion response. Callers observe either a ParseError or a Result,
// never a panic or a partial object.
type ParseError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error (%s): %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error (%s): %s", e.Kind, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
