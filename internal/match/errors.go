package match

// ValidationError indicates required input was empty. The action is
// aborted before any network or ledger effect.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// errMissingInput is returned whenever CV or job description is empty.
func errMissingInput() *ValidationError {
	return &ValidationError{Message: "Please provide both CV and Job Description"}
}
