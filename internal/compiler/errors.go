package compiler

import "fmt"

// InvariantError reports that an assembled artifact failed structural
// validation. It signals a defect in the derivation pipeline, never bad input.
type InvariantError struct {
	Artifact string
	Message  string
	Cause    error
}

func (e *InvariantError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invariant error: %s: %s: %v", e.Artifact, e.Message, e.Cause)
	}
	return fmt.Sprintf("invariant error: %s: %s", e.Artifact, e.Message)
}

func (e *InvariantError) Unwrap() error {
	return e.Cause
}
