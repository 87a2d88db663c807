package db

import "fmt"

// EncodeError reports a value that could not be serialized for a JSONB column
type EncodeError struct {
	Column string
	Cause  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode error: %s: %v", e.Column, e.Cause)
}

func (e *EncodeError) Unwrap() error {
	return e.Cause
}

// DecodeError reports a stored JSONB column that no longer decodes
type DecodeError struct {
	Column string
	Cause  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %s: %v", e.Column, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}
