package registry

import "fmt"

// LoadError represents a failure to read or validate registry data
type LoadError struct {
	File    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	prefix := "registry load error"
	if e.File != "" {
		prefix = fmt.Sprintf("registry load error in %s", e.File)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
