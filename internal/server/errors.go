package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/brand-compiler/internal/compiler"
	"github.com/jonathan/brand-compiler/internal/copygen"
	"github.com/jonathan/brand-compiler/internal/tone"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnavailable indicates an optional collaborator was not configured
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured", e.Feature)
}

// ErrNotFound indicates a stored record does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr  *ErrValidation
		contractErr    *tone.ContractError
		notFoundErr    *ErrNotFound
		unavailableErr *ErrUnavailable
		generationErr  *copygen.GenerationError
		invariantErr   *compiler.InvariantError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &contractErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &unavailableErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &generationErr):
		return http.StatusBadGateway
	case errors.As(err, &invariantErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
