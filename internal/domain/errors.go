package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrAuthRequired = errors.New("authentication required")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrInvalidInput = errors.New("invalid input")
)

// APIError is a failed remote call. Payload is the decoded response body.
type APIError struct {
	Status  int
	Detail  string
	Payload map[string]any
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api status %d", e.Status)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// NewAPIError builds an APIError from a decoded body, picking up its detail.
func NewAPIError(status int, payload map[string]any) *APIError {
	e := &APIError{Status: status, Payload: payload}
	if d, ok := payload["detail"].(string); ok {
		e.Detail = d
	}
	return e
}

// ErrorMessage extracts the human readable message of a rejected operation:
// the remote detail when there is one, otherwise fallback.
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Detail) != "" {
		return apiErr.Detail
	}
	return fallback
}

// ValidationError lists the fields of a form or selection that failed
// validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
