package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey signals a required backend API key is not configured.
	ErrMissingAPIKey = errors.New("api key not configured")
	// ErrIndexBackend signals a vector index backend failure.
	ErrIndexBackend = errors.New("index backend error")
	// ErrGenerationProvider signals a text-generation provider failure.
	ErrGenerationProvider = errors.New("generation provider error")
	// ErrGenerationDisabled signals generation was requested without a configured provider.
	ErrGenerationDisabled = errors.New("generation disabled")
)

// IndexError wraps ErrIndexBackend with the backend HTTP status and response body.
type IndexError struct {
	Status int
	Body   string
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("Pinecone API error: %d - %s", e.Status, e.Body)
}

func (e *IndexError) Unwrap() error { return ErrIndexBackend }

// NewIndexError creates an index backend error.
func NewIndexError(status int, body string) error {
	return &IndexError{Status: status, Body: body}
}
