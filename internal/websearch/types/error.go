package types

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrInvalidEngine       = errors.New("Invalid engine")
	ErrInvalidProviderName = errors.New("invalid provider name")
	ErrInvalidAPIHost      = errors.New("invalid API host")
	ErrMissingAPIKey       = errors.New("missing API key")
	ErrMissingLocalIndex   = errors.New("local search index not configured")

	// Request errors
	ErrEmptyQuery = errors.New("empty search query")

	// Provider errors
	ErrProviderRateLimited  = errors.New("provider rate limited")
	ErrProviderUnauthorized = errors.New("provider unauthorized")

	// Response errors
	ErrInvalidResponse = errors.New("invalid response from provider")
	ErrFetchFailed     = errors.New("failed to fetch result page")
)

// ProviderError wraps provider-specific errors
type ProviderError struct {
	Provider Engine
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s (%v)", e.Provider, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Provider, e.Code, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewHTTPError builds a ProviderError for a non-2xx upstream response
func NewHTTPError(provider Engine, status int, body []byte) *ProviderError {
	pe := &ProviderError{
		Provider: provider,
		Code:     fmt.Sprintf("HTTP_%d", status),
		Message:  string(body),
	}
	switch status {
	case 401, 403:
		pe.Err = ErrProviderUnauthorized
	case 429:
		pe.Err = ErrProviderRateLimited
	}
	return pe
}
