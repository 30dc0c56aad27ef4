package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrGeminiAPIFailure is returned when a Gemini API request fails
	ErrGeminiAPIFailure = errors.New("gemini API request failed")

	// ErrEmptyResponse is returned when Gemini returns no usable content
	ErrEmptyResponse = errors.New("empty response from gemini")

	// ErrAPIKeyMissing is returned when no Gemini API key is configured
	ErrAPIKeyMissing = errors.New("gemini API key not configured")

	// ErrStoreUnavailable is returned when the history store backend is unreachable
	ErrStoreUnavailable = errors.New("history store unavailable")

	// ErrRefreshInFlight is returned when a price refresh is already running
	ErrRefreshInFlight = errors.New("price refresh already in progress")
)
