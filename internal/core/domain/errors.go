package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller lacks permission for this action
	ErrForbidden = errors.New("forbidden")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrInvalidCredentials indicates wrong email/password combination
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidProvider indicates an unknown AI provider was specified
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrServiceUnavailable indicates no text generator is configured or reachable
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrStoreUnavailable indicates the record store could not serve the request
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrRateLimited indicates the text generator rejected the call with a rate limit
	ErrRateLimited = errors.New("rate limited")

	// ErrMalformedResponse indicates generated output was not valid JSON for the expected schema
	ErrMalformedResponse = errors.New("malformed response")

	// ErrGenerationFailed indicates a generic text generation failure
	ErrGenerationFailed = errors.New("generation failed")

	// ErrSweepInProgress indicates another instance is already running the sweep
	ErrSweepInProgress = errors.New("sweep already in progress")
)

// IsGenerationFailure reports whether err belongs to the per-record
// generation failure class. Sweeps record these and move on.
func IsGenerationFailure(err error) bool {
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrMalformedResponse) ||
		errors.Is(err, ErrGenerationFailed) ||
		errors.Is(err, ErrServiceUnavailable)
}
