package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"ErrNotFound", ErrNotFound, "not found"},
		{"ErrInvalidInput", ErrInvalidInput, "invalid input"},
		{"ErrUnauthorized", ErrUnauthorized, "unauthorized"},
		{"ErrForbidden", ErrForbidden, "forbidden"},
		{"ErrTokenExpired", ErrTokenExpired, "token expired"},
		{"ErrTokenInvalid", ErrTokenInvalid, "token invalid"},
		{"ErrInvalidCredentials", ErrInvalidCredentials, "invalid credentials"},
		{"ErrInvalidProvider", ErrInvalidProvider, "invalid provider"},
		{"ErrServiceUnavailable", ErrServiceUnavailable, "service unavailable"},
		{"ErrStoreUnavailable", ErrStoreUnavailable, "store unavailable"},
		{"ErrRateLimited", ErrRateLimited, "rate limited"},
		{"ErrMalformedResponse", ErrMalformedResponse, "malformed response"},
		{"ErrGenerationFailed", ErrGenerationFailed, "generation failed"},
		{"ErrSweepInProgress", ErrSweepInProgress, "sweep already in progress"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.msg {
				t.Errorf("expected %q, got %q", tt.msg, tt.err.Error())
			}
		})
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	allErrors := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrUnauthorized,
		ErrForbidden,
		ErrTokenExpired,
		ErrTokenInvalid,
		ErrInvalidCredentials,
		ErrInvalidProvider,
		ErrServiceUnavailable,
		ErrStoreUnavailable,
		ErrRateLimited,
		ErrMalformedResponse,
		ErrGenerationFailed,
		ErrSweepInProgress,
	}

	for i, err1 := range allErrors {
		for j, err2 := range allErrors {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("errors should be distinct: %v and %v", err1, err2)
			}
		}
	}
}

func TestIsGenerationFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", ErrRateLimited, true},
		{"wrapped malformed", fmt.Errorf("parse: %w", ErrMalformedResponse), true},
		{"generic", ErrGenerationFailed, true},
		{"no generator", ErrServiceUnavailable, true},
		{"store down", ErrStoreUnavailable, false},
		{"not found", ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsGenerationFailure(tt.err); got != tt.want {
				t.Errorf("IsGenerationFailure(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
