package mocks

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driven"
)

var _ driven.AuthAdapter = (*MockAuthAdapter)(nil)

const mockTokenPrefix = "mock."

// MockAuthAdapter stores passwords behind a visible prefix and encodes
// claims as base64 JSON. Not secure; tests only.
type MockAuthAdapter struct {
	// GenerateErr makes GenerateToken fail when set
	GenerateErr error
}

// NewMockAuthAdapter creates a new MockAuthAdapter
func NewMockAuthAdapter() *MockAuthAdapter {
	return &MockAuthAdapter{}
}

// HashPassword returns "hashed:" + password
func (m *MockAuthAdapter) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

// VerifyPassword accepts the prefixed form and the raw password
func (m *MockAuthAdapter) VerifyPassword(password, hash string) bool {
	return hash == "hashed:"+password || hash == password
}

// GenerateToken encodes claims as "mock.<base64 json>"
func (m *MockAuthAdapter) GenerateToken(claims *domain.TokenClaims) (string, error) {
	if m.GenerateErr != nil {
		return "", m.GenerateErr
	}
	data, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}
	return mockTokenPrefix + base64.RawURLEncoding.EncodeToString(data), nil
}

// ParseToken reverses GenerateToken
func (m *MockAuthAdapter) ParseToken(token string) (*domain.TokenClaims, error) {
	encoded, ok := strings.CutPrefix(token, mockTokenPrefix)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	var claims domain.TokenClaims
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil, domain.ErrTokenInvalid
	}
	return &claims, nil
}
