package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tech4humanity/t4h-core/internal/core/domain"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driven"
	"github.com/tech4humanity/t4h-core/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// adminSubject is the token subject of the configured admin account
const adminSubject = "admin"

// authService authenticates the single configured admin account
type authService struct {
	admin       domain.AdminAccount
	authAdapter driven.AuthAdapter
	tokenTTL    time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(admin domain.AdminAccount, authAdapter driven.AuthAdapter) driving.AuthService {
	return &authService{
		admin:       admin,
		authAdapter: authAdapter,
		tokenTTL:    24 * time.Hour,
	}
}

// Authenticate validates credentials and issues a token
func (s *authService) Authenticate(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	// Validate input
	if req.Email == "" || req.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	// No admin configured means nobody can log in
	if s.admin.Email == "" || s.admin.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if !strings.EqualFold(strings.TrimSpace(req.Email), s.admin.Email) {
		return nil, domain.ErrInvalidCredentials
	}

	if !s.authAdapter.VerifyPassword(req.Password, s.admin.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)
	claims := &domain.TokenClaims{
		Subject:   adminSubject,
		Email:     s.admin.Email,
		Role:      domain.RoleAdmin,
		IssuedAt:  now.Unix(),
		ExpiresAt: expiresAt.Unix(),
	}

	token, err := s.authAdapter.GenerateToken(claims)
	if err != nil {
		return nil, err
	}

	return &domain.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Email:     s.admin.Email,
		Role:      domain.RoleAdmin,
	}, nil
}

// ValidateToken validates a JWT token and returns the auth context
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}

	claims, err := s.authAdapter.ParseToken(token)
	if errors.Is(err, domain.ErrTokenExpired) {
		return nil, domain.ErrTokenExpired
	}
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	if claims.IsExpired() {
		return nil, domain.ErrTokenExpired
	}

	return &domain.AuthContext{
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    claims.Role,
	}, nil
}
