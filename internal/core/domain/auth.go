package domain

import "time"

// Role defines caller permission level
type Role string

const (
	RoleAdmin  Role = "admin"  // Run pipelines, sweeps and seeding
	RoleEditor Role = "editor" // Read links and records (future)
)

// AdminAccount is the configured administrator credential
type AdminAccount struct {
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never serialize
}

// AuthContext contains authenticated caller info for request context
type AuthContext struct {
	Subject string `json:"subject"`
	Email   string `json:"email"`
	Role    Role   `json:"role"`
}

// IsAdmin checks if the authenticated caller is an admin
func (a *AuthContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful authentication
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
}

// TokenClaims represents the JWT token payload
type TokenClaims struct {
	Subject   string `json:"sub"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// IsExpired reports whether the claims are past their expiry
func (c *TokenClaims) IsExpired() bool {
	return time.Now().Unix() >= c.ExpiresAt
}
