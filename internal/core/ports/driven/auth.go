package driven

import "github.com/tech4humanity/t4h-core/internal/core/domain"

// AuthAdapter handles authentication cryptographic operations.
// Credentials come from configuration, so there is no account storage.
type AuthAdapter interface {
	// Password operations
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) bool

	// Token operations
	GenerateToken(claims *domain.TokenClaims) (string, error)
	ParseToken(token string) (*domain.TokenClaims, error)
}
