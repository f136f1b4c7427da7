package domain

import (
	"testing"
	"time"
)

func TestAuthContext_IsAdmin(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleAdmin, true},
		{RoleEditor, false},
		{"", false},
	}

	for _, tt := range tests {
		ctx := &AuthContext{Role: tt.role}
		if got := ctx.IsAdmin(); got != tt.want {
			t.Errorf("IsAdmin() for role %q = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestTokenClaims_IsExpired(t *testing.T) {
	past := &TokenClaims{ExpiresAt: time.Now().Add(-time.Minute).Unix()}
	if !past.IsExpired() {
		t.Error("expected past claims to be expired")
	}

	future := &TokenClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()}
	if future.IsExpired() {
		t.Error("expected future claims to be valid")
	}
}
