package auth

import (
	"testing"
	"time"

	"github.com/shwetank-antino/task-management-api/internal/users"
)

func testIdentity() users.Identity {
	return users.Identity{ID: 42, Name: "Asha", Email: "asha@example.com", Role: users.RoleUser}
}

func TestTokenService_AccessRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", 7*time.Minute, 15*24*time.Hour)
	id := testIdentity()

	token, err := svc.IssueAccess(id)
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}
	if token == "" {
		t.Fatal("IssueAccess() returned empty token")
	}

	claims, err := svc.Parse(token, TokenTypeAccess)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.UserID != id.ID {
		t.Errorf("claims.UserID = %d, want %d", claims.UserID, id.ID)
	}
	if claims.Email != id.Email {
		t.Errorf("claims.Email = %q, want %q", claims.Email, id.Email)
	}
	if claims.Role != id.Role {
		t.Errorf("claims.Role = %q, want %q", claims.Role, id.Role)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Errorf("claims.TokenType = %q, want %q", claims.TokenType, TokenTypeAccess)
	}
	if got := claims.Identity(); got != id {
		t.Errorf("claims.Identity() = %+v, want %+v", got, id)
	}
}

func TestTokenService_RefreshRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", 7*time.Minute, 15*24*time.Hour)

	token, err := svc.IssueRefresh(testIdentity())
	if err != nil {
		t.Fatalf("IssueRefresh() error = %v", err)
	}
	claims, err := svc.Parse(token, TokenTypeRefresh)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.TokenType != TokenTypeRefresh {
		t.Errorf("claims.TokenType = %q, want %q", claims.TokenType, TokenTypeRefresh)
	}
}

func TestTokenService_RejectsWrongTokenType(t *testing.T) {
	svc := NewTokenService("test-secret", 7*time.Minute, 15*24*time.Hour)
	id := testIdentity()

	access, err := svc.IssueAccess(id)
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}
	if _, err := svc.Parse(access, TokenTypeRefresh); err != ErrInvalidToken {
		t.Errorf("access token accepted as refresh, err = %v", err)
	}

	refresh, err := svc.IssueRefresh(id)
	if err != nil {
		t.Fatalf("IssueRefresh() error = %v", err)
	}
	if _, err := svc.Parse(refresh, TokenTypeAccess); err != ErrInvalidToken {
		t.Errorf("refresh token accepted as access, err = %v", err)
	}
}

func TestTokenService_RejectsExpiredToken(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute, 15*24*time.Hour)

	token, err := svc.IssueAccess(testIdentity())
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}
	if _, err := svc.Parse(token, TokenTypeAccess); err != ErrInvalidToken {
		t.Errorf("expired token accepted, err = %v", err)
	}
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-one", 7*time.Minute, 15*24*time.Hour)
	verifier := NewTokenService("secret-two", 7*time.Minute, 15*24*time.Hour)

	token, err := issuer.IssueAccess(testIdentity())
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}
	if _, err := verifier.Parse(token, TokenTypeAccess); err != ErrInvalidToken {
		t.Errorf("token signed with another secret accepted, err = %v", err)
	}
}

func TestTokenService_RejectsMalformedToken(t *testing.T) {
	svc := NewTokenService("test-secret", 7*time.Minute, 15*24*time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"random string", "not.a.valid.token"},
		{"truncated jwt", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Parse(tt.token, TokenTypeAccess); err != ErrInvalidToken {
				t.Errorf("Parse(%q) err = %v, want ErrInvalidToken", tt.token, err)
			}
		})
	}
}
