package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shwetank-antino/task-management-api/internal/users"
)

func guardRouter(tokens *TokenService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{RequireAuth(tokens)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := users.FromContext(c)
		c.JSON(http.StatusOK, gin.H{"email": id.Email})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestRequireAuth(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Minute, time.Hour)
	r := guardRouter(tokens)

	access, err := tokens.IssueAccess(users.Identity{ID: 1, Email: "a@b.com", Role: users.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	refresh, err := tokens.IssueRefresh(users.Identity{ID: 1, Email: "a@b.com", Role: users.RoleUser})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"refresh token used as access", "Bearer " + refresh, http.StatusUnauthorized},
		{"valid access token", "Bearer " + access, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d; body %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Minute, time.Hour)
	r := guardRouter(tokens, RequireRole(users.RoleAdmin))

	call := func(t *testing.T, role string) int {
		t.Helper()
		token, err := tokens.IssueAccess(users.Identity{ID: 1, Email: "a@b.com", Role: role})
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := call(t, users.RoleAdmin); code != http.StatusOK {
		t.Errorf("admin = %d, want 200", code)
	}
	if code := call(t, users.RoleUser); code != http.StatusForbidden {
		t.Errorf("user = %d, want 403", code)
	}
}

func TestRequireRole_FailsClosedWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// Deliberately mis-mounted without RequireAuth in front.
	r.GET("/naked", RequireRole(users.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/naked", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
