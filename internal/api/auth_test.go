package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"bistro/internal/config"
	"bistro/internal/database"
	"bistro/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func newTestAuth(t *testing.T) (*Auth, *database.DB) {
	t.Helper()

	db, err := database.NewDB(":memory:", nil)
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := db.CreateAdmin(context.Background(), testAdminEmail, string(hash)); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	return NewAuth(db, config.AuthConfig{JWTSecret: "test-secret", TokenTTLDays: 1}), db
}

func TestAuthTokenRoundTrip(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()

	token, admin, err := auth.Login(ctx, testAdminEmail, testAdminPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if admin.Email != testAdminEmail {
		t.Fatalf("unexpected admin: %+v", admin)
	}

	verified, err := auth.verifyToken(ctx, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verified.ID != admin.ID {
		t.Fatalf("expected admin id %d, got %d", admin.ID, verified.ID)
	}
}

func TestAuthLoginRejections(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()

	if _, _, err := auth.Login(ctx, testAdminEmail, "wrong"); err != errInvalidCredentials {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, _, err := auth.Login(ctx, "nobody@bistro.test", testAdminPassword); err != errInvalidCredentials {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
}

func TestAuthVerifyRejections(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()

	if _, err := auth.verifyToken(ctx, "not-a-jwt"); err == nil {
		t.Fatalf("expected error for malformed token")
	}

	// A token signed with a different secret must be rejected.
	other := NewAuth(auth.repo, config.AuthConfig{JWTSecret: "other-secret", TokenTTLDays: 1})
	token, err := other.issueToken(&models.AdminUser{ID: 1})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := auth.verifyToken(ctx, token); err == nil {
		t.Fatalf("expected error for token with wrong signature")
	}

	// An expired token must be rejected.
	expired := &Auth{repo: auth.repo, secret: auth.secret, ttl: -time.Hour}
	token, err = expired.issueToken(&models.AdminUser{ID: 1})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := auth.verifyToken(ctx, token); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestBearerToken(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	if got := bearerToken(req); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}

	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	if got := bearerToken(req); got != "abc.def.ghi" {
		t.Fatalf("unexpected token: %q", got)
	}

	req.Header.Set("Authorization", "Basic abc")
	if got := bearerToken(req); got != "" {
		t.Fatalf("expected empty token for basic auth, got %q", got)
	}
}
