package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bistro/internal/config"
	"bistro/internal/database"
	"bistro/internal/domain"
	"bistro/internal/models"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

var (
	errInvalidCredentials = errors.New("invalid email or password")
	errInvalidToken       = errors.New("invalid or expired token")
)

type adminContextKey struct{}

// Auth issues and verifies back-office JWTs. Tokens carry the admin id
// as subject and expire after the configured TTL.
type Auth struct {
	repo   domain.Repository
	secret []byte
	ttl    time.Duration
}

func NewAuth(repo domain.Repository, cfg config.AuthConfig) *Auth {
	ttlDays := cfg.TokenTTLDays
	if ttlDays <= 0 {
		ttlDays = models.AdminTokenTTLDays
	}
	return &Auth{
		repo:   repo,
		secret: []byte(cfg.JWTSecret),
		ttl:    time.Duration(ttlDays) * 24 * time.Hour,
	}
}

// Login verifies the credentials against the stored bcrypt hash and
// returns a signed token plus the account.
func (a *Auth) Login(ctx context.Context, email, password string) (string, *models.AdminUser, error) {
	admin, err := a.repo.GetAdminByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return "", nil, errInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, errInvalidCredentials
	}

	token, err := a.issueToken(admin)
	if err != nil {
		return "", nil, err
	}
	return token, admin, nil
}

func (a *Auth) issueToken(admin *models.AdminUser) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", admin.ID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// verifyToken parses the JWT and loads the admin it names.
func (a *Auth) verifyToken(ctx context.Context, raw string) (*models.AdminUser, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}

	var adminID int64
	if _, err := fmt.Sscanf(claims.Subject, "%d", &adminID); err != nil || adminID == 0 {
		return nil, errInvalidToken
	}

	admin, err := a.repo.GetAdmin(ctx, adminID)
	if err != nil {
		return nil, errInvalidToken
	}
	return admin, nil
}

// Middleware rejects requests without a valid Bearer token and stores
// the authenticated admin in the request context.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		admin, err := a.verifyToken(r.Context(), raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, errInvalidToken.Error())
			return
		}

		ctx := context.WithValue(r.Context(), adminContextKey{}, admin)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func adminFromContext(ctx context.Context) *models.AdminUser {
	admin, _ := ctx.Value(adminContextKey{}).(*models.AdminUser)
	return admin
}
