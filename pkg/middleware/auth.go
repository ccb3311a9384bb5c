package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"

	apperrors "gite/pkg/errors"
	httputil "gite/pkg/http"
	"gite/pkg/logger"
)

const adminKey contextKey = "admin"

// Admin is the authenticated back-office user of a request.
type Admin struct {
	Subject string
	Email   string
}

type AdminClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AdminGuard verifies HS256 bearer tokens for back-office routes. When
// allowed is non-empty only those emails are admitted.
type AdminGuard struct {
	secret  []byte
	allowed map[string]struct{}
	log     *logger.Logger
}

func NewAdminGuard(secret string, allowedEmails []string, log *logger.Logger) *AdminGuard {
	allowed := make(map[string]struct{}, len(allowedEmails))
	for _, e := range allowedEmails {
		allowed[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	if secret == "" {
		log.Warn("ADMIN_JWT_SECRET not set, admin endpoints will reject every request")
	}
	return &AdminGuard{secret: []byte(secret), allowed: allowed, log: log}
}

// Require wraps an httprouter handle so it only runs for an authenticated
// admin, who is then available through AdminFromContext.
func (g *AdminGuard) Require(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		admin, err := g.authenticate(r)
		if err != nil {
			g.log.Warn("Admin authentication failed",
				"request_id", RequestIDFromContext(r.Context()),
				"path", r.URL.Path,
				"error", err,
			)
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				g.log.Error("failed to write error response", "error", writeErr)
			}
			return
		}

		ctx := context.WithValue(r.Context(), adminKey, admin)
		next(w, r.WithContext(ctx), ps)
	}
}

func (g *AdminGuard) authenticate(r *http.Request) (*Admin, error) {
	if len(g.secret) == 0 {
		return nil, apperrors.Unavailable("admin authentication")
	}

	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, apperrors.Unauthorized("Missing bearer token")
	}

	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(t *jwt.Token) (any, error) {
		return g.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Unauthorized("Token expired")
		}
		return nil, apperrors.Unauthorized("Invalid token")
	}

	email := strings.ToLower(claims.Email)
	if len(g.allowed) > 0 {
		if _, ok := g.allowed[email]; !ok {
			return nil, apperrors.Forbidden("Account is not an administrator")
		}
	}

	return &Admin{Subject: claims.Subject, Email: email}, nil
}

// AdminFromContext returns the admin set by AdminGuard.Require.
func AdminFromContext(ctx context.Context) (*Admin, bool) {
	admin, ok := ctx.Value(adminKey).(*Admin)
	return admin, ok
}

// NewAdminToken signs a back-office token valid for ttl.
func NewAdminToken(secret, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AdminClaims{
		Email: strings.ToLower(email),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strings.ToLower(email),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
