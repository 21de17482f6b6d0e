package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rocksti/pagafacil/internal/domain"
	"github.com/rocksti/pagafacil/internal/infrastructure/auth"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// UserContextKey is the context key for the authenticated user
	UserContextKey ContextKey = "user"
)

// AuthMiddleware rejects requests without a valid bearer token and stores
// the caller in the request context.
func AuthMiddleware(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeProblem(w, r, http.StatusUnauthorized, "missing authorization header", "UnauthorizedError")
				return
			}

			scheme, token, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				writeProblem(w, r, http.StatusUnauthorized, "invalid authorization header format", "UnauthorizedError")
				return
			}

			claims, err := jwtManager.Verify(strings.TrimSpace(token))
			if err != nil {
				detail := "invalid token"
				if errors.Is(err, domain.ErrExpiredToken) {
					detail = "token has expired"
				}
				writeProblem(w, r, http.StatusUnauthorized, detail, "UnauthorizedError")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims.User())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole only lets through callers holding role.
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUserFromContext(r.Context())
			if !ok {
				writeProblem(w, r, http.StatusUnauthorized, "authentication required", "UnauthorizedError")
				return
			}

			if user.Role != role {
				writeProblem(w, r, http.StatusForbidden, "insufficient permissions", "ForbiddenError")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext extracts the authenticated user from context
func GetUserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*domain.User)
	return user, ok
}
