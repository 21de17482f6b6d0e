package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocksti/pagafacil/internal/adapter/http/dto"
	"github.com/rocksti/pagafacil/internal/domain"
	"github.com/rocksti/pagafacil/internal/infrastructure/auth"
)

func protected(jwtManager *auth.JWTManager, role domain.Role) http.Handler {
	return AuthMiddleware(jwtManager)(RequireRole(role)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUserFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_, _ = w.Write([]byte(user.ID))
	})))
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	adminToken, err := jwtManager.Generate(&domain.User{ID: "u-1", Email: "admin@example.com", Role: domain.RoleAdmin})
	require.NoError(t, err)
	userToken, err := jwtManager.Generate(&domain.User{ID: "u-2", Email: "user@example.com", Role: domain.RoleUser})
	require.NoError(t, err)
	foreignToken, err := auth.NewJWTManager("other-secret", time.Hour).
		Generate(&domain.User{ID: "u-3", Role: domain.RoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantDetail string
	}{
		{name: "admin", header: "Bearer " + adminToken, wantStatus: http.StatusOK},
		{name: "lowercase scheme", header: "bearer " + adminToken, wantStatus: http.StatusOK},
		{name: "missing header", wantStatus: http.StatusUnauthorized, wantDetail: "missing authorization header"},
		{name: "basic auth", header: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized, wantDetail: "invalid authorization header format"},
		{name: "wrong signature", header: "Bearer " + foreignToken, wantStatus: http.StatusUnauthorized, wantDetail: "invalid token"},
		{name: "non-admin", header: "Bearer " + userToken, wantStatus: http.StatusForbidden, wantDetail: "insufficient permissions"},
	}

	handler := protected(jwtManager, domain.RoleAdmin)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/contas/buscar/1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "u-1", rr.Body.String())
				return
			}
			var problem dto.ProblemResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &problem))
			assert.Equal(t, tt.wantDetail, problem.Detail)
			assert.Equal(t, tt.wantStatus, problem.Code)
		})
	}
}

func TestRequireRole_NoUser(t *testing.T) {
	handler := RequireRole(domain.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("must not be reached")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/contas/buscar/1", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
