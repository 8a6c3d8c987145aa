// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Voldemort-Project/mta-sga-cs-service/internal/auth"
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated user ID.
	UserIDKey ContextKey = "user_id"
	// UsernameKey is the context key for the authenticated username.
	UsernameKey ContextKey = "username"
	// OrgKey is the context key for the user's organization name.
	OrgKey ContextKey = "org"
	// RolesKey is the context key for the user's roles.
	RolesKey ContextKey = "roles"
)

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// Auth creates bearer-token authentication middleware backed by Keycloak.
func Auth(verifier TokenVerifier, clientID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				unauthorized(w, "invalid authorization header format")
				return
			}

			claims, err := verifier.Verify(r.Context(), parts[1])
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}

			sub, _ := claims.GetSubject()
			ctx := context.WithValue(r.Context(), UserIDKey, sub)
			ctx = context.WithValue(ctx, UsernameKey, claims.PreferredUsername)
			ctx = context.WithValue(ctx, OrgKey, claims.OrgName())
			ctx = context.WithValue(ctx, RolesKey, claims.Roles(clientID))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}

// GetUserID gets the authenticated user ID from context.
func GetUserID(ctx context.Context) string {
	if v := ctx.Value(UserIDKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetOrg gets the organization name from context.
func GetOrg(ctx context.Context) string {
	if v := ctx.Value(OrgKey); v != nil {
		return v.(string)
	}
	return ""
}

// GetRoles gets the user's roles from context.
func GetRoles(ctx context.Context) []string {
	if v := ctx.Value(RolesKey); v != nil {
		return v.([]string)
	}
	return nil
}

// HasRole checks if the context carries a specific role.
func HasRole(ctx context.Context, role string) bool {
	for _, r := range GetRoles(ctx) {
		if r == role {
			return true
		}
	}
	return false
}

// RequireRole creates middleware that requires a specific role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !HasRole(r.Context(), role) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error":"insufficient permissions"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
