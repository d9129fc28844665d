package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/internal/service"
	"github.com/diagnosis/travelmate/pkg/auth"
	"github.com/diagnosis/travelmate/pkg/logger"
)

type contextKey string

const claimsKey contextKey = "claims"

// Authenticate attaches the session claims when the request carries a valid
// token in the session cookie or an Authorization header. Anonymous requests pass.
func (h *Handlers) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.tokenFrom(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := auth.Parse(token, h.config.Auth.JWTSecret)
		if err != nil {
			logger.DebugContext(r.Context(), "Ignoring invalid session token", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		ctx = context.WithValue(ctx, logger.UserIDKey, claims.Sub)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handlers) tokenFrom(r *http.Request) string {
	if c, err := r.Cookie(h.config.Auth.CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// RequireRole rejects anonymous requests with 401 and other roles with 403.
// No roles means any signed-in user.
func (h *Handlers) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := getClaims(r)
			if claims == nil {
				writeError(w, http.StatusUnauthorized, "Authentication required", CodeUnauthorized)
				return
			}
			if len(roles) > 0 && !hasRole(claims.Role, roles) {
				writeError(w, http.StatusForbidden, "Access denied", CodeForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasRole(role string, roles []string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func getClaims(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(claimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

// caller converts the session claims into the identity services work with.
func caller(r *http.Request) (service.Caller, error) {
	claims := getClaims(r)
	if claims == nil {
		return service.Caller{}, domain.Unauthorized("Authentication required")
	}
	id, err := domain.ParseID(claims.Sub, "user")
	if err != nil {
		return service.Caller{}, domain.Unauthorized("Invalid session")
	}
	return service.Caller{ID: id, Role: claims.Role}, nil
}
