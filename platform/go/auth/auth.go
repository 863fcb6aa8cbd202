// Package auth carries the HTTP authentication middleware: bearer token
// verification against the identity provider, role resolution for the
// authenticated principal, and role gates for routers.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	identityservice "github.com/swami-pg/backend/domains/identity/be/service"
	"github.com/swami-pg/backend/platform/go/identity"
)

type ctxKey string

const ctxSession ctxKey = "SWAMIPG_RESOLVED_SESSION"

// SessionFromContext returns the resolved session for the request, if the
// middleware ran.
func SessionFromContext(ctx context.Context) (identityservice.Session, bool) {
	v := ctx.Value(ctxSession)
	if v == nil {
		return identityservice.Session{}, false
	}
	s, ok := v.(identityservice.Session)
	return s, ok
}

// WithSession stores a session on the context. Exposed for handler tests.
func WithSession(ctx context.Context, s identityservice.Session) context.Context {
	return context.WithValue(ctx, ctxSession, s)
}

// ExtractBearerToken pulls the bearer token from the Authorization header.
func ExtractBearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	const prefix = "Bearer "
	// Case-insensitive prefix match.
	if len(authHeader) < len(prefix) || !strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return "", false
	}

	return strings.TrimSpace(authHeader[len(prefix):]), true
}

// Middleware verifies the bearer token when one is present and resolves the
// principal's role, storing the Session on the context. Requests without a
// token proceed with a signed-out session so public routes keep working; an
// invalid token is rejected; a store outage during resolution fails closed
// with 503 rather than guessing a role.
func Middleware(provider identity.Provider, resolver *identityservice.Resolver, logger *zap.Logger) func(http.Handler) http.Handler {
	if provider == nil {
		panic("auth.Middleware: identity provider must not be nil")
	}
	if resolver == nil {
		panic("auth.Middleware: resolver must not be nil")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token, found := ExtractBearerToken(r)
			if !found {
				session, _ := resolver.Resolve(r.Context(), nil)
				next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
				return
			}

			principal, err := provider.VerifyToken(r.Context(), token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", fmt.Sprintf(`Bearer realm="api", error="invalid_token", error_description="%s"`, err.Error()))
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			session, err := resolver.Resolve(r.Context(), &principal)
			if err != nil {
				if logger != nil {
					logger.Error("session resolution failed", zap.String("uid", principal.UID), zap.Error(err))
				}
				http.Error(w, "service unavailable, try again", http.StatusServiceUnavailable)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// RequireRole gates a router on the resolved role.
func RequireRole(role identityservice.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok || session.Role != role {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSignedIn gates a router on any authenticated principal, including
// Unbound ones. The session endpoint uses it so an unlinked tenant can still
// see the "contact admin" state instead of a 403.
func RequireSignedIn() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok || session.Principal == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
