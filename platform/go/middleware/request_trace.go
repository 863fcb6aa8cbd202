package middleware

import (
	"net/http"

	"go.uber.org/zap"

	platformauth "github.com/swami-pg/backend/platform/go/auth"
	platformlogging "github.com/swami-pg/backend/platform/go/logging"
)

// RequestTrace enriches the request-scoped logger with the resolved actor so
// downstream log lines carry who acted. It must run after the auth
// middleware so the session is available when present.
func RequestTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := platformlogging.FromRequest(r, nil)
		if logger == nil {
			next.ServeHTTP(w, r)
			return
		}

		fields := []zap.Field{zap.String("actor_role", "anonymous")}
		if session, ok := platformauth.SessionFromContext(r.Context()); ok && session.Principal != nil {
			fields = []zap.Field{
				zap.String("actor_role", string(session.Role)),
				zap.String("actor_uid", session.Principal.UID),
			}
			if session.Tenant != nil {
				fields = append(fields, zap.String("actor_tenant_id", session.Tenant.ID))
			}
		}

		logger = logger.With(fields...)
		ctx := platformlogging.WithLogger(r.Context(), logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
