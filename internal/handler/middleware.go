package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/Bankydog/auth-service/shared/auth"
)

type contextKey struct{}

var principalKey = contextKey{}

// RequireAuth resolves the bearer token once at the system boundary and
// stores the authenticated principal (the token subject) in the request
// context. Everything downstream receives the principal explicitly; there
// is no ambient security context.
func RequireAuth(codec *auth.TokenCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}
			tokenStr := parts[1]

			subject, err := codec.ExtractSubject(tokenStr)
			if err != nil || !codec.Validate(tokenStr, subject) {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext returns the authenticated subject stored by
// RequireAuth, or false when the request is unauthenticated.
func PrincipalFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(principalKey).(string)
	return subject, ok
}
