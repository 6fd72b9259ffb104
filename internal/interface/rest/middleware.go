package rest

import (
	"context"
	"net/http"

	"resident-request-service/internal/domain/entity"
	"resident-request-service/internal/infrastructure/auth"
	"resident-request-service/pkg/logger"
)

type contextKey string

const claimsContextKey contextKey = "sessionClaims"

// SessionMiddleware validates bearer tokens and threads the session
// claims through the request context
func SessionMiddleware(verifier *auth.Verifier, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSON(w, http.StatusUnauthorized, errorBody{
					Error: "authorization required",
					Kind:  string(entity.KindUnauthorized),
				})
				return
			}

			claims, err := verifier.Verify(authHeader)
			if err != nil {
				log.Debug("Session token rejected", "error", err)
				writeJSON(w, http.StatusUnauthorized, errorBody{
					Error: "invalid session",
					Kind:  string(entity.KindUnauthorized),
				})
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, *claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts the session claims placed by the middleware
func ClaimsFromContext(ctx context.Context) (entity.SessionClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(entity.SessionClaims)
	return claims, ok
}

func requireClaims(w http.ResponseWriter, r *http.Request) (entity.SessionClaims, bool) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{
			Error: "no session",
			Kind:  string(entity.KindUnauthorized),
		})
	}
	return claims, ok
}
