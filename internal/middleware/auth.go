package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/friendloop/backend/internal/auth"
	"github.com/friendloop/backend/internal/logging"
)

// TokenAuthenticator resolves a bearer access token to a user identifier.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, accessToken string) (string, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// resolved user ID on the request context for handlers to read explicitly.
func Authenticate(authenticator TokenAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := bearerToken(r)
			if token == "" {
				unauthorized(w)
				return
			}

			userID, err := authenticator.Authenticate(ctx, token)
			if err != nil {
				logging.FromContext(ctx).Warn("bearer token rejected", "error", err)
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUserID(ctx, userID)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
}
