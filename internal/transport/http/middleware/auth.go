package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/mpavic/ripple/internal/service"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// Auth is a pure gate: it verifies the bearer token and puts the subject id
// in the request context. It does no persistence lookups; handlers that care
// whether the subject still exists check downstream. A missing header and a
// rejected token both answer 401 but are logged apart.
func Auth(issuer *service.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				log.Printf("auth: missing or malformed Authorization header for %s %s", r.Method, r.URL.Path)
				http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"Missing or invalid token"}}`, http.StatusUnauthorized)
				return
			}

			tokenStr := strings.TrimPrefix(header, "Bearer ")

			userID, err := issuer.Verify(tokenStr)
			if err != nil {
				log.Printf("auth: token rejected for %s %s", r.Method, r.URL.Path)
				http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"Invalid or expired token"}}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated user ID from the request context.
func GetUserID(ctx context.Context) uuid.UUID {
	return ctx.Value(UserIDKey).(uuid.UUID)
}
