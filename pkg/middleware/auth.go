package middleware

import (
	"net/http"
	"strings"

	"lawn-booking/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// APIKey guards routes with a shared key compared against a bcrypt hash.
// The key is read from X-API-Key or an "Authorization: Bearer <key>" header.
// An empty hash disables the check.
func APIKey(keyHash string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if keyHash == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
					key = strings.TrimSpace(bearer)
				}
			}

			if key == "" {
				utils.ResponseUnauthorized(w, r, "Missing API key")
				return
			}

			if err := bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(key)); err != nil {
				logger.Warn("Rejected API key",
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr))
				utils.ResponseUnauthorized(w, r, "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
