package middleware

import (
	"net/http"

	"lawn-booking/pkg/utils"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Recover turns a panic into a 500 envelope. http.ErrAbortHandler is re-raised
// so net/http can abort the response.
func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}

					logger.Error("Panic recovered",
						zap.Any("panic", rec),
						zap.String("request_id", chimw.GetReqID(r.Context())),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
						zap.Stack("stack"),
					)

					utils.ResponseInternalError(w, r, "Internal server error", nil)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
