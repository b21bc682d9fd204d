package middleware

import (
	"net"
	"net/http"
	"sync"

	"lawn-booking/pkg/utils"

	"golang.org/x/time/rate"
)

type rateLimiter struct {
	limiters sync.Map
	rps      rate.Limit
	burst    int
}

func (l *rateLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	actual, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.rps, l.burst))
	return actual.(*rate.Limiter)
}

// RateLimit applies a token bucket per client IP. rps <= 0 disables it.
func RateLimit(config utils.RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if config.RPS <= 0 {
			return next
		}

		burst := config.Burst
		if burst <= 0 {
			burst = 5
		}
		limiter := &rateLimiter{rps: rate.Limit(config.RPS), burst: burst}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.getLimiter(clientIP(r)).Allow() {
				utils.ResponseTooManyRequests(w, r, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
