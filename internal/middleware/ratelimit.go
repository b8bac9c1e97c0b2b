package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/BerylCAtieno/legalease/internal/ratelimit"
	"github.com/BerylCAtieno/legalease/internal/utils"
	"github.com/gorilla/mux"
)

// RateLimit rejects requests over the per-client quota with 429.
func RateLimit(limiter ratelimit.Limiter, trusted *TrustedProxies, message string, logger *utils.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ClientIP(r, trusted)
			allowed, retryAfter := limiter.Allow(r.Context(), key)
			if allowed {
				next.ServeHTTP(w, r)
				return
			}

			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
			utils.LoggerFromContext(r.Context(), logger).Warn("rate_limited", "ip", key, "retry_after_s", seconds)
			utils.WriteError(w, utils.NewTooManyRequestsError(message), false)
		})
	}
}
