package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/BerylCAtieno/legalease/internal/utils"
	"github.com/gorilla/mux"
)

const RequestIDHeader = "X-Request-Id"

type requestIDContextKey struct{}

// RequestID propagates an incoming request id or generates one, and stores a
// child logger carrying it in the request context.
func RequestID(logger *utils.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
			if requestID == "" || len(requestID) > 128 {
				requestID = utils.GenerateID()
			}
			w.Header().Set(RequestIDHeader, requestID)

			ctx := context.WithValue(r.Context(), requestIDContextKey{}, requestID)
			ctx = utils.ContextWithLogger(ctx, logger.With("request_id", requestID))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}
