package middleware

import (
	"net/http"

	"github.com/BerylCAtieno/legalease/internal/utils"
	"github.com/gorilla/mux"
)

// BodyLimit caps the request body. Requests that declare a larger body are
// rejected up front; others fail when the reader crosses the limit.
func BodyLimit(maxBytes int64) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				utils.WriteError(w, utils.NewTooLargeError("Request payload too large"), false)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
