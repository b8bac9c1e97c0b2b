package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/BerylCAtieno/legalease/internal/utils"
	"github.com/gorilla/mux"
)

// Recovery turns a panic into a generic 500.
func Recovery(logger *utils.Logger, showDetails bool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				utils.LoggerFromContext(r.Context(), logger).Error("panic recovered",
					"panic", fmt.Sprint(rec),
					"stack", string(debug.Stack()))
				utils.WriteError(w, fmt.Errorf("panic: %v", rec), showDetails)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
