package router

import (
	"net/http"
	"strings"

	"github.com/BerylCAtieno/legalease/internal/config"
	"github.com/BerylCAtieno/legalease/internal/handlers"
	"github.com/BerylCAtieno/legalease/internal/middleware"
	"github.com/BerylCAtieno/legalease/internal/ratelimit"
	"github.com/BerylCAtieno/legalease/internal/services"
	"github.com/BerylCAtieno/legalease/internal/utils"

	"github.com/gorilla/mux"
)

const apiPrefix = "/api"

func NewRouter(docService services.DocumentService, limiter ratelimit.Limiter, cfg *config.Config, logger *utils.Logger) (http.Handler, error) {
	trusted, err := middleware.NewTrustedProxies(cfg.TrustedProxyCIDRs)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	// Document handler
	docHandler := handlers.NewDocumentHandler(docService, logger, cfg.IsDevelopment())

	// Routes
	api := r.PathPrefix(apiPrefix).Subrouter()
	api.HandleFunc("/health", docHandler.Health).Methods(http.MethodGet)
	api.HandleFunc("/test-upload", docHandler.TestUpload).Methods(http.MethodPost)
	api.HandleFunc("/analyze-document", docHandler.AnalyzeDocument).Methods(http.MethodPost)
	api.HandleFunc("/test-ai", docHandler.TestAI).Methods(http.MethodPost)

	// Wrong methods are reported like unknown paths.
	notFound := http.HandlerFunc(docHandler.NotFound)
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = notFound
	api.NotFoundHandler = notFound
	api.MethodNotAllowedHandler = notFound

	// Wrapped outside mux so preflights and 404s pass through them too.
	// Outermost first.
	chain := []mux.MiddlewareFunc{
		middleware.RequestID(logger),
		middleware.Logger(logger, trusted),
		middleware.Recovery(logger, cfg.IsDevelopment()),
		middleware.SecurityHeaders,
		middleware.CORS(cfg.Origins()),
		forPrefix(apiPrefix+"/", middleware.RateLimit(limiter, trusted, cfg.RateLimitMessage, logger)),
		middleware.BodyLimit(cfg.MaxBodyBytes),
	}

	var handler http.Handler = r
	for i := len(chain) - 1; i >= 0; i-- {
		handler = chain[i](handler)
	}
	return handler, nil
}

func forPrefix(prefix string, mw mux.MiddlewareFunc) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, prefix) {
				wrapped.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
