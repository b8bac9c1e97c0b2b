package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/BerylCAtieno/legalease/internal/analyzer"
	"github.com/BerylCAtieno/legalease/internal/config"
	"github.com/BerylCAtieno/legalease/internal/ratelimit"
	"github.com/BerylCAtieno/legalease/internal/services"
	"github.com/BerylCAtieno/legalease/internal/utils"
)

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	limiter, err := ratelimit.NewMemoryLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}
	svc := services.NewService(analyzer.New(nil, nil), cfg.MaxFileSize, utils.NopLogger())
	h, err := NewRouter(svc, limiter, cfg, utils.NopLogger())
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return h
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return body["error"]
}

func TestUnknownRoutesReturnNotFound(t *testing.T) {
	h := newTestRouter(t, config.Defaults())

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/nope"},
		{http.MethodGet, "/api/unknown"},
		{http.MethodGet, "/api/analyze-document"},
		{http.MethodDelete, "/api/health"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want 404", rec.Code)
			}
			if msg := errorMessage(t, rec); msg != "Endpoint not found" {
				t.Errorf("error = %q", msg)
			}
		})
	}
}

func TestHealthHasCommonHeaders(t *testing.T) {
	h := newTestRouter(t, config.Defaults())

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	for _, header := range []string{"X-Request-Id", "X-Content-Type-Options", "Access-Control-Allow-Origin"} {
		if rec.Header().Get(header) == "" {
			t.Errorf("missing %s header", header)
		}
	}
}

func TestRateLimitAppliesToAPI(t *testing.T) {
	cfg := config.Defaults()
	cfg.RateLimitMax = 3
	cfg.RateLimitWindow = time.Hour
	h := newTestRouter(t, cfg)

	for i := 1; i <= 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.RemoteAddr = "198.51.100.7:4000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if i <= 3 {
			if rec.Code != http.StatusOK {
				t.Fatalf("request %d status = %d, want 200", i, rec.Code)
			}
			continue
		}
		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("request %d status = %d, want 429", i, rec.Code)
		}
		if msg := errorMessage(t, rec); msg != config.DefaultRateLimitMessage {
			t.Errorf("error = %q", msg)
		}
		if rec.Header().Get("Retry-After") == "" {
			t.Errorf("missing Retry-After")
		}
	}

	// A different client still has its own quota.
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.RemoteAddr = "198.51.100.8:4000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("other client status = %d", rec.Code)
	}
}

func TestBodyCeiling(t *testing.T) {
	cfg := config.Defaults()
	cfg.MaxFileSize = 16
	cfg.MaxBodyBytes = 32
	h := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/test-ai", strings.NewReader(`{"text":"`+strings.Repeat("x", 64)+`"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Request payload too large" {
		t.Errorf("error = %q", msg)
	}
}
