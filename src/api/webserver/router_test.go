package webserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stake-plus/ideograph/src/api/config"
)

func newCORSFixture() http.Handler {
	return New(Deps{Cfg: config.Config{
		AllowedOrigins: []string{"http://localhost:3000", "https://app.example.com"},
		DefaultOrigin:  "http://localhost:3000",
	}})
}

func TestCORS_AllowedOriginEchoed(t *testing.T) {
	r := newCORSFixture()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/process", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://app.example.com")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("allow-origin = %q, want the request origin", got)
	}
}

func TestCORS_DisallowedOriginFallsBackAndIsServed(t *testing.T) {
	r := newCORSFixture()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/process", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://evil.example")
	r.ServeHTTP(w, req)

	// The handler must still run; an empty body is a validation error,
	// not a CORS rejection.
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 from the handler", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow-origin = %q, want the default origin", got)
	}
}

func TestCORS_DisallowedPreflightGetsDefaultOrigin(t *testing.T) {
	r := newCORSFixture()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/v1/process", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow-origin = %q, want the default origin", got)
	}
}
