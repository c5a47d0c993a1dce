package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/famscope/famscope/internal/testutil"
)

func serve(t *testing.T, mw func(http.Handler) http.Handler, status int, path string) {
	t.Helper()
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte("body"))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
}

func TestRequestLogging_Levels(t *testing.T) {
	tests := []struct {
		status    int
		wantLevel string
		wantMsg   string
	}{
		{http.StatusOK, "info", "request completed"},
		{http.StatusBadRequest, "warn", "request completed with client error"},
		{http.StatusBadGateway, "error", "request completed with server error"},
	}
	for _, tt := range tests {
		log := testutil.NewMockLogger()
		serve(t, RequestLogging(log, DefaultLoggingConfig()), tt.status, "/consultar-arbol")
		assert.True(t, log.HasMessage(tt.wantLevel, tt.wantMsg), "status %d", tt.status)
	}
}

func TestRequestLogging_SkipsConfiguredPaths(t *testing.T) {
	log := testutil.NewMockLogger()
	serve(t, RequestLogging(log, DefaultLoggingConfig()), http.StatusOK, "/healthz")
	assert.Empty(t, log.Messages())
}

func TestRequestLogging_SlowRequestWarns(t *testing.T) {
	log := testutil.NewMockLogger()
	cfg := LoggingConfig{SlowThreshold: time.Nanosecond}
	serve(t, RequestLogging(log, cfg), http.StatusOK, "/consultar-arbol")
	assert.True(t, log.HasMessage("warn", "request completed (slow)"))
}

func TestCORS_SimpleRequest(t *testing.T) {
	handler := CORS(DefaultCORSConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/consultar-arbol", nil)
	req.Header.Set("Origin", "http://viewer.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_DisallowedOriginPassesThrough(t *testing.T) {
	cfg := CORSConfig{
		AllowedOrigins: []string{"http://allowed.example.com"},
		AllowedMethods: []string{http.MethodGet},
	}
	handler := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/consultar-arbol", nil)
	req.Header.Set("Origin", "http://other.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_AllowedOriginEchoed(t *testing.T) {
	cfg := CORSConfig{
		AllowedOrigins: []string{"http://allowed.example.com"},
		AllowedMethods: []string{http.MethodGet},
	}
	handler := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/consultar-arbol", nil)
	req.Header.Set("Origin", "http://allowed.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://allowed.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
}
