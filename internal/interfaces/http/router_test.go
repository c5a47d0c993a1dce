package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famscope/famscope/internal/application/report"
	"github.com/famscope/famscope/internal/config"
	"github.com/famscope/famscope/internal/infrastructure/monitoring/logging"
	"github.com/famscope/famscope/internal/infrastructure/monitoring/prometheus"
	"github.com/famscope/famscope/internal/interfaces/http/handlers"
)

func configForTest() config.ServerConfig {
	return config.ServerConfig{
		Port:            0,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		ShutdownTimeout: 2 * time.Second,
	}
}

type stubService struct{}

func (stubService) Consultar(ctx context.Context, dni string) (*report.Summary, error) {
	return &report.Summary{DNI: dni, Nombres: "ANA LOPEZ DIAZ", Estado: "GENERADO"}, nil
}

func (stubService) Generate(ctx context.Context, dni string) (*report.GenerateResult, error) {
	return &report.GenerateResult{Data: []byte("%PDF-1.4"), Filename: "Arbol_" + dni + ".pdf"}, nil
}

func testRouter() http.Handler {
	metrics := prometheus.NewMetrics("famscope")
	return NewRouter(RouterConfig{
		TreeHandler:    handlers.NewTreeHandler(stubService{}, nil),
		HealthHandler:  handlers.NewHealthHandler("test"),
		MetricsHandler: metrics.Handler(),
		HTTPObserver:   metrics,
		Logger:         logging.NewNopLogger(),
	})
}

func TestRouter_Routes(t *testing.T) {
	r := testRouter()

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/healthz", http.StatusOK},
		{"/readyz", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/consultar-arbol?dni=12345678", http.StatusOK},
		{"/descargar-arbol-pdf?dni=12345678", http.StatusOK},
		{"/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.wantStatus, rec.Code, "path %s", tt.path)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodOptions, "/consultar-arbol", nil)
	req.Header.Set("Origin", "http://viewer.example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestRouter_PDFContentType(t *testing.T) {
	r := testRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/descargar-arbol-pdf?dni=12345678", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Arbol_12345678.pdf")
}

func TestServer_StartStop(t *testing.T) {
	cfg := configForTest()
	srv := NewServer(cfg, testRouter(), logging.NewNopLogger())

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, srv.Stop(context.Background()))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
