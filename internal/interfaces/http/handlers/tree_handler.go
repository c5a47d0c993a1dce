package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/famscope/famscope/internal/application/report"
	"github.com/famscope/famscope/internal/infrastructure/monitoring/logging"
)

// ReportService is the application surface the handler depends on.
type ReportService interface {
	Consultar(ctx context.Context, dni string) (*report.Summary, error)
	Generate(ctx context.Context, dni string) (*report.GenerateResult, error)
}

// TreeHandler serves the consultation and download endpoints.
type TreeHandler struct {
	service ReportService
	logger  logging.Logger
}

// NewTreeHandler builds a handler on service.
func NewTreeHandler(service ReportService, log logging.Logger) *TreeHandler {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &TreeHandler{service: service, logger: log.Named("handler")}
}

// Consultar handles GET /consultar-arbol?dni= and returns the subject
// summary with the download link.
func (h *TreeHandler) Consultar(w http.ResponseWriter, r *http.Request) {
	dni := r.URL.Query().Get("dni")

	summary, err := h.service.Consultar(r.Context(), dni)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// DescargarPDF handles GET /descargar-arbol-pdf?dni=.  A previously stored
// artifact redirects to its presigned URL; otherwise the freshly rendered
// document streams back as an attachment.
func (h *TreeHandler) DescargarPDF(w http.ResponseWriter, r *http.Request) {
	dni := r.URL.Query().Get("dni")

	res, err := h.service.Generate(r.Context(), dni)
	if err != nil {
		writeAppError(w, err)
		return
	}

	if res.CachedURL != "" {
		http.Redirect(w, r, res.CachedURL, http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", res.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(res.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Data); err != nil {
		h.logger.Warn("pdf response write failed",
			logging.String("dni", dni), logging.Err(err))
	}
}
