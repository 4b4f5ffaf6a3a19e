package rest

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tracklight/tracklight-backend/internal/domain"
)

// exportService defines the minimal interface needed by ExportHandler.
type exportService interface {
	ExportDayCSV(ctx context.Context, scope domain.Scope, day time.Time, w io.Writer) error
}

// ExportHandler serves the CSV export endpoint.
type ExportHandler struct {
	svc exportService
	log *slog.Logger
	now func() time.Time
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(svc exportService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		svc: svc,
		log: logger.With("handler", "export"),
		now: time.Now,
	}
}

// CSV handles GET /export/csv. The export is buffered so a mid-export
// failure still yields a clean error response instead of a truncated file.
func (h *ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	scope := scopeFromQuery(r)

	var buf bytes.Buffer
	if err := h.svc.ExportDayCSV(r.Context(), scope, h.now(), &buf); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="blocks_today.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck
}
