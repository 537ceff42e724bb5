package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/retailops/order-intake/internal/service"
)

// ExportService defines the CSV export operation behind /export/csv.
type ExportService interface {
	ExportCSV(ctx context.Context, opts service.ExportOptions) ([]byte, error)
}

// ExportHandler handles HTTP requests for the CSV export
type ExportHandler struct {
	svc    ExportService
	logger *slog.Logger
}

// NewExportHandler creates a new ExportHandler instance
func NewExportHandler(svc ExportService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		svc:    svc,
		logger: logger,
	}
}

// ExportCSV handles GET /export/csv - downloads recorded activity as CSV
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	children, err := boolParam(query.Get("children"), true)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid request", "children must be a boolean")
		return
	}
	adjustments, err := boolParam(query.Get("adjustments"), true)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid request", "adjustments must be a boolean")
		return
	}
	unsettled, err := boolParam(query.Get("unsettled"), false)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid request", "unsettled must be a boolean")
		return
	}

	data, err := h.svc.ExportCSV(r.Context(), service.ExportOptions{
		Start:       query.Get("start"),
		End:         query.Get("end"),
		Children:    children,
		Adjustments: adjustments,
		Unsettled:   unsettled,
	})
	if err != nil {
		writeServiceError(w, h.logger, "export_csv", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="export.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func boolParam(value string, fallback bool) (bool, error) {
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseBool(value)
}
