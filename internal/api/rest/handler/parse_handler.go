package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/retailops/order-intake/internal/extractor"
)

// ParseService defines the text extraction operation behind /parse.
type ParseService interface {
	Parse(ctx context.Context, text, matcher, lang string) (extractor.Parsed, *extractor.Match, error)
}

// ParseHandler handles HTTP requests for order-code extraction
type ParseHandler struct {
	svc    ParseService
	logger *slog.Logger
}

// NewParseHandler creates a new ParseHandler instance
func NewParseHandler(svc ParseService, logger *slog.Logger) *ParseHandler {
	return &ParseHandler{
		svc:    svc,
		logger: logger,
	}
}

// ParseRequest represents the request payload for extraction
type ParseRequest struct {
	Text    string `json:"text"`
	Matcher string `json:"matcher"`
	Lang    string `json:"lang"`
}

// ParseResponse represents the extraction result. Match is null when no
// order code was recognised.
type ParseResponse struct {
	Parsed extractor.Parsed `json:"parsed"`
	Match  *extractor.Match `json:"match"`
}

// Parse handles POST /parse - extracts a candidate order code from free text
func (h *ParseHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	parsed, match, err := h.svc.Parse(r.Context(), req.Text, req.Matcher, req.Lang)
	if err != nil {
		writeServiceError(w, h.logger, "parse", err)
		return
	}

	WriteJSONResponse(w, http.StatusOK, ParseResponse{Parsed: parsed, Match: match})
}
