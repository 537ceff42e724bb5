package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/retailops/order-intake/internal/service"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSONResponse writes a JSON response with the given status code and data
func WriteJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteErrorResponse writes an error response with the given status code and message
func WriteErrorResponse(w http.ResponseWriter, statusCode int, err, message string) {
	response := ErrorResponse{
		Error:   err,
		Message: message,
	}
	WriteJSONResponse(w, statusCode, response)
}

// writeServiceError maps service failures onto HTTP statuses: validation
// failures are client errors, everything else is a server error.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid request", validationErr.Error())
		return
	}

	logger.Error(op+"_failed", "error", err)
	WriteErrorResponse(w, http.StatusInternalServerError, "Internal error", "An internal error occurred while processing your request")
}
