package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/retailops/order-intake/internal/domain"
)

// OrderService defines the intake operations behind the order endpoints.
type OrderService interface {
	CreateOrder(ctx context.Context, code string) (bool, error)
	RecordPayment(ctx context.Context, code string, amount float64) error
	RecordEvent(ctx context.Context, code string, kind domain.EventKind) error
}

// OrderHandler handles HTTP requests for order intake operations
type OrderHandler struct {
	svc    OrderService
	logger *slog.Logger
}

// NewOrderHandler creates a new OrderHandler instance
func NewOrderHandler(svc OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		svc:    svc,
		logger: logger,
	}
}

// CreateOrderRequest represents the request payload for creating an order
type CreateOrderRequest struct {
	Code string `json:"code"`
}

// CreateOrderResponse represents the response for creating an order
type CreateOrderResponse struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code"`
	Created bool   `json:"created"`
}

// PaymentRequest represents the request payload for recording a payment
type PaymentRequest struct {
	Amount float64 `json:"amount"`
}

// PaymentResponse represents the response for recording a payment
type PaymentResponse struct {
	OK     bool    `json:"ok"`
	Code   string  `json:"code"`
	Amount float64 `json:"amount"`
}

// EventRequest represents the request payload for recording an event
type EventRequest struct {
	Event string `json:"event"`
}

// EventResponse represents the response for recording an event
type EventResponse struct {
	OK    bool   `json:"ok"`
	Code  string `json:"code"`
	Event string `json:"event"`
}

// CreateOrder handles POST /orders - records an order unless the code exists
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	created, err := h.svc.CreateOrder(r.Context(), req.Code)
	if err != nil {
		writeServiceError(w, h.logger, "create_order", err)
		return
	}

	WriteJSONResponse(w, http.StatusOK, CreateOrderResponse{OK: true, Code: req.Code, Created: created})
}

// RecordPayment handles POST /orders/{code}/payments - appends a payment
func (h *OrderHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := h.svc.RecordPayment(r.Context(), code, req.Amount); err != nil {
		writeServiceError(w, h.logger, "record_payment", err)
		return
	}

	WriteJSONResponse(w, http.StatusOK, PaymentResponse{OK: true, Code: code, Amount: req.Amount})
}

// RecordEvent handles POST /orders/{code}/event - appends a lifecycle event
func (h *OrderHandler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := h.svc.RecordEvent(r.Context(), code, domain.EventKind(req.Event)); err != nil {
		writeServiceError(w, h.logger, "record_event", err)
		return
	}

	WriteJSONResponse(w, http.StatusOK, EventResponse{OK: true, Code: code, Event: req.Event})
}
