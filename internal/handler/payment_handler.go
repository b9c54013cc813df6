package handler

import (
	"encoding/json"
	"net/http"

	"epc-api/internal/service/square"
	"epc-api/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// PaymentHandler handles Square payment requests
type PaymentHandler struct {
	square *square.Client
	logger *logger.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(square *square.Client, logger *logger.Logger) *PaymentHandler {
	return &PaymentHandler{square: square, logger: logger}
}

// GetConfig handles GET /api/square/config, the read-only connectivity check
// the payment form uses before rendering
func (h *PaymentHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	if !h.square.Configured() {
		writeError(w, http.StatusServiceUnavailable, "payment provider not configured", nil)
		return
	}

	config := h.square.Config()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"applicationId": config.ApplicationID,
		"locationId":    config.LocationID,
		"environment":   config.Environment,
	})
}

// createPaymentRequest is the create-payment request body
type createPaymentRequest struct {
	SourceID    string `json:"sourceId"`
	AmountCents int64  `json:"amount"`
	Note        string `json:"note"`
}

// CreatePayment handles POST /api/payments
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	var fieldErrs []map[string]string
	if req.SourceID == "" {
		fieldErrs = append(fieldErrs, map[string]string{"field": "sourceId", "message": "field required"})
	}
	if req.AmountCents <= 0 {
		fieldErrs = append(fieldErrs, map[string]string{"field": "amount", "message": "must be a positive amount in cents"})
	}
	if len(fieldErrs) > 0 {
		writeError(w, http.StatusBadRequest, "validation failed", fieldErrs)
		return
	}

	payment, err := h.square.CreatePayment(r.Context(), req.SourceID, req.AmountCents, req.Note)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create payment")
		writeAppError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"payment": payment,
	})
}

// RegisterRoutes registers payment routes with the router
func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/square/config", h.GetConfig)
	r.Post("/payments", h.CreatePayment)
}
