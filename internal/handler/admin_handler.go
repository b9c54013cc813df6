package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"epc-api/internal/domain"
	"epc-api/internal/forms"
	"epc-api/internal/service/airtable"
	"epc-api/internal/service/auth"
	"epc-api/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// maxListRecords caps how many records one admin listing returns
const maxListRecords = 100

// AdminHandler handles admin login and the record-browsing endpoints behind it
type AdminHandler struct {
	auth   *auth.Service
	store  *airtable.Client
	logger *logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authService *auth.Service, store *airtable.Client, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{auth: authService, store: store, logger: logger}
}

// loginRequest is the admin login request body
type loginRequest struct {
	Password string `json:"password"`
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "validation failed",
			[]map[string]string{{"field": "password", "message": "field required"}})
		return
	}

	token, err := h.auth.Login(req.Password)
	if err != nil {
		writeAppError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"token":     token,
		"expiresIn": int(auth.SessionTTL.Seconds()),
	})
}

// ListRecords handles GET /api/admin/records?form={formType}&max={n},
// proxying a read-only listing of one form's table from the record store
func (h *AdminHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	formType := domain.FormType(r.URL.Query().Get("form"))

	desc, ok := forms.Lookup(formType)
	if !ok {
		writeError(w, http.StatusBadRequest, "validation failed",
			[]map[string]string{{"field": "form", "message": "unknown or missing form type"}})
		return
	}

	max := 50
	if raw := r.URL.Query().Get("max"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= maxListRecords {
			max = parsed
		}
	}

	records, err := h.store.ListRecords(r.Context(), desc.Table, max)
	if err != nil {
		h.logger.WithError(err).WithField("table", desc.Table).Error("Failed to list records")
		writeAppError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"form":    string(formType),
		"records": records,
	})
}

// RegisterRoutes registers admin routes with the router; guarded routes are
// wrapped by the caller
func (h *AdminHandler) RegisterRoutes(public chi.Router, guarded chi.Router) {
	public.Post("/admin/login", h.Login)
	guarded.Get("/admin/records", h.ListRecords)
}
