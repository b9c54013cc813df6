package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "epc-api/pkg/errors"
	"epc-api/pkg/logger"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError writes the standard error envelope: {"error": "...", "details": ...}
func writeError(w http.ResponseWriter, statusCode int, message string, details interface{}) {
	body := map[string]interface{}{"error": message}
	if details != nil {
		body["details"] = details
	}
	writeJSON(w, statusCode, body)
}

// writeAppError maps an application error onto the error envelope. Unknown
// error values become a sanitized 500.
func writeAppError(w http.ResponseWriter, err error, logger *logger.Logger) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.WithError(err).Error("Unclassified error")
		writeError(w, http.StatusInternalServerError, "internal server error", nil)
		return
	}

	var details interface{}
	if len(appErr.Details) > 0 {
		details = appErr.Details
	}
	writeError(w, appErr.StatusCode, appErr.Message, details)
}

// MethodNotAllowed is the JSON 405 handler wired into the router
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
}

// NotFound is the JSON 404 handler wired into the router
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "endpoint not found", nil)
}
