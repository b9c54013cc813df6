package middleware

import (
	"encoding/json"
	"net/http"
)

// errorBody is the error response envelope: {"error": "...", "details": ...}
type errorBody struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// writeJSONError writes the standard error envelope
func writeJSONError(w http.ResponseWriter, statusCode int, message string, details interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{Error: message, Details: details})
}
