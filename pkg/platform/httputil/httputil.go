// Package httputil holds the JSON response helpers shared by HTTP handlers.
package httputil

import (
	"encoding/json"
	"net/http"
)

// Stable error codes returned in the "error" field.
const (
	CodeBadRequest   = "bad_request"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeNotFound     = "not_found"
	CodeRateLimited  = "rate_limit_exceeded"
	CodeUnavailable  = "service_unavailable"
	CodeInternal     = "internal_error"
)

var statusByCode = map[string]int{
	CodeBadRequest:   http.StatusBadRequest,
	CodeUnauthorized: http.StatusUnauthorized,
	CodeForbidden:    http.StatusForbidden,
	CodeNotFound:     http.StatusNotFound,
	CodeRateLimited:  http.StatusTooManyRequests,
	CodeUnavailable:  http.StatusServiceUnavailable,
	CodeInternal:     http.StatusInternalServerError,
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes {"error": code, "error_description": description}.
// Internal errors never carry a description so storage or driver details do
// not leak to callers.
func WriteError(w http.ResponseWriter, code, description string) {
	status, ok := statusByCode[code]
	if !ok {
		code, status = CodeInternal, http.StatusInternalServerError
	}
	body := map[string]string{"error": code}
	if code != CodeInternal && description != "" {
		body["error_description"] = description
	}
	WriteJSON(w, status, body)
}
