// Package handlers implements the HTTP handlers of the analysis service.
package handlers

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the envelope for every error reply.
type ErrorResponse struct {
	Error ErrorInfo `json:"error"`
}

// ErrorInfo contains error details.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrBadRequest       = "BAD_REQUEST"
	ErrMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrNotFound         = "NOT_FOUND"
	ErrPayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	ErrDecode           = "DECODE_ERROR"
	ErrTimeout          = "TIMEOUT"
	ErrCanceled         = "CANCELED"
	ErrInternalError    = "INTERNAL_ERROR"
)

// StatusClientClosedRequest is the non-standard status recorded when the
// client disconnects before the analysis finishes.
const StatusClientClosedRequest = 499

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error response.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorResponse{Error: ErrorInfo{Code: code, Message: message}})
}

// MethodNotAllowed replies 405 with the error envelope.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusMethodNotAllowed, ErrMethodNotAllowed, r.Method+" not allowed on "+r.URL.Path)
}

// NotFound replies 404 with the error envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusNotFound, ErrNotFound, "no route for "+r.URL.Path)
}

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
