// Package response provides shared JSON response helpers for HTTP handlers.
package response

import (
	"encoding/json"
	"net/http"
)

// Envelope is the standard API response body: a human-readable message and,
// on failure, the underlying error detail.
type Envelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON writes a JSON-encoded payload with the given HTTP status code.
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Message writes a response carrying only a message.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Message: message})
}

// Fail writes an error response with a message and the error's detail string.
// Pass a nil err to omit the detail field.
func Fail(w http.ResponseWriter, status int, message string, err error) {
	env := Envelope{Message: message}
	if err != nil {
		env.Error = err.Error()
	}
	JSON(w, status, env)
}

// BadRequest writes a 400 response with a message.
func BadRequest(w http.ResponseWriter, message string) {
	Message(w, http.StatusBadRequest, message)
}

// Unauthorized writes a 401 response. The error detail, when present, is
// diagnostic only and never changes the status.
func Unauthorized(w http.ResponseWriter, message string, err error) {
	Fail(w, http.StatusUnauthorized, message, err)
}

// InternalError writes a 500 response exposing the underlying error string.
func InternalError(w http.ResponseWriter, err error) {
	JSON(w, http.StatusInternalServerError, Envelope{Error: err.Error()})
}
