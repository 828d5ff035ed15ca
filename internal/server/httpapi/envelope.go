// Package httpapi exposes the services over HTTP/JSON. Every response
// carries the same envelope, success or failure, and sentinel errors from
// the services map onto stable status codes.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gmpi-project/gmpi/internal/common"
)

// Envelope is the uniform response shape.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

func writeOK(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// publicAuthFailure is the single message for both authentication-stage
// failures, so a caller cannot probe whether the email or the password was
// wrong, or whether the account exists but is disabled.
const publicAuthFailure = "invalid credentials"

// writeError maps a service error onto a status code and envelope.
// Validation and conflict messages pass through verbatim; everything
// unrecognized collapses to a generic 500.
func writeError(w http.ResponseWriter, err error) {
	var status int
	message := err.Error()

	switch {
	case errors.Is(err, common.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, common.ErrInvalidCredentials), errors.Is(err, common.ErrAccountDisabled):
		status = http.StatusUnauthorized
		message = publicAuthFailure
	case errors.Is(err, common.ErrInvalidSession):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrPermissionDenied), errors.Is(err, common.ErrImmutableAccount):
		status = http.StatusForbidden
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	default:
		status = http.StatusInternalServerError
		message = "internal error"
	}

	writeJSON(w, status, Envelope{Success: false, Message: message})
}
