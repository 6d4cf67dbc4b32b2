package api

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/chemdeck/chemdeck/pkg/errors"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps coded errors to HTTP statuses and hides internal details
// behind a generic message.
func writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	status := statusFor(errors.GetCode(err))
	message := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		message = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: message, Code: errors.GetCode(err)})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidMode,
		errors.ErrCodeInvalidCategory,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidProperty,
		errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound,
		errors.ErrCodeDatasetNotFound,
		errors.ErrCodeEntityNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}
