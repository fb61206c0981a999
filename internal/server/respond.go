package server

import (
	"encoding/json"
	"net/http"

	"github.com/maajidpp/linkza/pkg/errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody matches the upstream API shape: a message plus the machine
// code for clients that branch on it.
type errorBody struct {
	Message string      `json:"message"`
	Code    errors.Code `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorBody{
		Message: errors.UserMessage(err),
		Code:    errors.GetCode(err),
	})
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidTile,
		errors.ErrCodeInvalidUsername, errors.ErrCodeInvalidLayout:
		return http.StatusBadRequest
	case errors.ErrCodeUnauthorized, errors.ErrCodeSessionExpired:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeNotFound, errors.ErrCodeUserNotFound,
		errors.ErrCodeLayoutNotFound, errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeStaleRevision:
		return http.StatusConflict
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
