// Package respond writes the JSON bodies shared by handlers and middleware.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dom/bandmates/internal/domain"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const internalErrorMessage = "internal server error"

type ErrorResponse struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error maps err onto the error taxonomy. Validation and business errors are
// returned with their message; anything unrecognised is logged with the
// request logger and answered with a generic 500.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := Resolve(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("req_id", middleware.GetReqID(r.Context())).
			Msg("unhandled error")
	}
	JSON(w, status, ErrorResponse{Error: msg})
}

// Resolve returns the status code and caller-facing message for err.
func Resolve(err error) (int, string) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Message
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access denied"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "invalid request"
	}
	return http.StatusInternalServerError, internalErrorMessage
}
