package httpapi

import (
	"errors"
	"net/http"

	"github.com/alexanderramin/shiftledger/internal/domain"
)

// statusFor maps a service error to the HTTP status returned to the caller.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidDuration):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingUserProfile):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrProfileExists), errors.Is(err, domain.ErrWriteConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDateBeforeStart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrTimeout), errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides internal failures and passes domain errors through.
func publicMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}
