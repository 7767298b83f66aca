package api

import (
	"errors"
	"net/http"

	"github.com/okian/unirank/internal/domain/validation"
)

// Error titles reported in the error field of failed responses.
const (
	titleValidation   = "Validation failed"
	titleRankings     = "Failed to fetch rankings"
	titleUniversities = "Failed to fetch universities"
)

// statusFor maps a service error to its HTTP status and title. Validation
// failures are the client's fault; everything else is a fetch failure.
func statusFor(err error, fetchTitle string) (int, string) {
	if errors.Is(err, validation.ErrValidation) {
		return http.StatusBadRequest, titleValidation
	}
	return http.StatusInternalServerError, fetchTitle
}
