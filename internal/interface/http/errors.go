package handlers

import (
	"errors"
	"net/http"

	userapp "github.com/campusmeet/campusmeet-api/internal/application"
	"github.com/campusmeet/campusmeet-api/internal/domain/entity"
	"github.com/campusmeet/campusmeet-api/internal/domain/repository"
)

// statusFor maps domain errors onto HTTP statuses: validation failures are
// unprocessable, absent reads are not found, ownership violations are
// forbidden, and anything else is a backend failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidUser):
		return http.StatusUnprocessableEntity
	case errors.Is(err, userapp.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, userapp.ErrUsernameTaken), errors.Is(err, userapp.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, repository.ErrNotEventOwner):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
