package api

import (
	"errors"
	"net/http"

	"github.com/iseem/iseem-api/internal/domain"
	"github.com/iseem/iseem-api/internal/service"
	"github.com/iseem/iseem-api/internal/service/auth"
	"github.com/iseem/iseem-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status
// codes based on the error type. This prevents leaking internal error
// types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotModuleOwner):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidEvaluationType),
		errors.Is(err, domain.ErrGradeOutOfRange),
		errors.Is(err, domain.ErrInvalidSchoolYear),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error (rendering failures included)
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, service.ErrNotModuleOwner):
		return "You are not authorized to grade this module"

	case errors.Is(err, store.ErrNoteNotFound):
		return "Note not found"

	case errors.Is(err, store.ErrStudentNotFound):
		return "Student not found"

	case errors.Is(err, store.ErrModuleNotFound):
		return "Module not found"

	case errors.Is(err, store.ErrTeacherNotFound):
		return "Teacher not found"

	case errors.Is(err, store.ErrDuplicateNote):
		return "A note already exists for this student, module, evaluation type, and school year"

	case errors.Is(err, domain.ErrGradeOutOfRange):
		return "Grade value must be between 0 and 20"

	case errors.Is(err, domain.ErrInvalidEvaluationType):
		return "Invalid evaluation type"

	case errors.Is(err, domain.ErrInvalidSchoolYear):
		return "Invalid school year, expected a label like 2024-2025"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	case errors.Is(err, service.ErrRenderFailed):
		return "Failed to generate the bulletin document"

	default:
		return "An unexpected error occurred"
	}
}
