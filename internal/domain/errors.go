// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or missing.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEvaluationType is returned when an evaluation type is not
	// one of the recognized values.
	ErrInvalidEvaluationType = errors.New("invalid evaluation type")

	// ErrGradeOutOfRange is returned when a grade value falls outside the
	// 0 to 20 scale.
	ErrGradeOutOfRange = errors.New("grade value out of range")

	// ErrInvalidSchoolYear is returned when a school year label is not of
	// the form "YYYY-YYYY".
	ErrInvalidSchoolYear = errors.New("invalid school year")
)
