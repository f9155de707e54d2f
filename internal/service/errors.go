// Package service provides the application services of the grade engine:
// the note command service and the bulletin service.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check for these with errors.Is(); the API layer maps them to HTTP
// status codes. Not-found and duplicate conditions are reported with the
// store sentinels (store.ErrNoteNotFound, store.ErrDuplicateNote, ...) so a
// single errors.Is covers both layers.
var (
	// ErrNotModuleOwner indicates the acting teacher is not assigned to the
	// module a note belongs to. API layer maps this to HTTP 403 Forbidden.
	ErrNotModuleOwner = errors.New("acting teacher does not own the module")

	// ErrRenderFailed indicates the bulletin document could not be
	// generated. The export is not retried; the error propagates to the
	// caller as a failed export.
	ErrRenderFailed = errors.New("bulletin document generation failed")
)
