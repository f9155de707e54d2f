// Package api provides HTTP handlers for the API.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/iseem/iseem-api/internal/api/middleware"
	"github.com/iseem/iseem-api/internal/api/shared"
	"github.com/iseem/iseem-api/internal/domain"
	"github.com/iseem/iseem-api/internal/platform/logger"
	"github.com/iseem/iseem-api/internal/service"
	"github.com/iseem/iseem-api/internal/store"
)

// NoteHandler handles note-related HTTP requests.
type NoteHandler struct {
	noteService service.NoteService
	logger      *slog.Logger
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(noteService service.NoteService, logger *slog.Logger) *NoteHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for NoteHandler")
	}

	return &NoteHandler{
		noteService: noteService,
		logger:      logger.With(slog.String("component", "note_handler")),
	}
}

// AddNote handles POST /notes requests.
func (h *NoteHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	actor, ok := middleware.GetActor(r)
	if !ok {
		log.Warn("actor not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req NoteItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request data", err)
		return
	}

	note, err := h.noteService.AddNote(r.Context(), actor, noteInputFromRequest(req))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("note added",
		slog.String("note_id", note.ID.String()),
		slog.String("actor_id", actor.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, noteToResponse(note))
}

// AddNotesBulk handles POST /notes/bulk requests. Items are processed
// independently; the response reports each item's outcome so partial
// success is visible to the caller.
func (h *NoteHandler) AddNotesBulk(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	actor, ok := middleware.GetActor(r)
	if !ok {
		log.Warn("actor not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req BulkNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request data", err)
		return
	}

	inputs := make([]service.AddNoteInput, 0, len(req.Notes))
	for _, item := range req.Notes {
		inputs = append(inputs, noteInputFromRequest(item))
	}

	results := h.noteService.AddNotesBulk(r.Context(), actor, inputs)

	resp := BulkNoteResponse{Results: make([]BulkNoteItemResult, 0, len(results))}
	for i, res := range results {
		item := BulkNoteItemResult{Input: req.Notes[i]}
		if res.Err != nil {
			item.Error = GetSafeErrorMessage(res.Err)
			resp.Failed++
		} else {
			noteResp := noteToResponse(res.Note)
			item.Note = &noteResp
			resp.Created++
		}
		resp.Results = append(resp.Results, item)
	}

	log.Info("bulk note add processed",
		slog.Int("created", resp.Created),
		slog.Int("failed", resp.Failed),
		slog.String("actor_id", actor.ID.String()))

	status := http.StatusCreated
	if resp.Failed > 0 {
		status = http.StatusMultiStatus
	}
	shared.RespondWithJSON(w, r, status, resp)
}

// ModifyNote handles PUT /notes/{noteID} requests.
func (h *NoteHandler) ModifyNote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	actor, ok := middleware.GetActor(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	noteID, err := uuid.Parse(chi.URLParam(r, "noteID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid note ID")
		return
	}

	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request data", err)
		return
	}

	note, err := h.noteService.ModifyNote(r.Context(), actor, noteID, service.UpdateNoteInput{
		Type:       domain.EvaluationType(req.Type),
		Value:      req.Value,
		SchoolYear: req.SchoolYear,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("note modified",
		slog.String("note_id", note.ID.String()),
		slog.String("actor_id", actor.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, noteToResponse(note))
}

// DeleteNote handles DELETE /notes/{noteID} requests.
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	actor, ok := middleware.GetActor(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	noteID, err := uuid.Parse(chi.URLParam(r, "noteID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid note ID")
		return
	}

	if err := h.noteService.DeleteNote(r.Context(), actor, noteID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("note deleted",
		slog.String("note_id", noteID.String()),
		slog.String("actor_id", actor.ID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// ListByStudent handles GET /students/{studentID}/notes requests.
func (h *NoteHandler) ListByStudent(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "studentID", h.noteService.ListNotesByStudent)
}

// ListByModule handles GET /modules/{moduleID}/notes requests.
func (h *NoteHandler) ListByModule(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "moduleID", h.noteService.ListNotesByModule)
}

// ListByTeacher handles GET /teachers/{teacherID}/notes requests.
func (h *NoteHandler) ListByTeacher(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "teacherID", h.noteService.ListNotesByTeacher)
}

// list factors the three projection endpoints: parse the path ID, require
// the year query parameter, delegate, map the rows.
func (h *NoteHandler) list(
	w http.ResponseWriter,
	r *http.Request,
	param string,
	fetch func(ctx context.Context, id uuid.UUID, year string) ([]store.NoteDetail, error),
) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid ID")
		return
	}

	year := r.URL.Query().Get("year")
	if !domain.IsValidSchoolYear(year) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid or missing year parameter")
		return
	}

	details, err := fetch(r.Context(), id, year)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, detailsToResponse(details))
}

// noteInputFromRequest maps a request item to a service input.
func noteInputFromRequest(req NoteItemRequest) service.AddNoteInput {
	return service.AddNoteInput{
		StudentID:  req.StudentID,
		ModuleID:   req.ModuleID,
		Type:       domain.EvaluationType(req.Type),
		Value:      req.Value,
		SchoolYear: req.SchoolYear,
	}
}
