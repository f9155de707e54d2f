package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iseem/iseem-api/internal/domain"
	"github.com/iseem/iseem-api/internal/platform/logger"
	"github.com/iseem/iseem-api/internal/store"
)

// AddNoteInput is one note creation request.
type AddNoteInput struct {
	StudentID  uuid.UUID
	ModuleID   uuid.UUID
	Type       domain.EvaluationType
	Value      float64
	SchoolYear string
}

// UpdateNoteInput carries the mutable fields of a note modification.
type UpdateNoteInput struct {
	Type       domain.EvaluationType
	Value      float64
	SchoolYear string
}

// BulkNoteResult is the outcome of one item of a bulk add. Exactly one of
// Note and Err is set. The batch never aborts on an item failure; callers
// inspect each result to see which inputs succeeded and why the rest did
// not.
type BulkNoteResult struct {
	Input AddNoteInput
	Note  *domain.Note
	Err   error
}

// NoteService provides the grading command operations and read projections.
type NoteService interface {
	// AddNote validates and persists a single note.
	AddNote(ctx context.Context, actor Actor, input AddNoteInput) (*domain.Note, error)

	// AddNotesBulk applies AddNote to each input independently and returns
	// one result per input, in input order. A failed item is skipped, not
	// fatal to the rest of the batch.
	AddNotesBulk(ctx context.Context, actor Actor, inputs []AddNoteInput) []BulkNoteResult

	// ModifyNote overwrites a note's value, type, and year.
	ModifyNote(ctx context.Context, actor Actor, noteID uuid.UUID, input UpdateNoteInput) (*domain.Note, error)

	// DeleteNote removes a note permanently.
	DeleteNote(ctx context.Context, actor Actor, noteID uuid.UUID) error

	// ListNotesByStudent returns a student's notes for a school year.
	ListNotesByStudent(ctx context.Context, studentID uuid.UUID, schoolYear string) ([]store.NoteDetail, error)

	// ListNotesByModule returns a module's notes for a school year.
	ListNotesByModule(ctx context.Context, moduleID uuid.UUID, schoolYear string) ([]store.NoteDetail, error)

	// ListNotesByTeacher returns the notes of a teacher's modules for a
	// school year.
	ListNotesByTeacher(ctx context.Context, teacherID uuid.UUID, schoolYear string) ([]store.NoteDetail, error)
}

// noteServiceImpl implements the NoteService interface.
type noteServiceImpl struct {
	noteStore    store.NoteStore
	studentStore store.StudentStore
	moduleStore  store.ModuleStore
	policy       GradePolicy
	logger       *slog.Logger
}

// NewNoteService creates a new NoteService. A nil policy falls back to
// DefaultGradePolicy.
func NewNoteService(
	noteStore store.NoteStore,
	studentStore store.StudentStore,
	moduleStore store.ModuleStore,
	policy GradePolicy,
	logger *slog.Logger,
) (NoteService, error) {
	if noteStore == nil {
		return nil, fmt.Errorf("noteStore cannot be nil")
	}
	if studentStore == nil {
		return nil, fmt.Errorf("studentStore cannot be nil")
	}
	if moduleStore == nil {
		return nil, fmt.Errorf("moduleStore cannot be nil")
	}
	if policy == nil {
		policy = DefaultGradePolicy
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &noteServiceImpl{
		noteStore:    noteStore,
		studentStore: studentStore,
		moduleStore:  moduleStore,
		policy:       policy,
		logger:       logger.With(slog.String("component", "note_service")),
	}, nil
}

// AddNote implements NoteService.AddNote
// Preconditions, in order: the student exists, the module exists, the actor
// may grade the module, the value and year are valid, and no note occupies
// the natural key. The store's unique index backs the last check under
// concurrency, so a racing duplicate still fails with ErrDuplicateNote.
func (s *noteServiceImpl) AddNote(
	ctx context.Context,
	actor Actor,
	input AddNoteInput,
) (*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.studentStore.GetByID(ctx, input.StudentID); err != nil {
		return nil, err
	}

	module, err := s.moduleStore.GetByID(ctx, input.ModuleID)
	if err != nil {
		return nil, err
	}

	if !s.policy(actor, module) {
		log.Warn("grading denied",
			slog.String("actor_id", actor.ID.String()),
			slog.String("module_id", module.ID.String()))
		return nil, ErrNotModuleOwner
	}

	note, err := domain.NewNote(
		input.StudentID,
		input.ModuleID,
		input.Type,
		input.Value,
		input.SchoolYear,
		actor.ID,
	)
	if err != nil {
		return nil, err
	}

	exists, err := s.noteStore.ExistsForKey(
		ctx, input.StudentID, input.ModuleID, input.Type, input.SchoolYear, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, store.ErrDuplicateNote
	}

	if err := s.noteStore.Create(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

// AddNotesBulk implements NoteService.AddNotesBulk
func (s *noteServiceImpl) AddNotesBulk(
	ctx context.Context,
	actor Actor,
	inputs []AddNoteInput,
) []BulkNoteResult {
	log := logger.FromContextOrDefault(ctx, s.logger)

	results := make([]BulkNoteResult, 0, len(inputs))
	for _, input := range inputs {
		note, err := s.AddNote(ctx, actor, input)
		if err != nil {
			log.Warn("bulk add: item failed",
				slog.String("student_id", input.StudentID.String()),
				slog.String("module_id", input.ModuleID.String()),
				slog.String("evaluation_type", string(input.Type)),
				slog.String("error", err.Error()))
			results = append(results, BulkNoteResult{Input: input, Err: err})
			continue
		}
		results = append(results, BulkNoteResult{Input: input, Note: note})
	}

	return results
}

// ModifyNote implements NoteService.ModifyNote
// When the evaluation type or the school year changes, the natural key is
// re-checked against the other notes (the note's own row excluded) so a
// modification cannot smuggle in a duplicate.
func (s *noteServiceImpl) ModifyNote(
	ctx context.Context,
	actor Actor,
	noteID uuid.UUID,
	input UpdateNoteInput,
) (*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	note, err := s.noteStore.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}

	module, err := s.moduleStore.GetByID(ctx, note.ModuleID)
	if err != nil {
		return nil, err
	}

	if !s.policy(actor, module) {
		log.Warn("modification denied",
			slog.String("actor_id", actor.ID.String()),
			slog.String("note_id", noteID.String()))
		return nil, ErrNotModuleOwner
	}

	keyChanged := input.Type != note.Type || input.SchoolYear != note.SchoolYear

	note.Type = input.Type
	note.Value = input.Value
	note.SchoolYear = input.SchoolYear
	note.ModifiedAt = time.Now().UTC()

	if err := note.Validate(); err != nil {
		return nil, err
	}

	if keyChanged {
		exists, err := s.noteStore.ExistsForKey(
			ctx, note.StudentID, note.ModuleID, note.Type, note.SchoolYear, note.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, store.ErrDuplicateNote
		}
	}

	if err := s.noteStore.Update(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

// DeleteNote implements NoteService.DeleteNote
func (s *noteServiceImpl) DeleteNote(ctx context.Context, actor Actor, noteID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	note, err := s.noteStore.GetByID(ctx, noteID)
	if err != nil {
		return err
	}

	module, err := s.moduleStore.GetByID(ctx, note.ModuleID)
	if err != nil {
		return err
	}

	if !s.policy(actor, module) {
		log.Warn("deletion denied",
			slog.String("actor_id", actor.ID.String()),
			slog.String("note_id", noteID.String()))
		return ErrNotModuleOwner
	}

	return s.noteStore.Delete(ctx, noteID)
}

// ListNotesByStudent implements NoteService.ListNotesByStudent
func (s *noteServiceImpl) ListNotesByStudent(
	ctx context.Context,
	studentID uuid.UUID,
	schoolYear string,
) ([]store.NoteDetail, error) {
	return s.noteStore.ListByStudent(ctx, studentID, schoolYear)
}

// ListNotesByModule implements NoteService.ListNotesByModule
func (s *noteServiceImpl) ListNotesByModule(
	ctx context.Context,
	moduleID uuid.UUID,
	schoolYear string,
) ([]store.NoteDetail, error) {
	return s.noteStore.ListByModule(ctx, moduleID, schoolYear)
}

// ListNotesByTeacher implements NoteService.ListNotesByTeacher
func (s *noteServiceImpl) ListNotesByTeacher(
	ctx context.Context,
	teacherID uuid.UUID,
	schoolYear string,
) ([]store.NoteDetail, error) {
	return s.noteStore.ListByTeacher(ctx, teacherID, schoolYear)
}
