package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/iseem/iseem-api/internal/domain"
)

// NoteDetail is a note joined with the display fields the read projections
// expose: the student's name and matricule, the module name, and the email
// of the user who recorded the grade.
type NoteDetail struct {
	Note            domain.Note `json:"note"`
	StudentName     string      `json:"student_name"`
	Matricule       string      `json:"matricule"`
	ModuleName      string      `json:"module_name"`
	RecordedByEmail string      `json:"recorded_by_email"`
}

// NoteStore defines the interface for note persistence.
type NoteStore interface {
	// Create saves a new note. The underlying storage enforces the natural
	// key (student, module, evaluation type, school year) with a unique
	// index, so a concurrent insert of the same key loses with
	// ErrDuplicateNote rather than producing two rows.
	Create(ctx context.Context, note *domain.Note) error

	// GetByID retrieves a note by its unique ID.
	// Returns ErrNoteNotFound if the note does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error)

	// Update overwrites a note's value, evaluation type, school year, and
	// modification timestamp. Returns ErrNoteNotFound if the note does not
	// exist and ErrDuplicateNote if the new key collides with another note.
	Update(ctx context.Context, note *domain.Note) error

	// Delete removes a note permanently.
	// Returns ErrNoteNotFound if the note does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsForKey reports whether a note other than excludeID exists for
	// the given natural key. Pass uuid.Nil as excludeID to consider all
	// notes. This backs the application-level uniqueness precondition; the
	// unique index remains the authority under concurrency.
	ExistsForKey(
		ctx context.Context,
		studentID, moduleID uuid.UUID,
		evalType domain.EvaluationType,
		schoolYear string,
		excludeID uuid.UUID,
	) (bool, error)

	// ListByStudent returns all notes of a student for a school year.
	ListByStudent(ctx context.Context, studentID uuid.UUID, schoolYear string) ([]NoteDetail, error)

	// ListByModule returns all notes recorded in a module for a school year.
	ListByModule(ctx context.Context, moduleID uuid.UUID, schoolYear string) ([]NoteDetail, error)

	// ListByTeacher returns all notes of the modules assigned to a teacher
	// for a school year.
	ListByTeacher(ctx context.Context, teacherID uuid.UUID, schoolYear string) ([]NoteDetail, error)
}
