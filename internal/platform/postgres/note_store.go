package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/iseem/iseem-api/internal/domain"
	"github.com/iseem/iseem-api/internal/platform/logger"
	"github.com/iseem/iseem-api/internal/store"
)

// noteDetailColumns is the SELECT list shared by the list projections.
// recorded_by may be null, hence the COALESCE on the teacher email.
const noteDetailColumns = `
	n.id, n.student_id, n.module_id, n.evaluation_type, n.value,
	n.school_year, n.recorded_by, n.created_at, n.modified_at,
	s.last_name || ' ' || s.first_name AS student_name,
	s.matricule,
	m.name AS module_name,
	COALESCE(e.email, '') AS recorded_by_email
`

// PostgresNoteStore implements the store.NoteStore interface using a
// PostgreSQL database as the storage backend.
type PostgresNoteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNoteStore creates a new PostgreSQL implementation of the
// NoteStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewPostgresNoteStore(db store.DBTX, logger *slog.Logger) *PostgresNoteStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNoteStore{
		db:     db,
		logger: logger.With(slog.String("component", "note_store")),
	}
}

// Ensure PostgresNoteStore implements store.NoteStore interface
var _ store.NoteStore = (*PostgresNoteStore)(nil)

// Create implements store.NoteStore.Create
// The unique index on (student_id, module_id, evaluation_type, school_year)
// is the authority on the natural key: a concurrent insert of the same key
// surfaces here as store.ErrDuplicateNote.
func (s *PostgresNoteStore) Create(ctx context.Context, note *domain.Note) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := note.Validate(); err != nil {
		log.Warn("note validation failed during create",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()))
		return err
	}

	query := `
		INSERT INTO notes (id, student_id, module_id, evaluation_type, value,
		                   school_year, recorded_by, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		note.ID,
		note.StudentID,
		note.ModuleID,
		note.Type,
		note.Value,
		note.SchoolYear,
		nullableUUID(note.RecordedBy),
		note.CreatedAt,
		note.ModifiedAt,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("natural key collision during note creation",
				slog.String("note_id", note.ID.String()),
				slog.String("student_id", note.StudentID.String()),
				slog.String("module_id", note.ModuleID.String()),
				slog.String("evaluation_type", string(note.Type)),
				slog.String("school_year", note.SchoolYear))
			return fmt.Errorf("%w: %v", store.ErrDuplicateNote, err)
		}

		log.Error("failed to create note",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()))
		return MapError(err)
	}

	log.Info("note created",
		slog.String("note_id", note.ID.String()),
		slog.String("student_id", note.StudentID.String()),
		slog.String("module_id", note.ModuleID.String()),
		slog.String("evaluation_type", string(note.Type)))
	return nil
}

// GetByID implements store.NoteStore.GetByID
func (s *PostgresNoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, student_id, module_id, evaluation_type, value,
		       school_year, recorded_by, created_at, modified_at
		FROM notes
		WHERE id = $1
	`

	note, err := scanNote(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("note not found", slog.String("note_id", id.String()))
			return nil, store.ErrNoteNotFound
		}
		log.Error("failed to get note by ID",
			slog.String("error", err.Error()),
			slog.String("note_id", id.String()))
		return nil, MapError(err)
	}

	return note, nil
}

// Update implements store.NoteStore.Update
// Only the mutable fields (value, evaluation type, school year) and the
// modification timestamp are written.
func (s *PostgresNoteStore) Update(ctx context.Context, note *domain.Note) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := note.Validate(); err != nil {
		log.Warn("note validation failed during update",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()))
		return err
	}

	query := `
		UPDATE notes
		SET evaluation_type = $1, value = $2, school_year = $3, modified_at = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		note.Type,
		note.Value,
		note.SchoolYear,
		note.ModifiedAt,
		note.ID,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("natural key collision during note update",
				slog.String("note_id", note.ID.String()))
			return fmt.Errorf("%w: %v", store.ErrDuplicateNote, err)
		}
		log.Error("failed to update note",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrNoteNotFound); err != nil {
		return err
	}

	log.Info("note updated", slog.String("note_id", note.ID.String()))
	return nil
}

// Delete implements store.NoteStore.Delete
func (s *PostgresNoteStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete note",
			slog.String("error", err.Error()),
			slog.String("note_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrNoteNotFound); err != nil {
		return err
	}

	log.Info("note deleted", slog.String("note_id", id.String()))
	return nil
}

// ExistsForKey implements store.NoteStore.ExistsForKey
func (s *PostgresNoteStore) ExistsForKey(
	ctx context.Context,
	studentID, moduleID uuid.UUID,
	evalType domain.EvaluationType,
	schoolYear string,
	excludeID uuid.UUID,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notes
			WHERE student_id = $1
			  AND module_id = $2
			  AND evaluation_type = $3
			  AND school_year = $4
			  AND id <> $5
		)
	`

	var exists bool
	err := s.db.QueryRowContext(ctx, query, studentID, moduleID, evalType, schoolYear, excludeID).
		Scan(&exists)
	if err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// ListByStudent implements store.NoteStore.ListByStudent
func (s *PostgresNoteStore) ListByStudent(
	ctx context.Context,
	studentID uuid.UUID,
	schoolYear string,
) ([]store.NoteDetail, error) {
	query := `
		SELECT ` + noteDetailColumns + `
		FROM notes n
		JOIN students s ON s.id = n.student_id
		JOIN modules m ON m.id = n.module_id
		LEFT JOIN enseignants e ON e.id = n.recorded_by
		WHERE n.student_id = $1 AND n.school_year = $2
		ORDER BY m.id, n.evaluation_type
	`
	return s.listDetails(ctx, query, studentID, schoolYear)
}

// ListByModule implements store.NoteStore.ListByModule
func (s *PostgresNoteStore) ListByModule(
	ctx context.Context,
	moduleID uuid.UUID,
	schoolYear string,
) ([]store.NoteDetail, error) {
	query := `
		SELECT ` + noteDetailColumns + `
		FROM notes n
		JOIN students s ON s.id = n.student_id
		JOIN modules m ON m.id = n.module_id
		LEFT JOIN enseignants e ON e.id = n.recorded_by
		WHERE n.module_id = $1 AND n.school_year = $2
		ORDER BY s.last_name, s.first_name, n.evaluation_type
	`
	return s.listDetails(ctx, query, moduleID, schoolYear)
}

// ListByTeacher implements store.NoteStore.ListByTeacher
// A teacher's notes are those recorded in the modules currently assigned to
// them, matching how the administration views a teacher's grading workload.
func (s *PostgresNoteStore) ListByTeacher(
	ctx context.Context,
	teacherID uuid.UUID,
	schoolYear string,
) ([]store.NoteDetail, error) {
	query := `
		SELECT ` + noteDetailColumns + `
		FROM notes n
		JOIN students s ON s.id = n.student_id
		JOIN modules m ON m.id = n.module_id
		LEFT JOIN enseignants e ON e.id = n.recorded_by
		WHERE m.enseignant_id = $1 AND n.school_year = $2
		ORDER BY m.id, s.last_name, s.first_name, n.evaluation_type
	`
	return s.listDetails(ctx, query, teacherID, schoolYear)
}

// listDetails runs one of the projection queries and scans its rows.
func (s *PostgresNoteStore) listDetails(
	ctx context.Context,
	query string,
	args ...any,
) ([]store.NoteDetail, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list notes", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Warn("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var details []store.NoteDetail
	for rows.Next() {
		var d store.NoteDetail
		var recordedBy uuid.NullUUID
		var evalType string
		err := rows.Scan(
			&d.Note.ID,
			&d.Note.StudentID,
			&d.Note.ModuleID,
			&evalType,
			&d.Note.Value,
			&d.Note.SchoolYear,
			&recordedBy,
			&d.Note.CreatedAt,
			&d.Note.ModifiedAt,
			&d.StudentName,
			&d.Matricule,
			&d.ModuleName,
			&d.RecordedByEmail,
		)
		if err != nil {
			log.Error("failed to scan note row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		d.Note.Type = domain.EvaluationType(evalType)
		if recordedBy.Valid {
			d.Note.RecordedBy = recordedBy.UUID
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return details, nil
}

// nullableUUID maps the zero UUID to SQL NULL.
func nullableUUID(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id
}

// rowScanner abstracts *sql.Row for scanNote.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanNote scans a bare note row (no projection joins).
func scanNote(row rowScanner) (*domain.Note, error) {
	var note domain.Note
	var recordedBy uuid.NullUUID
	var evalType string

	err := row.Scan(
		&note.ID,
		&note.StudentID,
		&note.ModuleID,
		&evalType,
		&note.Value,
		&note.SchoolYear,
		&recordedBy,
		&note.CreatedAt,
		&note.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}

	note.Type = domain.EvaluationType(evalType)
	if recordedBy.Valid {
		note.RecordedBy = recordedBy.UUID
	}
	return &note, nil
}
