package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/iseem/iseem-api/internal/domain"
	"github.com/iseem/iseem-api/internal/platform/logger"
	"github.com/iseem/iseem-api/internal/store"
)

// PostgresStudentStore implements the store.StudentStore interface.
type PostgresStudentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStudentStore creates a new PostgreSQL implementation of the
// StudentStore interface.
func NewPostgresStudentStore(db store.DBTX, logger *slog.Logger) *PostgresStudentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStudentStore{
		db:     db,
		logger: logger.With(slog.String("component", "student_store")),
	}
}

var _ store.StudentStore = (*PostgresStudentStore)(nil)

// GetByID implements store.StudentStore.GetByID
func (s *PostgresStudentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, first_name, last_name, matricule, level
		FROM students
		WHERE id = $1
	`

	var student domain.Student
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&student.ID,
		&student.FirstName,
		&student.LastName,
		&student.Matricule,
		&student.Level,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("student not found", slog.String("student_id", id.String()))
			return nil, store.ErrStudentNotFound
		}
		log.Error("failed to get student by ID",
			slog.String("error", err.Error()),
			slog.String("student_id", id.String()))
		return nil, MapError(err)
	}

	return &student, nil
}

// PostgresModuleStore implements the store.ModuleStore interface.
type PostgresModuleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresModuleStore creates a new PostgreSQL implementation of the
// ModuleStore interface.
func NewPostgresModuleStore(db store.DBTX, logger *slog.Logger) *PostgresModuleStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresModuleStore{
		db:     db,
		logger: logger.With(slog.String("component", "module_store")),
	}
}

var _ store.ModuleStore = (*PostgresModuleStore)(nil)

// GetByID implements store.ModuleStore.GetByID
func (s *PostgresModuleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Module, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, coefficient, enseignant_id
		FROM modules
		WHERE id = $1
	`

	module, err := scanModule(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("module not found", slog.String("module_id", id.String()))
			return nil, store.ErrModuleNotFound
		}
		log.Error("failed to get module by ID",
			slog.String("error", err.Error()),
			slog.String("module_id", id.String()))
		return nil, MapError(err)
	}

	return module, nil
}

// ListByIDs implements store.ModuleStore.ListByIDs
func (s *PostgresModuleStore) ListByIDs(
	ctx context.Context,
	ids []uuid.UUID,
) (map[uuid.UUID]domain.Module, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	modules := make(map[uuid.UUID]domain.Module, len(ids))
	if len(ids) == 0 {
		return modules, nil
	}

	query := `
		SELECT id, name, coefficient, enseignant_id
		FROM modules
		WHERE id = ANY($1::uuid[])
	`

	rows, err := s.db.QueryContext(ctx, query, idsToStrings(ids))
	if err != nil {
		log.Error("failed to list modules", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Warn("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	for rows.Next() {
		module, err := scanModule(rows)
		if err != nil {
			log.Error("failed to scan module row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		modules[module.ID] = *module
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return modules, nil
}

// idsToStrings renders UUIDs as text so they can travel as a text[]
// parameter and be cast to uuid[] server-side.
func idsToStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// scanModule scans a module row, mapping a NULL enseignant_id to nil.
func scanModule(row rowScanner) (*domain.Module, error) {
	var module domain.Module
	var teacherID uuid.NullUUID

	err := row.Scan(&module.ID, &module.Name, &module.Coefficient, &teacherID)
	if err != nil {
		return nil, err
	}

	if teacherID.Valid {
		id := teacherID.UUID
		module.AssignedTeacherID = &id
	}
	return &module, nil
}

// PostgresTeacherStore implements the store.TeacherStore interface.
type PostgresTeacherStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTeacherStore creates a new PostgreSQL implementation of the
// TeacherStore interface.
func NewPostgresTeacherStore(db store.DBTX, logger *slog.Logger) *PostgresTeacherStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresTeacherStore{
		db:     db,
		logger: logger.With(slog.String("component", "teacher_store")),
	}
}

var _ store.TeacherStore = (*PostgresTeacherStore)(nil)

// GetByID implements store.TeacherStore.GetByID
func (s *PostgresTeacherStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Teacher, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, first_name, last_name, email
		FROM enseignants
		WHERE id = $1
	`

	var teacher domain.Teacher
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&teacher.ID,
		&teacher.FirstName,
		&teacher.LastName,
		&teacher.Email,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("teacher not found", slog.String("teacher_id", id.String()))
			return nil, store.ErrTeacherNotFound
		}
		log.Error("failed to get teacher by ID",
			slog.String("error", err.Error()),
			slog.String("teacher_id", id.String()))
		return nil, MapError(err)
	}

	return &teacher, nil
}

// ListByIDs implements store.TeacherStore.ListByIDs
func (s *PostgresTeacherStore) ListByIDs(
	ctx context.Context,
	ids []uuid.UUID,
) (map[uuid.UUID]domain.Teacher, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	teachers := make(map[uuid.UUID]domain.Teacher, len(ids))
	if len(ids) == 0 {
		return teachers, nil
	}

	query := `
		SELECT id, first_name, last_name, email
		FROM enseignants
		WHERE id = ANY($1::uuid[])
	`

	rows, err := s.db.QueryContext(ctx, query, idsToStrings(ids))
	if err != nil {
		log.Error("failed to list teachers", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Warn("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	for rows.Next() {
		var teacher domain.Teacher
		err := rows.Scan(&teacher.ID, &teacher.FirstName, &teacher.LastName, &teacher.Email)
		if err != nil {
			log.Error("failed to scan teacher row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		teachers[teacher.ID] = teacher
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return teachers, nil
}
