package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/iseem/iseem-api/internal/domain"
)

// StudentStore defines read-only access to students. Student CRUD is owned
// by the administration service; the grade engine only resolves identities.
type StudentStore interface {
	// GetByID retrieves a student by ID.
	// Returns ErrStudentNotFound if the student does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error)
}

// ModuleStore defines read-only access to modules.
type ModuleStore interface {
	// GetByID retrieves a module by ID.
	// Returns ErrModuleNotFound if the module does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Module, error)

	// ListByIDs retrieves the modules with the given IDs, keyed by ID.
	// IDs with no matching module are absent from the result; it is the
	// caller's decision whether that is an error.
	ListByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Module, error)
}

// TeacherStore defines read-only access to teachers.
type TeacherStore interface {
	// GetByID retrieves a teacher by ID.
	// Returns ErrTeacherNotFound if the teacher does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Teacher, error)

	// ListByIDs retrieves the teachers with the given IDs, keyed by ID.
	ListByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Teacher, error)
}
