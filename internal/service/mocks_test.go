package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/iseem/iseem-api/internal/domain"
	"github.com/iseem/iseem-api/internal/domain/bulletin"
	"github.com/iseem/iseem-api/internal/store"
)

// mockNoteStore implements store.NoteStore with pluggable behavior per
// method. It counts writes so tests can assert a denied operation never
// reached the store.
type mockNoteStore struct {
	createFn        func(ctx context.Context, note *domain.Note) error
	getByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.Note, error)
	updateFn        func(ctx context.Context, note *domain.Note) error
	deleteFn        func(ctx context.Context, id uuid.UUID) error
	existsForKeyFn  func(ctx context.Context, studentID, moduleID uuid.UUID, evalType domain.EvaluationType, schoolYear string, excludeID uuid.UUID) (bool, error)
	listByStudentFn func(ctx context.Context, studentID uuid.UUID, schoolYear string) ([]store.NoteDetail, error)
	listByModuleFn  func(ctx context.Context, moduleID uuid.UUID, schoolYear string) ([]store.NoteDetail, error)
	listByTeacherFn func(ctx context.Context, teacherID uuid.UUID, schoolYear string) ([]store.NoteDetail, error)

	createCalls int
	updateCalls int
	deleteCalls int
}

func (m *mockNoteStore) Create(ctx context.Context, note *domain.Note) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, note)
	}
	return nil
}

func (m *mockNoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNoteNotFound
}

func (m *mockNoteStore) Update(ctx context.Context, note *domain.Note) error {
	m.updateCalls++
	if m.updateFn != nil {
		return m.updateFn(ctx, note)
	}
	return nil
}

func (m *mockNoteStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.deleteCalls++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockNoteStore) ExistsForKey(
	ctx context.Context,
	studentID, moduleID uuid.UUID,
	evalType domain.EvaluationType,
	schoolYear string,
	excludeID uuid.UUID,
) (bool, error) {
	if m.existsForKeyFn != nil {
		return m.existsForKeyFn(ctx, studentID, moduleID, evalType, schoolYear, excludeID)
	}
	return false, nil
}

func (m *mockNoteStore) ListByStudent(
	ctx context.Context, studentID uuid.UUID, schoolYear string,
) ([]store.NoteDetail, error) {
	if m.listByStudentFn != nil {
		return m.listByStudentFn(ctx, studentID, schoolYear)
	}
	return nil, nil
}

func (m *mockNoteStore) ListByModule(
	ctx context.Context, moduleID uuid.UUID, schoolYear string,
) ([]store.NoteDetail, error) {
	if m.listByModuleFn != nil {
		return m.listByModuleFn(ctx, moduleID, schoolYear)
	}
	return nil, nil
}

func (m *mockNoteStore) ListByTeacher(
	ctx context.Context, teacherID uuid.UUID, schoolYear string,
) ([]store.NoteDetail, error) {
	if m.listByTeacherFn != nil {
		return m.listByTeacherFn(ctx, teacherID, schoolYear)
	}
	return nil, nil
}

// mockStudentStore implements store.StudentStore.
type mockStudentStore struct {
	getByIDFn func(ctx context.Context, id uuid.UUID) (*domain.Student, error)
}

func (m *mockStudentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrStudentNotFound
}

// mockModuleStore implements store.ModuleStore.
type mockModuleStore struct {
	getByIDFn   func(ctx context.Context, id uuid.UUID) (*domain.Module, error)
	listByIDsFn func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Module, error)
}

func (m *mockModuleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Module, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrModuleNotFound
}

func (m *mockModuleStore) ListByIDs(
	ctx context.Context, ids []uuid.UUID,
) (map[uuid.UUID]domain.Module, error) {
	if m.listByIDsFn != nil {
		return m.listByIDsFn(ctx, ids)
	}
	return map[uuid.UUID]domain.Module{}, nil
}

// mockTeacherStore implements store.TeacherStore.
type mockTeacherStore struct {
	getByIDFn   func(ctx context.Context, id uuid.UUID) (*domain.Teacher, error)
	listByIDsFn func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Teacher, error)
}

func (m *mockTeacherStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Teacher, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrTeacherNotFound
}

func (m *mockTeacherStore) ListByIDs(
	ctx context.Context, ids []uuid.UUID,
) (map[uuid.UUID]domain.Teacher, error) {
	if m.listByIDsFn != nil {
		return m.listByIDsFn(ctx, ids)
	}
	return map[uuid.UUID]domain.Teacher{}, nil
}

// mockRenderer implements BulletinRenderer.
type mockRenderer struct {
	renderFn func(b *bulletin.Bulletin) ([]byte, error)
}

func (m *mockRenderer) Render(b *bulletin.Bulletin) ([]byte, error) {
	if m.renderFn != nil {
		return m.renderFn(b)
	}
	return []byte("%PDF-mock"), nil
}
