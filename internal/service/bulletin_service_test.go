package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iseem/iseem-api/internal/domain"
	"github.com/iseem/iseem-api/internal/domain/bulletin"
	"github.com/iseem/iseem-api/internal/store"
)

// bulletinServiceFixture wires a BulletinService over mocks with one
// student, two modules, and a teacher assigned to the first module.
type bulletinServiceFixture struct {
	studentID uuid.UUID
	moduleA   uuid.UUID
	moduleB   uuid.UUID
	teacherID uuid.UUID
	noteStore *mockNoteStore
	renderer  *mockRenderer
	service   BulletinService
}

func newBulletinServiceFixture(t *testing.T) *bulletinServiceFixture {
	t.Helper()

	f := &bulletinServiceFixture{
		studentID: uuid.New(),
		moduleA:   uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		moduleB:   uuid.MustParse("22222222-2222-2222-2222-222222222222"),
		teacherID: uuid.New(),
		noteStore: &mockNoteStore{},
		renderer:  &mockRenderer{},
	}

	studentStore := &mockStudentStore{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*domain.Student, error) {
			if id == f.studentID {
				return newTestStudent(id), nil
			}
			return nil, store.ErrStudentNotFound
		},
	}
	moduleStore := &mockModuleStore{
		listByIDsFn: func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Module, error) {
			tid := f.teacherID
			all := map[uuid.UUID]domain.Module{
				f.moduleA: {ID: f.moduleA, Name: "Mathématiques", Coefficient: 2, AssignedTeacherID: &tid},
				f.moduleB: {ID: f.moduleB, Name: "Physique", Coefficient: 3},
			}
			out := make(map[uuid.UUID]domain.Module)
			for _, id := range ids {
				if m, ok := all[id]; ok {
					out[id] = m
				}
			}
			return out, nil
		},
	}
	teacherStore := &mockTeacherStore{
		listByIDsFn: func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Teacher, error) {
			out := make(map[uuid.UUID]domain.Teacher)
			for _, id := range ids {
				if id == f.teacherID {
					out[id] = domain.Teacher{
						ID: id, FirstName: "Karim", LastName: "Benali", Email: "k.benali@iseem.edu",
					}
				}
			}
			return out, nil
		},
	}

	svc, err := NewBulletinService(
		f.noteStore, studentStore, moduleStore, teacherStore, f.renderer, slog.Default())
	require.NoError(t, err)
	f.service = svc
	return f
}

func (f *bulletinServiceFixture) stubNotes(t *testing.T) {
	t.Helper()

	noteA, err := domain.NewNote(
		f.studentID, f.moduleA, domain.EvaluationC1, 14, "2024-2025", f.teacherID)
	require.NoError(t, err)
	noteB, err := domain.NewNote(
		f.studentID, f.moduleB, domain.EvaluationC1, 10, "2024-2025", f.teacherID)
	require.NoError(t, err)

	f.noteStore.listByStudentFn = func(
		ctx context.Context, studentID uuid.UUID, schoolYear string,
	) ([]store.NoteDetail, error) {
		return []store.NoteDetail{{Note: *noteA}, {Note: *noteB}}, nil
	}
}

func TestBuildBulletin(t *testing.T) {
	t.Parallel()

	f := newBulletinServiceFixture(t)
	f.stubNotes(t)

	b, err := f.service.BuildBulletin(
		context.Background(), f.studentID, "2024-2025", domain.EvaluationC1)
	require.NoError(t, err)

	require.Len(t, b.Lines, 2)
	assert.Equal(t, "Diallo Amina", b.StudentName)
	assert.Equal(t, "Contrôle 1", b.EvaluationLabel)
	// (2*14 + 3*10) / 5
	assert.Equal(t, 11.6, b.OverallAverage)
	assert.Equal(t, bulletin.MentionInsuffisant, b.Mention)
	assert.Equal(t, "Benali Karim", b.ResponsibleTeacherName)
}

func TestBuildBulletinValidatesParameters(t *testing.T) {
	t.Parallel()

	f := newBulletinServiceFixture(t)

	_, err := f.service.BuildBulletin(
		context.Background(), f.studentID, "2024-2025", domain.EvaluationType("ORAL"))
	assert.ErrorIs(t, err, domain.ErrInvalidEvaluationType)

	_, err = f.service.BuildBulletin(
		context.Background(), f.studentID, "2024", domain.EvaluationC1)
	assert.ErrorIs(t, err, domain.ErrInvalidSchoolYear)
}

func TestBuildBulletinUnknownStudent(t *testing.T) {
	t.Parallel()

	f := newBulletinServiceFixture(t)

	_, err := f.service.BuildBulletin(
		context.Background(), uuid.New(), "2024-2025", domain.EvaluationC1)
	assert.ErrorIs(t, err, store.ErrStudentNotFound)
}

func TestBuildBulletinNoNotes(t *testing.T) {
	t.Parallel()

	f := newBulletinServiceFixture(t)

	b, err := f.service.BuildBulletin(
		context.Background(), f.studentID, "2024-2025", domain.EvaluationC1)
	require.NoError(t, err)

	assert.Empty(t, b.Lines)
	assert.Equal(t, bulletin.MentionNonCalculee, b.Mention)
}

func TestExportBulletinPDF(t *testing.T) {
	t.Parallel()

	f := newBulletinServiceFixture(t)
	f.stubNotes(t)

	var rendered *bulletin.Bulletin
	f.renderer.renderFn = func(b *bulletin.Bulletin) ([]byte, error) {
		rendered = b
		return []byte("%PDF-1.3 test"), nil
	}

	data, err := f.service.ExportBulletinPDF(
		context.Background(), f.studentID, "2024-2025", domain.EvaluationC1)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3 test"), data)
	require.NotNil(t, rendered)
	assert.Equal(t, f.studentID, rendered.StudentID)
}

func TestExportBulletinPDFRenderFailure(t *testing.T) {
	t.Parallel()

	f := newBulletinServiceFixture(t)
	f.stubNotes(t)
	f.renderer.renderFn = func(b *bulletin.Bulletin) ([]byte, error) {
		return nil, errors.New("font missing")
	}

	_, err := f.service.ExportBulletinPDF(
		context.Background(), f.studentID, "2024-2025", domain.EvaluationC1)
	assert.ErrorIs(t, err, ErrRenderFailed)
}
