package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/iseem/iseem-api/internal/domain"
	"github.com/iseem/iseem-api/internal/domain/bulletin"
	"github.com/iseem/iseem-api/internal/platform/logger"
	"github.com/iseem/iseem-api/internal/store"
)

// BulletinRenderer turns an aggregated bulletin into document bytes.
// The PDF implementation lives in internal/report.
type BulletinRenderer interface {
	Render(b *bulletin.Bulletin) ([]byte, error)
}

// BulletinService builds aggregated report cards and exports them as
// documents.
type BulletinService interface {
	// BuildBulletin aggregates a student's notes for a school year under
	// the given evaluation-type lens. Returns store.ErrStudentNotFound if
	// the student is unknown.
	BuildBulletin(
		ctx context.Context,
		studentID uuid.UUID,
		schoolYear string,
		evalType domain.EvaluationType,
	) (*bulletin.Bulletin, error)

	// ExportBulletinPDF builds the bulletin and renders it to PDF bytes.
	// Rendering failures are reported as ErrRenderFailed; the export is
	// not retried.
	ExportBulletinPDF(
		ctx context.Context,
		studentID uuid.UUID,
		schoolYear string,
		evalType domain.EvaluationType,
	) ([]byte, error)
}

// bulletinServiceImpl implements the BulletinService interface.
type bulletinServiceImpl struct {
	noteStore    store.NoteStore
	studentStore store.StudentStore
	moduleStore  store.ModuleStore
	teacherStore store.TeacherStore
	renderer     BulletinRenderer
	logger       *slog.Logger
}

// NewBulletinService creates a new BulletinService.
func NewBulletinService(
	noteStore store.NoteStore,
	studentStore store.StudentStore,
	moduleStore store.ModuleStore,
	teacherStore store.TeacherStore,
	renderer BulletinRenderer,
	logger *slog.Logger,
) (BulletinService, error) {
	if noteStore == nil {
		return nil, fmt.Errorf("noteStore cannot be nil")
	}
	if studentStore == nil {
		return nil, fmt.Errorf("studentStore cannot be nil")
	}
	if moduleStore == nil {
		return nil, fmt.Errorf("moduleStore cannot be nil")
	}
	if teacherStore == nil {
		return nil, fmt.Errorf("teacherStore cannot be nil")
	}
	if renderer == nil {
		return nil, fmt.Errorf("renderer cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &bulletinServiceImpl{
		noteStore:    noteStore,
		studentStore: studentStore,
		moduleStore:  moduleStore,
		teacherStore: teacherStore,
		renderer:     renderer,
		logger:       logger.With(slog.String("component", "bulletin_service")),
	}, nil
}

// BuildBulletin implements BulletinService.BuildBulletin
// The aggregation itself is pure (internal/domain/bulletin); this method
// only gathers its inputs: the student, the year's notes, the referenced
// modules, and their assigned teachers.
func (s *bulletinServiceImpl) BuildBulletin(
	ctx context.Context,
	studentID uuid.UUID,
	schoolYear string,
	evalType domain.EvaluationType,
) (*bulletin.Bulletin, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !evalType.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidEvaluationType, evalType)
	}
	if !domain.IsValidSchoolYear(schoolYear) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSchoolYear, schoolYear)
	}

	student, err := s.studentStore.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	details, err := s.noteStore.ListByStudent(ctx, studentID, schoolYear)
	if err != nil {
		return nil, err
	}

	notes := make([]domain.Note, 0, len(details))
	moduleIDSet := make(map[uuid.UUID]struct{})
	for _, d := range details {
		notes = append(notes, d.Note)
		moduleIDSet[d.Note.ModuleID] = struct{}{}
	}

	moduleIDs := make([]uuid.UUID, 0, len(moduleIDSet))
	for id := range moduleIDSet {
		moduleIDs = append(moduleIDs, id)
	}

	modules, err := s.moduleStore.ListByIDs(ctx, moduleIDs)
	if err != nil {
		return nil, err
	}

	teacherIDSet := make(map[uuid.UUID]struct{})
	for _, m := range modules {
		if m.AssignedTeacherID != nil {
			teacherIDSet[*m.AssignedTeacherID] = struct{}{}
		}
	}
	teacherIDs := make([]uuid.UUID, 0, len(teacherIDSet))
	for id := range teacherIDSet {
		teacherIDs = append(teacherIDs, id)
	}

	teachers, err := s.teacherStore.ListByIDs(ctx, teacherIDs)
	if err != nil {
		return nil, err
	}

	b := bulletin.Build(student, schoolYear, evalType, notes, modules, teachers)

	log.Debug("bulletin built",
		slog.String("student_id", studentID.String()),
		slog.String("school_year", schoolYear),
		slog.String("evaluation_type", string(evalType)),
		slog.Int("module_count", len(b.Lines)))

	return b, nil
}

// ExportBulletinPDF implements BulletinService.ExportBulletinPDF
func (s *bulletinServiceImpl) ExportBulletinPDF(
	ctx context.Context,
	studentID uuid.UUID,
	schoolYear string,
	evalType domain.EvaluationType,
) ([]byte, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	b, err := s.BuildBulletin(ctx, studentID, schoolYear, evalType)
	if err != nil {
		return nil, err
	}

	data, err := s.renderer.Render(b)
	if err != nil {
		log.Error("bulletin rendering failed",
			slog.String("student_id", studentID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	return data, nil
}
