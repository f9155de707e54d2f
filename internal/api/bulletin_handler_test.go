package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iseem/iseem-api/internal/domain"
	"github.com/iseem/iseem-api/internal/domain/bulletin"
	"github.com/iseem/iseem-api/internal/service"
	"github.com/iseem/iseem-api/internal/store"
)

// mockBulletinService implements service.BulletinService.
type mockBulletinService struct {
	buildFn  func(ctx context.Context, studentID uuid.UUID, schoolYear string, evalType domain.EvaluationType) (*bulletin.Bulletin, error)
	exportFn func(ctx context.Context, studentID uuid.UUID, schoolYear string, evalType domain.EvaluationType) ([]byte, error)
}

func (m *mockBulletinService) BuildBulletin(
	ctx context.Context,
	studentID uuid.UUID,
	schoolYear string,
	evalType domain.EvaluationType,
) (*bulletin.Bulletin, error) {
	if m.buildFn != nil {
		return m.buildFn(ctx, studentID, schoolYear, evalType)
	}
	return nil, fmt.Errorf("unexpected call")
}

func (m *mockBulletinService) ExportBulletinPDF(
	ctx context.Context,
	studentID uuid.UUID,
	schoolYear string,
	evalType domain.EvaluationType,
) ([]byte, error) {
	if m.exportFn != nil {
		return m.exportFn(ctx, studentID, schoolYear, evalType)
	}
	return nil, fmt.Errorf("unexpected call")
}

func bulletinRouter(svc service.BulletinService) http.Handler {
	h := NewBulletinHandler(svc, slog.Default())
	r := chi.NewRouter()
	r.Get("/students/{studentID}/bulletin", h.GetBulletin)
	r.Get("/students/{studentID}/bulletin/export", h.ExportBulletin)
	return r
}

func TestGetBulletinHandler(t *testing.T) {
	t.Parallel()

	studentID := uuid.New()
	svc := &mockBulletinService{
		buildFn: func(
			ctx context.Context, id uuid.UUID, schoolYear string, evalType domain.EvaluationType,
		) (*bulletin.Bulletin, error) {
			assert.Equal(t, studentID, id)
			assert.Equal(t, "2024-2025", schoolYear)
			assert.Equal(t, domain.EvaluationWrittenExam, evalType)
			return &bulletin.Bulletin{
				StudentID:       id,
				StudentName:     "Diallo Amina",
				SchoolYear:      schoolYear,
				EvaluationType:  evalType,
				EvaluationLabel: evalType.Label(),
				Lines:           []bulletin.ModuleLine{},
				OverallAverage:  12.5,
				Mention:         bulletin.MentionAssezBien,
			}, nil
		},
	}
	router := bulletinRouter(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/students/"+studentID.String()+"/bulletin?year=2024-2025&type=EXAMEN_TH", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var b bulletin.Bulletin
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	assert.Equal(t, "Diallo Amina", b.StudentName)
	assert.Equal(t, 12.5, b.OverallAverage)
	assert.Equal(t, bulletin.MentionAssezBien, b.Mention)
}

func TestGetBulletinHandlerBadParameters(t *testing.T) {
	t.Parallel()

	router := bulletinRouter(&mockBulletinService{})
	studentID := uuid.NewString()

	paths := []string{
		"/students/not-a-uuid/bulletin?year=2024-2025&type=C1",
		"/students/" + studentID + "/bulletin?type=C1",
		"/students/" + studentID + "/bulletin?year=2024&type=C1",
		"/students/" + studentID + "/bulletin?year=2024-2025",
		"/students/" + studentID + "/bulletin?year=2024-2025&type=ORAL",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "path %s", path)
	}
}

func TestGetBulletinHandlerUnknownStudent(t *testing.T) {
	t.Parallel()

	svc := &mockBulletinService{
		buildFn: func(
			ctx context.Context, id uuid.UUID, schoolYear string, evalType domain.EvaluationType,
		) (*bulletin.Bulletin, error) {
			return nil, store.ErrStudentNotFound
		},
	}
	router := bulletinRouter(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/students/"+uuid.NewString()+"/bulletin?year=2024-2025&type=C1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportBulletinHandler(t *testing.T) {
	t.Parallel()

	studentID := uuid.New()
	pdfBytes := []byte("%PDF-1.3 bulletin content")
	svc := &mockBulletinService{
		exportFn: func(
			ctx context.Context, id uuid.UUID, schoolYear string, evalType domain.EvaluationType,
		) ([]byte, error) {
			return pdfBytes, nil
		},
	}
	router := bulletinRouter(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/students/"+studentID.String()+"/bulletin/export?year=2024-2025&type=EXAMEN_TH", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t,
		fmt.Sprintf(`attachment; filename="bulletin_officiel_%s.pdf"`, studentID),
		rec.Header().Get("Content-Disposition"))
	assert.Equal(t, pdfBytes, rec.Body.Bytes())
}

func TestExportBulletinHandlerRenderFailure(t *testing.T) {
	t.Parallel()

	svc := &mockBulletinService{
		exportFn: func(
			ctx context.Context, id uuid.UUID, schoolYear string, evalType domain.EvaluationType,
		) ([]byte, error) {
			return nil, service.ErrRenderFailed
		},
	}
	router := bulletinRouter(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/students/"+uuid.NewString()+"/bulletin/export?year=2024-2025&type=C1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
