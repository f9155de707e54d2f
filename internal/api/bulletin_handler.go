package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/iseem/iseem-api/internal/api/shared"
	"github.com/iseem/iseem-api/internal/domain"
	"github.com/iseem/iseem-api/internal/platform/logger"
	"github.com/iseem/iseem-api/internal/service"
)

// BulletinHandler handles bulletin aggregation and export requests.
type BulletinHandler struct {
	bulletinService service.BulletinService
	logger          *slog.Logger
}

// NewBulletinHandler creates a new BulletinHandler.
func NewBulletinHandler(bulletinService service.BulletinService, logger *slog.Logger) *BulletinHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for BulletinHandler")
	}

	return &BulletinHandler{
		bulletinService: bulletinService,
		logger:          logger.With(slog.String("component", "bulletin_handler")),
	}
}

// GetBulletin handles GET /students/{studentID}/bulletin requests.
func (h *BulletinHandler) GetBulletin(w http.ResponseWriter, r *http.Request) {
	studentID, year, evalType, ok := h.parseBulletinRequest(w, r)
	if !ok {
		return
	}

	b, err := h.bulletinService.BuildBulletin(r.Context(), studentID, year, evalType)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, b)
}

// ExportBulletin handles GET /students/{studentID}/bulletin/export requests,
// returning the report card as a PDF attachment.
func (h *BulletinHandler) ExportBulletin(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	studentID, year, evalType, ok := h.parseBulletinRequest(w, r)
	if !ok {
		return
	}

	data, err := h.bulletinService.ExportBulletinPDF(r.Context(), studentID, year, evalType)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("bulletin exported",
		slog.String("student_id", studentID.String()),
		slog.String("school_year", year),
		slog.Int("size_bytes", len(data)))

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="bulletin_officiel_%s.pdf"`, studentID))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Error("failed to write PDF response", slog.String("error", err.Error()))
	}
}

// parseBulletinRequest extracts and validates the common parameters of the
// bulletin endpoints. It writes the error response itself and reports
// success through the boolean.
func (h *BulletinHandler) parseBulletinRequest(
	w http.ResponseWriter,
	r *http.Request,
) (uuid.UUID, string, domain.EvaluationType, bool) {
	studentID, err := uuid.Parse(chi.URLParam(r, "studentID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid student ID")
		return uuid.Nil, "", "", false
	}

	year := r.URL.Query().Get("year")
	if !domain.IsValidSchoolYear(year) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid or missing year parameter")
		return uuid.Nil, "", "", false
	}

	evalType := domain.EvaluationType(r.URL.Query().Get("type"))
	if !evalType.IsValid() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid or missing type parameter")
		return uuid.Nil, "", "", false
	}

	return studentID, year, evalType, true
}
