package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/iseem/iseem-api/internal/api"
	apiMiddleware "github.com/iseem/iseem-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Mutating endpoints require authentication; read
// projections and bulletin endpoints are open to the administration
// network.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	noteHandler := api.NewNoteHandler(app.noteService, app.logger)
	bulletinHandler := api.NewBulletinHandler(app.bulletinService, app.logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Grade entry endpoints (authenticated)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/notes", noteHandler.AddNote)
			r.Post("/notes/bulk", noteHandler.AddNotesBulk)
			r.Put("/notes/{noteID}", noteHandler.ModifyNote)
			r.Delete("/notes/{noteID}", noteHandler.DeleteNote)
		})

		// Read projections
		r.Get("/students/{studentID}/notes", noteHandler.ListByStudent)
		r.Get("/modules/{moduleID}/notes", noteHandler.ListByModule)
		r.Get("/teachers/{teacherID}/notes", noteHandler.ListByTeacher)

		// Bulletin endpoints
		r.Get("/students/{studentID}/bulletin", bulletinHandler.GetBulletin)
		r.Get("/students/{studentID}/bulletin/export", bulletinHandler.ExportBulletin)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
