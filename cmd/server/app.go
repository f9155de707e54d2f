package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/iseem/iseem-api/internal/config"
	"github.com/iseem/iseem-api/internal/platform/postgres"
	"github.com/iseem/iseem-api/internal/report"
	"github.com/iseem/iseem-api/internal/service"
	"github.com/iseem/iseem-api/internal/service/auth"
	"github.com/iseem/iseem-api/internal/store"
)

// application holds the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	noteStore    store.NoteStore
	studentStore store.StudentStore
	moduleStore  store.ModuleStore
	teacherStore store.TeacherStore

	// Services
	jwtService      auth.JWTService
	noteService     service.NoteService
	bulletinService service.BulletinService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts the core dependencies that must be established
// before wiring: configuration, logger, and database connection.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.noteStore = postgres.NewPostgresNoteStore(db, logger)
	app.studentStore = postgres.NewPostgresStudentStore(db, logger)
	app.moduleStore = postgres.NewPostgresModuleStore(db, logger)
	app.teacherStore = postgres.NewPostgresTeacherStore(db, logger)

	app.noteService, err = service.NewNoteService(
		app.noteStore,
		app.studentStore,
		app.moduleStore,
		service.DefaultGradePolicy,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create note service: %w", err)
	}

	renderer := report.NewPDFRenderer(logger)

	app.bulletinService, err = service.NewBulletinService(
		app.noteStore,
		app.studentStore,
		app.moduleStore,
		app.teacherStore,
		renderer,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bulletin service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
