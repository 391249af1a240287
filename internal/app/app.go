package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/classboard/classwork-service/internal/config"
	"github.com/classboard/classwork-service/internal/delivery/httpd"
	"github.com/classboard/classwork-service/internal/repository"
	"github.com/classboard/classwork-service/internal/service"
	"github.com/classboard/classwork-service/internal/service/integration"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

type App struct {
	server *http.Server
	events integration.EventPublisher
	logger zerolog.Logger
}

func New(cfg *config.Config, logger zerolog.Logger, db *sql.DB) (*App, error) {
	minioRepo, err := repository.NewMinIORepository(
		cfg.MinIO.Endpoint,
		cfg.MinIO.AccessKey,
		cfg.MinIO.SecretKey,
		cfg.Storage.BucketName,
		cfg.Storage.Region,
		cfg.MinIO.UseSSL,
		cfg.MinIO.Timeout,
		logger,
	)
	if err != nil {
		return nil, err
	}

	storageRepo := repository.NewStorageRepository(minioRepo, logger)

	baseRepo := repository.NewPostgresRepository(db, logger)
	classRepo := repository.NewClassRepository(db, logger)
	announcementRepo := repository.NewAnnouncementRepository(db, logger)
	assignmentRepo := repository.NewAssignmentRepository(db, logger)
	submissionRepo := repository.NewSubmissionRepository(db, logger)
	fileRepo := repository.NewSubmissionFileRepository(db, logger)

	// Брокер не обязателен для старта: без него сервис работает,
	// просто не шлёт уведомления.
	var events integration.EventPublisher
	publisher, err := integration.NewRabbitMQPublisher(
		cfg.RabbitMQ.URL,
		cfg.RabbitMQ.Exchange,
		cfg.RabbitMQ.QueueName,
		logger,
	)
	if err != nil {
		logger.Warn().Err(err).Msg("RabbitMQ unavailable, events will not be published")
	} else {
		events = publisher
	}

	classService := service.NewClassService(classRepo, logger)
	announcementService := service.NewAnnouncementService(announcementRepo, classRepo, events, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, classRepo, events, logger)
	submissionService := service.NewSubmissionService(
		submissionRepo, fileRepo, assignmentRepo, storageRepo, events, logger, cfg.Storage.BucketName,
	)
	archiveService := service.NewArchiveService(
		submissionRepo, fileRepo, assignmentRepo, storageRepo, logger, cfg.Storage.BucketName,
	)
	teardownService := service.NewTeardownService(
		assignmentRepo, submissionRepo, fileRepo, storageRepo, events, logger, cfg.Storage.BucketName,
	)

	handler := httpd.NewHandler(
		classService,
		announcementService,
		assignmentService,
		submissionService,
		archiveService,
		teardownService,
		baseRepo,
		logger,
		cfg.Server.MaxUploadSize,
	)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server: server,
		events: events,
		logger: logger,
	}, nil
}

func (a *App) Run() error {
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close event publisher")
		}
	}

	return a.server.Shutdown(ctx)
}

func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("HTTP request")
		})
	}
}
