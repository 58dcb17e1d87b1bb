package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/edustage/backend/internal/config"
	"github.com/edustage/backend/internal/delivery/httpd"
	"github.com/edustage/backend/internal/identity"
	"github.com/edustage/backend/internal/repository"
	"github.com/edustage/backend/internal/service"
	"github.com/edustage/backend/internal/service/grading"
	"github.com/edustage/backend/internal/service/integration"
	"github.com/edustage/backend/internal/service/storage"
)

type App struct {
	server    *http.Server
	logger    zerolog.Logger
	config    *config.Config
	db        *sql.DB
	publisher integration.EventPublisher
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	objectStorage, err := storage.NewMinIOStorage(storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		UseSSL:    cfg.Storage.UseSSL,
		Timeout:   cfg.Storage.Timeout,
	})
	if err != nil {
		return nil, err
	}

	publisher, err := integration.NewRabbitMQClient(
		cfg.RabbitMQ.URL,
		cfg.RabbitMQ.Exchange,
		cfg.RabbitMQ.RoutingKey,
		cfg.RabbitMQ.QueueName,
		log,
	)
	if err != nil {
		// Grading still works without the broker; events are best effort.
		log.Error().Err(err).Msg("Failed to create RabbitMQ client")
		publisher = nil
	}

	idm := identity.NewManager(cfg.Auth.Secret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)

	userRepo := repository.NewUserRepository(db, log)
	subjectRepo := repository.NewSubjectRepository(db, log)
	testRepo := repository.NewTestRepository(db, log)
	groupRepo := repository.NewGroupRepository(db, log)
	submissionRepo := repository.NewSubmissionRepository(db, log)
	courseRepo := repository.NewCourseRepository(db, log)

	userService := service.NewUserService(userRepo, idm, log)
	subjectService := service.NewSubjectService(subjectRepo, log)
	testService := service.NewTestService(testRepo, subjectRepo, userRepo, submissionRepo, log)
	submissionService := service.NewSubmissionService(
		testRepo,
		userRepo,
		submissionRepo,
		grading.DefaultLevelPolicy,
		publisher,
		log,
	)
	groupService := service.NewGroupService(groupRepo, userRepo, log)
	courseService := service.NewCourseService(courseRepo, groupRepo, objectStorage, log)

	handler := httpd.NewHandler(
		userService,
		subjectService,
		testService,
		submissionService,
		groupService,
		courseService,
		idm,
		log,
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

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
		server:    server,
		logger:    log,
		config:    cfg,
		db:        db,
		publisher: publisher,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Msgf("Starting e-learning backend on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down e-learning backend...")

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	return a.server.Shutdown(ctx)
}
