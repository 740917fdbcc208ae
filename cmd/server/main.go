package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"peerprep/interview/internal/candidates"
	"peerprep/interview/internal/config"
	"peerprep/interview/internal/events"
	"peerprep/interview/internal/handlers"
	"peerprep/interview/internal/interview"
	"peerprep/interview/internal/jobs"
	"peerprep/interview/internal/llm"
	_ "peerprep/interview/internal/llm/gemini"
	_ "peerprep/interview/internal/llm/mock"
	"peerprep/interview/internal/metrics"
	appmiddleware "peerprep/interview/internal/middleware"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/repositories"
	"peerprep/interview/internal/resume"
	"peerprep/interview/internal/routers"
	"peerprep/interview/internal/services"
	"peerprep/interview/internal/store"
	"peerprep/interview/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func registerRoutes(router *chi.Mux, cfg *config.Config, logger *zap.Logger,
	interviewHandler *handlers.InterviewHandler, eventsHandler *handlers.EventsHandler,
	candidateHandler *handlers.CandidateHandler, healthHandler *handlers.HealthHandler) {
	routers.HealthRoutes(router, healthHandler, metrics.Handler())
	routers.InterviewRoutes(router, interviewHandler, eventsHandler)
	routers.CandidateRoutes(router, candidateHandler, appmiddleware.RequireInterviewer(cfg.JWTSecret, logger))
}

func newRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// runCompletionSubscriber hands every published completion to the exporter
// until ctx is cancelled.
func runCompletionSubscriber(ctx context.Context, rdb *redis.Client, exporter *jobs.CandidateExporterJob, logger *zap.Logger) {
	if err := services.SubscribeCompletions(ctx, rdb, logger, exporter.HandleCompletion); err != nil {
		logger.Error("Completion subscriber stopped", zap.Error(err))
	}
}

// openDatabase connects the configured SQL driver and migrates the snapshot table.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		dialector = postgres.Open(cfg.Database.DSN())
	case config.StorageSQLite:
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("storage driver %s is not a SQL database", cfg.StorageDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.SnapshotEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// initStorage picks the session backend named by STORAGE_DRIVER.
func initStorage(cfg *config.Config, rdb *redis.Client) (store.Backend, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		return store.NewMemoryBackend(), nil
	case config.StorageRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis storage selected without a redis client")
		}
		return &repositories.RedisSnapshotRepository{Client: rdb}, nil
	default:
		db, err := openDatabase(cfg)
		if err != nil {
			return nil, err
		}
		return &repositories.SnapshotRepository{DB: db}, nil
	}
}

func main() {
	if err := godotenv.Load(); err == nil {
		fmt.Println("Loaded environment from .env")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	utils.InitLogger(cfg.Environment)
	logger := utils.GetLogger()
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.String("storage", cfg.StorageDriver),
		zap.Duration("advance_delay", cfg.AdvanceDelay),
		zap.Int("correct_answer_threshold", cfg.CorrectAnswerThreshold))

	var rdb *redis.Client
	if cfg.NeedsRedis() {
		rdb = newRedisClient(cfg)
		defer rdb.Close()
	}

	backend, err := initStorage(cfg, rdb)
	if err != nil {
		logger.Fatal("Failed to initialize session storage", zap.Error(err))
	}
	sessionStore := store.NewSessionStore(backend, cfg.StorageKey, logger)

	provider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Fatal("Failed to initialize scoring provider", zap.Error(err))
	}

	hub := events.NewHub(logger)
	opts := interview.Options{
		AdvanceDelay:           cfg.AdvanceDelay,
		TickInterval:           cfg.TickInterval,
		ScoringTimeout:         cfg.ScoringTimeout,
		CorrectAnswerThreshold: cfg.CorrectAnswerThreshold,
		Notifier:               hub,
	}
	if cfg.PublishCompletions {
		opts.Completions = services.NewCompletionPublisher(rdb, logger)
		logger.Info("Publishing interview completions", zap.String("channel", services.CompletionChannel))
	}
	controller := interview.NewController(sessionStore, provider, resume.NewIntake(), logger, opts)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	offer, err := controller.Start(startCtx)
	cancelStart()
	if err != nil {
		logger.Fatal("Failed to load persisted session", zap.Error(err))
	}
	if offer != nil {
		logger.Info("Unfinished interview waiting for continue or discard",
			zap.String("candidate_id", offer.Candidate.ID),
			zap.Int("answered", offer.AnsweredCount),
			zap.Int("total", offer.TotalQuestions))
	}

	candidateService := candidates.NewService(sessionStore, cfg.CorrectAnswerThreshold)

	exporterJob := jobs.NewCandidateExporterJob(sessionStore, &jobs.ExporterConfig{
		Schedule:      cfg.ExportSchedule,
		ExportDir:     cfg.ExportDir,
		ExportEnabled: cfg.ExportEnabled,
	}, logger)
	if err := exporterJob.Start(); err != nil {
		logger.Error("Failed to start candidate exporter job", zap.Error(err))
	}

	subscriberCtx, stopSubscriber := context.WithCancel(context.Background())
	defer stopSubscriber()
	if cfg.PublishCompletions && cfg.ExportEnabled {
		go runCompletionSubscriber(subscriberCtx, rdb, exporterJob, logger)
		logger.Info("Exporting candidates on completion", zap.String("channel", services.CompletionChannel))
	}

	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is not set, interviewer endpoints are unauthenticated")
	}

	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer,
		metrics.Middleware("interview"), appmiddleware.Timeout(60*time.Second))

	registerRoutes(router, cfg, logger,
		handlers.NewInterviewHandler(controller, logger),
		handlers.NewEventsHandler(hub, controller, cfg.CORSAllowedOrigins, logger),
		handlers.NewCandidateHandler(candidateService, controller, logger),
		handlers.NewHealthHandler(controller, provider))

	serverAddr := ":" + cfg.Port

	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("Interview service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Interview service shutting down...")

	stopSubscriber()
	exporterJob.Stop()
	controller.Shutdown()
	hub.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("Interview service exited")
}
