package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iam-sarthakdev/MockMate-AI/internal/calls"
	"github.com/iam-sarthakdev/MockMate-AI/internal/config"
	"github.com/iam-sarthakdev/MockMate-AI/internal/events"
	"github.com/iam-sarthakdev/MockMate-AI/internal/feedback"
	"github.com/iam-sarthakdev/MockMate-AI/internal/handlers"
	"github.com/iam-sarthakdev/MockMate-AI/internal/interviews"
	"github.com/iam-sarthakdev/MockMate-AI/internal/jobs"
	"github.com/iam-sarthakdev/MockMate-AI/internal/llm"
	_ "github.com/iam-sarthakdev/MockMate-AI/internal/llm/gemini"
	"github.com/iam-sarthakdev/MockMate-AI/internal/metrics"
	authmw "github.com/iam-sarthakdev/MockMate-AI/internal/middleware"
	"github.com/iam-sarthakdev/MockMate-AI/internal/prompts"
	"github.com/iam-sarthakdev/MockMate-AI/internal/repositories"
	"github.com/iam-sarthakdev/MockMate-AI/internal/routers"
	"github.com/iam-sarthakdev/MockMate-AI/internal/utils"
)

// snapshots outlive the in-memory session so other instances can still read them
const snapshotTTL = 24 * time.Hour

func main() {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	if os.Getenv("APP_ENV") == "development" {
		utils.InitDevelopmentLogger()
	} else {
		utils.InitLogger()
	}
	logger := utils.GetLogger()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.String("store", cfg.StoreDriver),
		zap.Duration("generation_timeout", cfg.GenerationTimeout))

	promptManager, err := prompts.NewPromptManager()
	if err != nil {
		logger.Fatal("Failed to initialize prompt manager", zap.Error(err))
	}

	aiProvider, err := llm.NewProvider(cfg.Provider)
	if err != nil {
		logger.Fatal("Failed to initialize AI provider", zap.Error(err))
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	store, err := repositories.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}

	// lifecycle events are optional
	var (
		rdb       *redis.Client
		publisher *events.Publisher
		observers []calls.Observer
		redisPing handlers.Pinger
		remote    handlers.RemoteSnapshots
	)
	if cfg.RedisAddr != "" {
		rdb, err = events.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("Redis unavailable, call lifecycle events disabled", zap.Error(err))
		} else {
			publisher = events.NewPublisher(rdb, snapshotTTL, logger)
			observers = append(observers, publisher)
			redisPing = publisher
			remote = publisher
			logger.Info("Call lifecycle events enabled", zap.String("instance_id", publisher.InstanceID()))
		}
	}

	interviewService := interviews.NewService(aiProvider, promptManager, store.Interviews, logger, cfg.GenerationTimeout)
	feedbackService := feedback.NewService(aiProvider, promptManager, store.Feedback, store.Interviews, logger, cfg.GenerationTimeout)

	callManager := calls.NewManager(calls.ManagerConfig{
		WorkflowID:       cfg.WorkflowID,
		InterviewerID:    cfg.InterviewerID,
		ConnectTimeout:   cfg.CallConnectTimeout,
		IdleTTL:          cfg.CallIdleTTL,
		ErrorEndsSession: cfg.CallErrorEndsSession,
	}, store.Interviews, feedbackService, logger, observers...)

	if publisher != nil {
		go func() {
			err := publisher.Subscribe(ctx, func(e events.LifecycleEvent) {
				if e.InstanceID == publisher.InstanceID() {
					return
				}
				callManager.ObservePeer(e.SessionID, e.UserID, e.To)
			})
			if err != nil {
				logger.Warn("Lifecycle subscription ended", zap.Error(err))
			}
		}()
	}

	reaper := jobs.NewSessionReaperJob(callManager, cfg.ReaperSchedule, logger)
	if err := reaper.Start(); err != nil {
		logger.Fatal("Failed to start session reaper", zap.Error(err))
	}

	interviewHandler := handlers.NewInterviewHandler(interviewService, logger)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService, logger)
	callHandler := handlers.NewCallHandler(callManager, remote, cfg.AllowOrigins, logger)
	healthHandler := handlers.NewHealthHandler(aiProvider, promptManager, store, redisPing, cfg)

	// a request may wait on one generation call
	requestTimeout := cfg.GenerationTimeout + 15*time.Second
	auth := authmw.Auth(cfg.AuthSecret, cfg.AuthCookie)

	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, metrics.Middleware)

	routers.HealthRoutes(router, healthHandler)
	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		routers.InterviewRoutes(r, interviewHandler, feedbackHandler, auth)
		routers.FeedbackRoutes(r, feedbackHandler, auth)
	})
	routers.CallRoutes(router, callHandler, auth, requestTimeout)

	serverAddr := ":" + cfg.Port

	// http server with timeouts
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Interview service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("Interview service shutting down...")

	reaper.Stop()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if rdb != nil {
		rdb.Close()
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Warn("Failed to close store", zap.Error(err))
	}

	logger.Info("Interview service exited")
}
