package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/bank-insights/internal/config"
	"github.com/Dan9191/bank-insights/internal/handler"
	"github.com/Dan9191/bank-insights/internal/integrations/webhook"
	"github.com/Dan9191/bank-insights/internal/metrics"
	"github.com/Dan9191/bank-insights/internal/middleware"
	"github.com/Dan9191/bank-insights/internal/repository"
	"github.com/Dan9191/bank-insights/internal/scheduler"
	"github.com/Dan9191/bank-insights/internal/service"
	"github.com/Dan9191/bank-insights/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	shutdownTimeout = 15 * time.Second
	sweepTimeout    = 30 * time.Minute
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	if cfg.RunMigrate {
		if err := repository.RunMigrations(db); err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}
		logger.Info("Database migrations applied")
	}

	// Metrics
	recorder := metrics.NewPrometheusRecorder("bank_insights")
	if err := recorder.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Fatalf("Failed to register metrics: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, logger, cfg, service.WithMetrics(recorder))
	h := handler.NewHandler(svc, logger)

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(logger, recorder))
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	h.RegisterRoutes(r, middleware.AuthMiddleware(cfg.JWTSecret, logger))

	// Overdraft sweep
	var cronScheduler *scheduler.Scheduler
	if cfg.SweepSchedule != "" {
		var mailer scheduler.Mailer
		if cfg.EmailEnabled() {
			mailer = email.NewSender(cfg, logger)
		}
		sweep := scheduler.NewOverdraftSweep(repo, svc, webhook.NewNotifier(cfg, logger), mailer, recorder, logger)

		cronScheduler = scheduler.New(logger, sweepTimeout)
		if err := cronScheduler.Schedule("overdraft_sweep", cfg.SweepSchedule, sweep.Job()); err != nil {
			logger.Fatalf("Failed to schedule overdraft sweep: %v", err)
		}
		cronScheduler.Start()
	}

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown error: %v", err)
	}
	if cronScheduler != nil {
		if err := cronScheduler.Stop(ctx); err != nil {
			logger.Errorf("Scheduler stop error: %v", err)
		}
	}
	logger.Info("Server stopped")
}
