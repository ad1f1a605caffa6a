package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Madushan-tech/CashFlow/internal/config"
	"github.com/Madushan-tech/CashFlow/internal/repository"
	"github.com/Madushan-tech/CashFlow/internal/scheduler"
	"github.com/Madushan-tech/CashFlow/internal/service"
	"github.com/Madushan-tech/CashFlow/internal/utils/email"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db, cfg.StateKey)
	if err := repo.Migrate(ctx); err != nil {
		logger.Fatalf("Failed to prepare database: %v", err)
	}
	opts := []service.Option{}
	if cfg.EmailEnabled() {
		opts = append(opts, service.WithNotifier(email.NewSender(cfg, logger)))
	}
	svc := service.NewService(repo, logger, opts...)
	if err := svc.Load(ctx); err != nil {
		logger.Fatalf("Failed to load ledger: %v", err)
	}

	sched, err := scheduler.New(cfg, svc, logger)
	if err != nil {
		logger.Fatalf("Failed to configure scheduler: %v", err)
	}
	sched.Start()
	logger.Infof("CashFlow daemon running for state %q", cfg.StateKey)

	<-ctx.Done()
	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sched.Stop(shutdownCtx); err != nil {
		logger.Errorf("Scheduler did not stop cleanly: %v", err)
	}
}
