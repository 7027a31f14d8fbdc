package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/employee-tracker/internal/tracker/config"
	"github.com/gartstein/employee-tracker/internal/tracker/console"
	"github.com/gartstein/employee-tracker/internal/tracker/controller"
	"github.com/gartstein/employee-tracker/internal/tracker/db"
	"github.com/gartstein/employee-tracker/internal/tracker/events"
	"github.com/gartstein/employee-tracker/internal/tracker/handlers"
	"github.com/gartstein/employee-tracker/internal/tracker/prompt"
	"go.uber.org/zap"
)

type producer interface {
	controller.EventProducer
	Close()
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("tracker stopped", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	repo, err := db.NewRepository(cfg.DatabaseConfig(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	publisher, err := initProducer(cfg.Kafka, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize Kafka producer: %w", err)
	}
	defer publisher.Close()

	svc, err := controller.NewService(repo, publisher, logger)
	if err != nil {
		return err
	}

	terminal := prompt.New(cfg.Prompt.PageSize)
	h := handlers.New(svc, terminal, os.Stdout, logger)
	return console.New(h, terminal, os.Stdout, logger).Run(ctx)
}

// initLogger writes JSON logs to the configured output so they do not mix
// with the interactive console.
func initLogger(cfg config.Log) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = level
	zcfg.OutputPaths = []string{cfg.Output}
	zcfg.ErrorOutputPaths = []string{cfg.Output}
	return zcfg.Build()
}

func initProducer(cfg config.Kafka, logger *zap.Logger) (producer, error) {
	if len(cfg.Brokers) == 0 {
		logger.Info("no Kafka brokers configured, change events are disabled")
		return events.NopProducer{}, nil
	}
	p, err := events.NewProducer(cfg.Brokers, cfg.Topic, logger)
	if err != nil {
		return nil, err
	}
	return p, nil
}
