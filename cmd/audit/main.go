package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/employee-tracker/internal/tracker/config"
	"github.com/gartstein/employee-tracker/internal/tracker/events"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Log)
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	if !cfg.EventsEnabled() {
		logger.Fatal("no Kafka brokers configured, nothing to audit")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := events.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, logger)
	defer consumer.Close()

	audit := logger.Named("audit")
	consumer.RegisterHandler(func(_ context.Context, event events.Event) error {
		audit.Info("change event",
			zap.String("event_id", event.ID.String()),
			zap.String("type", string(event.Type)),
			zap.String("entity", event.Entity),
			zap.Uint("entity_id", event.EntityID),
			zap.Time("occurred_at", event.OccurredAt),
			zap.Any("payload", event.Payload))
		return nil
	})

	logger.Info("auditing change events",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("group_id", cfg.Kafka.GroupID))
	consumer.Run(ctx)
	logger.Info("audit stopped")
}

// initLogger logs to stdout; the audit trail is this process's output.
func initLogger(cfg config.Log) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if level, err := zap.ParseAtomicLevel(cfg.Level); err == nil {
		zcfg.Level = level
	}
	zcfg.OutputPaths = []string{"stdout"}
	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewExample()
	}
	return logger
}
