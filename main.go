package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"printstudio/internal/config"
	"printstudio/internal/database"
	"printstudio/internal/logging"
	"printstudio/internal/server"
	"printstudio/internal/services"
	"printstudio/internal/storage"
	"printstudio/pkg/rabbitmq"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"github.com/streadway/amqp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx := context.Background()

	// --- Storage ---
	repos, closeDB, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeDB(context.Background()); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	files, err := storage.NewDiskStore(afero.NewOsFs(), cfg.UploadDir)
	if err != nil {
		return err
	}

	// --- RabbitMQ (optional) ---
	// publisher stays a nil interface when no broker is configured.
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: rabbitmq.ContactQueue}, log)
		if err != nil {
			log.Warn("contact events disabled", "error", err)
		} else {
			defer mqClient.Close()
			publisher = mqClient
			if err := mqClient.Consume(rabbitmq.ContactQueue, handleContactEvent(log)); err != nil {
				log.Warn("failed to start contact consumer", "error", err)
			}
		}
	}

	// --- Redis rate limiter (optional) ---
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis unreachable, rate limiting will fail open", "addr", cfg.Redis.Addr, "error", err)
		}
		cancel()
	}

	app := server.New(cfg, server.Deps{
		Repos:     repos,
		Files:     files,
		Publisher: publisher,
		Redis:     rdb,
		Log:       log,
	})

	listenErr := make(chan error, 1)
	go func() {
		log.Info("starting server", "addr", cfg.AppPort, "driver", cfg.Database.Driver)
		listenErr <- app.Listen(cfg.AppPort)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		log.Info("shutting down server", "signal", sig.String())
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("error during shutdown", "error", err)
	}
	log.Info("server gracefully stopped")
	return nil
}

// handleContactEvent logs each contact submission announced on the queue.
func handleContactEvent(log *slog.Logger) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var event services.ContactEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			return fmt.Errorf("malformed contact event: %w", err)
		}
		log.Info("contact submission received",
			"id", event.ID,
			"email", event.Email,
			"service_type", event.ServiceType,
			"has_file", event.FileName != nil,
		)
		return nil
	}
}
