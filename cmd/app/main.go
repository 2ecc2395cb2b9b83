package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deliverydispatch/cmd"
	"deliverydispatch/internal/adapters/out/postgres"
	redisadapter "deliverydispatch/internal/adapters/out/redis"
	"deliverydispatch/internal/core/ports"
	"deliverydispatch/internal/pkg/tracing"

	"github.com/labstack/gommon/log"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configs, err := cmd.LoadConfig(ctx)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := newLogger(configs)
	slog.SetDefault(logger)

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Endpoint:       configs.OtelEndpoint,
		Insecure:       configs.OtelInsecure,
		ServiceName:    configs.ServiceName,
		ServiceVersion: configs.ServiceVersion,
	})
	if err != nil {
		log.Fatalf("Error setting up tracing: %v", err)
	}

	gormDB := mustGormOpen(configs)

	var idempotency ports.IdempotencyStore
	if configs.RedisAddr != "" {
		redisClient, redisErr := redisadapter.Connect(ctx, redisadapter.Config{
			Addr: configs.RedisAddr,
			DB:   configs.RedisDB,
		})
		if redisErr != nil {
			log.Fatalf("Error connecting to redis: %v", redisErr)
		}
		defer redisClient.Close()
		idempotency = redisadapter.NewIdempotencyStore(redisClient, configs.RedisProcessedTTL)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, idempotency, logger)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}

	jobManager, err := app.CreateJobManager()
	if err != nil {
		log.Fatalf("Error creating jobs: %v", err)
	}
	if err = jobManager.StartAll(ctx); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}

	e, err := app.CreateHTTPServer()
	if err != nil {
		log.Fatalf("Error building HTTP server: %v", err)
	}

	consumer := app.CreateBasketConfirmedConsumer()
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if runErr := consumer.Run(ctx); runErr != nil {
			logger.ErrorContext(ctx, "Basket confirmed consumer stopped", "error", runErr)
		}
	}()

	go func() {
		addr := fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)
		logger.InfoContext(ctx, "HTTP server listening", "addr", addr)
		if startErr := e.Start(addr); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "HTTP server failed", "error", startErr)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	jobManager.StopAll()
	<-consumerDone
	if err = consumer.Close(); err != nil {
		logger.Error("Closing consumer failed", "error", err)
	}
	if err = app.Close(); err != nil {
		logger.Error("Closing outbound connections failed", "error", err)
	}
	if sqlDB, dbErr := gormDB.DB(); dbErr == nil {
		_ = sqlDB.Close()
	}
	if err = shutdownTracing(shutdownCtx); err != nil {
		logger.Error("Tracer shutdown failed", "error", err)
	}
}

func newLogger(configs cmd.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: configs.SlogLevel()}
	if configs.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func mustGormOpen(configs cmd.Config) *gorm.DB {
	gormDB, err := gorm.Open(pgdriver.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	if err = postgres.AutoMigrate(gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	return gormDB
}
