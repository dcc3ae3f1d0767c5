package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/MdFayaz7/portfolio1/internal/config"
	"github.com/MdFayaz7/portfolio1/internal/metrics"
	"github.com/MdFayaz7/portfolio1/internal/notify"
	"github.com/MdFayaz7/portfolio1/internal/tasks"
	"github.com/MdFayaz7/portfolio1/internal/worker"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.API.SlogLevel()}))
	slog.SetDefault(logger)

	if cfg.Redis.Addr == "" {
		log.Fatal("REDIS_ADDR is required for the worker")
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		cancel()
		log.Fatalf("ping redis: %v", err)
	}
	cancel()

	mailer := notify.NewMailer(cfg.Mail)
	if mailer == nil {
		log.Fatal("EMAIL_USER and EMAIL_PASS are required for the worker")
	}

	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Logger:      newAsynqLogger(logger),
	})

	mux := asynq.NewServeMux()
	mux.Use(metrics.TaskMiddleware())
	mux.Handle(tasks.TypeContactNotify, worker.NewNotifyTaskHandler(mailer, logger))

	go func() {
		metricsServer := &http.Server{Addr: ":9091", Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", slog.Any("error", err))
		}
	}()

	logger.Info("worker service started", slog.String("redis_addr", cfg.Redis.Addr))
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
	}
}

type asynqLogger struct {
	logger *slog.Logger
}

func newAsynqLogger(logger *slog.Logger) asynq.Logger {
	return asynqLogger{logger: logger.With(slog.String("component", "asynq"))}
}

func (l asynqLogger) Debug(args ...any) { l.logger.Debug(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...any)  { l.logger.Info(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...any)  { l.logger.Warn(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...any) { l.logger.Error(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...any) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
