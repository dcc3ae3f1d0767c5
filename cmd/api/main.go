package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/MdFayaz7/portfolio1/internal/api"
	"github.com/MdFayaz7/portfolio1/internal/api/middleware"
	"github.com/MdFayaz7/portfolio1/internal/auth"
	"github.com/MdFayaz7/portfolio1/internal/config"
	"github.com/MdFayaz7/portfolio1/internal/content"
	"github.com/MdFayaz7/portfolio1/internal/database"
	"github.com/MdFayaz7/portfolio1/internal/fallback"
	"github.com/MdFayaz7/portfolio1/internal/notify"
	"github.com/MdFayaz7/portfolio1/internal/ratelimit"
	"github.com/MdFayaz7/portfolio1/internal/storage"
	"github.com/MdFayaz7/portfolio1/internal/upload"
)

const (
	shutdownTimeout     = 15 * time.Second
	schemaRetryInterval = 5 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
	cfg := config.MustLoad()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.API.SlogLevel()}))
	slog.SetDefault(logger)
	if cfg.API.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database, logger)
	if db == nil {
		log.Fatalf("init database: %v", err)
	}
	dbDown := err != nil
	if dbDown {
		// 数据库不可用时继续启动，公开接口返回兜底数据，后台重试建表
		logger.Warn("database unavailable, serving fallback data", slog.Any("error", err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			logger.Error("close database failed", slog.Any("error", err))
		}
	}()

	var dataset *fallback.Dataset
	if cfg.Fallback.Enabled {
		dataset, err = fallback.Load(cfg.Fallback.File)
		if err != nil {
			log.Fatalf("load fallback data: %v", err)
		}
	}

	files, err := newObjectStore(ctx, cfg)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}
	var scanner upload.Scanner
	if addr := strings.TrimSpace(cfg.Clamd.Addr); addr != "" {
		scanner = upload.NewClamdScanner(addr)
		logger.Info("upload scanning enabled", slog.String("clamd_addr", addr))
	}
	uploader := upload.NewUploader(files, scanner, logger)

	var redisClient *redis.Client
	if addr := strings.TrimSpace(cfg.Redis.Addr); addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("close redis client failed", slog.Any("error", err))
			}
		}()
	}

	limiter, err := newLimiter(cfg.RateLimit, redisClient, logger)
	if err != nil {
		log.Fatalf("init rate limiter: %v", err)
	}

	notifier, inline, closeNotifier := newNotifier(cfg, logger)
	defer closeNotifier()

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret)
	if err != nil {
		log.Fatalf("init token service: %v", err)
	}
	authService := auth.NewService(db.Users, tokens, cfg.Auth.BcryptCost)

	services := content.New(db.Stores, content.Options{
		Fallback: dataset,
		CacheTTL: cfg.Cache.TTL,
		Notifier: notifier,
		Logger:   logger,
	})

	server := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.API.Port),
		Handler: api.NewHandler(api.Deps{
			Config:     cfg.API,
			Logger:     logger,
			Auth:       authService,
			Content:    services,
			Uploader:   uploader,
			Files:      files,
			Limiter:    limiter,
			SetupToken: cfg.Auth.SetupToken,
			DB:         db,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("api listening",
			slog.String("addr", server.Addr),
			slog.String("env", cfg.API.Env),
			slog.String("database", db.Backend),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	if dbDown {
		g.Go(func() error {
			if err := db.WatchSchema(gctx, schemaRetryInterval, logger); err != nil && gctx.Err() == nil {
				return fmt.Errorf("watch database: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down api")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		if inline != nil {
			if err := inline.Wait(shutdownCtx); err != nil {
				logger.Warn("pending notifications abandoned", slog.Any("error", err))
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("api stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func newObjectStore(ctx context.Context, cfg *config.Config) (storage.ObjectStore, error) {
	if strings.EqualFold(cfg.Storage.Backend, "minio") {
		return storage.NewMinioStore(ctx, cfg.MinIO)
	}
	return storage.NewDiskStore(cfg.Storage.UploadDir)
}

func newLimiter(cfg config.RateLimitConfig, client *redis.Client, logger *slog.Logger) (middleware.Limiter, error) {
	if client == nil {
		return ratelimit.NewMemoryLimiter(cfg.Max, cfg.Window)
	}
	return ratelimit.NewRedisLimiter(client, cfg.Prefix, cfg.Max, cfg.Window, logger)
}

// newNotifier 根据配置选择通知方式；未配置 SMTP 时无论何种方式都丢弃通知。
func newNotifier(cfg *config.Config, logger *slog.Logger) (notify.Notifier, *notify.Inline, func()) {
	mailer := notify.NewMailer(cfg.Mail)
	if mailer == nil {
		logger.Info("email notifications disabled, smtp credentials missing")
		return notify.Discard{}, nil, func() {}
	}
	if cfg.Mail.Dispatch == "queue" {
		client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		closeClient := func() {
			if err := client.Close(); err != nil {
				logger.Error("close asynq client failed", slog.Any("error", err))
			}
		}
		return notify.NewQueue(client, logger), nil, closeClient
	}
	inline := notify.NewInline(mailer, cfg.Mail.Timeout, logger)
	return inline, inline, func() {}
}
