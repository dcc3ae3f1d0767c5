package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MdFayaz7/portfolio1/internal/config"
	"github.com/MdFayaz7/portfolio1/internal/store"
)

const defaultMongoDatabase = "portfolio_db"

// Stores groups the per-collection stores.
type Stores struct {
	Users     store.Store[User]
	Profiles  store.Store[Profile]
	Education store.Store[Education]
	Skills    store.Store[Skill]
	Projects  store.Store[Project]
	Messages  store.Store[Message]
}

// Handle owns the underlying connection.
type Handle struct {
	Stores
	Backend string
	close   func(context.Context) error
	ping    func(context.Context) error
	// setup creates tables or indexes; it runs once after the first successful ping.
	setup func(context.Context) error

	mu    sync.Mutex
	ready bool
}

// Close releases the connection.
func (h *Handle) Close(ctx context.Context) error {
	if h == nil || h.close == nil {
		return nil
	}
	return h.close(ctx)
}

// Ping checks connectivity.
func (h *Handle) Ping(ctx context.Context) error {
	if h == nil || h.ping == nil {
		return errors.New("database not initialised")
	}
	return h.ping(ctx)
}

// Ready reports whether the schema has been set up.
func (h *Handle) Ready() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ready
}

// EnsureSchema pings the store and runs the schema step if it has not succeeded
// yet. It may be called repeatedly.
func (h *Handle) EnsureSchema(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ready {
		return nil
	}
	if err := h.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if h.setup != nil {
		if err := h.setup(ctx); err != nil {
			return err
		}
	}
	h.ready = true
	return nil
}

// WatchSchema retries EnsureSchema every interval until it succeeds or ctx ends.
func (h *Handle) WatchSchema(ctx context.Context, interval time.Duration, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		attemptCtx, cancel := context.WithTimeout(ctx, interval)
		err := h.EnsureSchema(attemptCtx)
		cancel()
		if err == nil {
			log.Info("database ready", slog.String("backend", h.Backend))
			return nil
		}
		log.Debug("database still unavailable", slog.Any("error", err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Open connects to the store selected by the URI scheme: postgres:// goes through
// gorm, mongodb:// and mongodb+srv:// through the official driver.
//
// Connection failures after the handle is built are returned together with the
// handle so callers may keep serving fallback data.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*Handle, error) {
	uri := strings.TrimSpace(cfg.URI)
	switch {
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		return openPostgres(ctx, cfg, log)
	case strings.HasPrefix(uri, "mongodb://"), strings.HasPrefix(uri, "mongodb+srv://"):
		return openMongo(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported database uri scheme in %q", redact(uri))
	}
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*Handle, error) {
	db, err := gorm.Open(postgres.Open(cfg.URI), &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Warn),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap db: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	h := &Handle{
		Stores:  NewGormStores(db),
		Backend: "postgres",
		close:   func(context.Context) error { return sqlDB.Close() },
		ping:    sqlDB.PingContext,
		setup:   func(context.Context) error { return Migrate(db) },
	}

	return h, initialise(ctx, h, cfg, log)
}

// initialise makes the first schema attempt. On failure the handle is still
// returned and the caller may retry with WatchSchema.
func initialise(ctx context.Context, h *Handle, cfg config.DatabaseConfig, log *slog.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout(cfg))
	defer cancel()
	if err := h.EnsureSchema(ctx); err != nil {
		return err
	}
	if log != nil {
		log.Info("database ready", slog.String("backend", h.Backend))
	}
	return nil
}

// Migrate creates or updates the relational schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// NewGormStores builds stores over an open gorm connection.
func NewGormStores(db *gorm.DB) Stores {
	return Stores{
		Users:     store.NewGorm[User](db),
		Profiles:  store.NewGorm[Profile](db),
		Education: store.NewGorm[Education](db),
		Skills:    store.NewGorm[Skill](db),
		Projects:  store.NewGorm[Project](db),
		Messages:  store.NewGorm[Message](db),
	}
}

func openMongo(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*Handle, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(connectTimeout(cfg)).
		SetServerSelectionTimeout(connectTimeout(cfg))
	if cfg.MaxOpenConns > 0 {
		opts.SetMaxPoolSize(uint64(cfg.MaxOpenConns))
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	name := cfg.Name
	if name == "" {
		name = mongoDatabaseName(cfg.URI)
	}
	db := client.Database(name)

	h := &Handle{
		Stores:  NewMongoStores(db),
		Backend: "mongodb",
		close:   client.Disconnect,
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		setup: func(ctx context.Context) error {
			_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			})
			if err != nil {
				return fmt.Errorf("create users index: %w", err)
			}
			return nil
		},
	}

	return h, initialise(ctx, h, cfg, log)
}

// NewMongoStores builds stores over a mongo database.
func NewMongoStores(db *mongo.Database) Stores {
	return Stores{
		Users:     store.NewMongo[User](db.Collection("users")),
		Profiles:  store.NewMongo[Profile](db.Collection("profiles")),
		Education: store.NewMongo[Education](db.Collection("educations")),
		Skills:    store.NewMongo[Skill](db.Collection("skills")),
		Projects:  store.NewMongo[Project](db.Collection("projects")),
		Messages:  store.NewMongo[Message](db.Collection("messages")),
	}
}

func mongoDatabaseName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultMongoDatabase
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return defaultMongoDatabase
}

func connectTimeout(cfg config.DatabaseConfig) time.Duration {
	if cfg.ConnectTimeout > 0 {
		return cfg.ConnectTimeout
	}
	return 5 * time.Second
}

func redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "<invalid>"
	}
	return u.Redacted()
}
